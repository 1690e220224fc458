// Пакет errors — конструкторы стандартных JSON-ответов с ошибками.
// Три формата тела, зафиксированных контрактом API:
//   - доменные ошибки:      {"status": false, "message": "..."}
//   - ошибки формы запроса: {"status": false, "detail": "...", "body": ...}
//   - внутренние ошибки:    {"message": "...", "detail": "..."}
//
// Все HTTP-ответы с ошибками должны проходить через этот пакет.
package errors

import (
	"encoding/json"
	"net/http"
)

// messageBody — тело доменной ошибки.
type messageBody struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

// validationBody — тело ошибки валидации формы запроса.
type validationBody struct {
	Status bool   `json:"status"`
	Detail string `json:"detail"`
	Body   any    `json:"body"`
}

// internalBody — тело неклассифицированной серверной ошибки.
// message — общий текст для клиента, detail — диагностика для операторов.
type internalBody struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// WriteMessage записывает доменную ошибку {"status": false, "message": ...}.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(messageBody{Status: false, Message: message})
}

// --- Конструкторы для типичных ошибок ---

// NotFound — 404, ресурс не найден. Текст намеренно не различает
// «никогда не существовал» и «скрыт soft delete».
func NotFound(w http.ResponseWriter) {
	WriteMessage(w, http.StatusNotFound, "Запрашиваемый ресурс не найден")
}

// Unauthorized — 401, требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteMessage(w, http.StatusUnauthorized, message)
}

// AccessDenied — 401, аутентифицирован, но недостаточно ролей.
func AccessDenied(w http.ResponseWriter) {
	WriteMessage(w, http.StatusUnauthorized, "Access denied")
}

// ValidationError — 422, некорректная форма запроса.
// body — исходное содержимое запроса (может быть nil).
func ValidationError(w http.ResponseWriter, detail string, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(validationBody{Status: false, Detail: detail, Body: body})
}

// InternalError — 500, неклассифицированная ошибка.
// Клиенту уходит общий message, операторам — detail в теле и в логах.
func InternalError(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(internalBody{Message: "Internal Server Error", Detail: detail})
}
