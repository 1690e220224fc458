// Пакет handlers — HTTP-обработчики API сервиса медиафайлов.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// APIHandler — агрегатор всех обработчиков API.
type APIHandler struct {
	Files  *FilesHandler
	Health *HealthHandler
}

// NewAPIHandler создаёт агрегатор обработчиков.
func NewAPIHandler(files *FilesHandler, health *HealthHandler) *APIHandler {
	return &APIHandler{
		Files:  files,
		Health: health,
	}
}

// writeJSON сериализует body в JSON и пишет ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Ошибка сериализации ответа", slog.String("error", err.Error()))
	}
}
