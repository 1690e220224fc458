// health.go — liveness и readiness probes.
package handlers

import (
	"context"
	"net/http"
	"time"
)

// readinessTimeout — лимит времени проверки готовности зависимостей.
const readinessTimeout = 2 * time.Second

// ReadinessChecker — проверка готовности внешней зависимости (БД).
type ReadinessChecker interface {
	CheckReady(ctx context.Context) error
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	checker ReadinessChecker
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(checker ReadinessChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// healthResponse — тело ответа health probes.
type healthResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Live обрабатывает GET /health/live.
// Процесс жив — отвечаем 200 без проверки зависимостей.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// Ready обрабатывает GET /health/ready.
// 200 — сервис готов принимать трафик, 503 — зависимость недоступна.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if h.checker != nil {
		if err := h.checker.CheckReady(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status: "fail",
				Detail: err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
