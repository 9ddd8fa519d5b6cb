package handlers

import (
	"database/sql"
	"net/http"

	"github.com/jpereira88/pipecrm/internal/infra/queue"
)

type HealthHandler struct {
	DB     *sql.DB
	Broker *queue.RabbitMQ
}

func NewHealthHandler(db *sql.DB, broker *queue.RabbitMQ) *HealthHandler {
	return &HealthHandler{DB: db, Broker: broker}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := map[string]string{"database": "ok", "broker": "ok"}

	if err := h.DB.PingContext(r.Context()); err != nil {
		checks["database"] = "down"
		status = http.StatusServiceUnavailable
	}
	if h.Broker == nil || h.Broker.Conn == nil || h.Broker.Conn.IsClosed() {
		checks["broker"] = "down"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, checks)
}
