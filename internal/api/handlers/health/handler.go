package health

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

// Response тело ответа health-check
type Response struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	SchemaVersion int64  `json:"schemaVersion,omitempty"`
}

type Handler struct {
	db            Pinger
	schemaVersion int64
	logger        Logger
}

// NewHandler schemaVersion == 0 означает, что версия схемы неизвестна
func NewHandler(db Pinger, schemaVersion int64, logger Logger) *Handler {
	return &Handler{
		db:            db,
		schemaVersion: schemaVersion,
		logger:        logger,
	}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("GET /health - Database ping failed: %v", err)
		handlers.RespondJSON(w, http.StatusServiceUnavailable, Response{
			Status:   statusUnavailable,
			Database: statusUnavailable,
		})
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Status:        statusOK,
		Database:      statusOK,
		SchemaVersion: h.schemaVersion,
	})
}
