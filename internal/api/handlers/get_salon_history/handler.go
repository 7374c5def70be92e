package get_salon_history

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const (
	msgUnauthorized   = "пользователь не авторизован"
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidLimit   = "некорректный limit"
	msgSalonNotFound  = "салон не найден"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service HistoryService
	logger  Logger
}

func NewHandler(service HistoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/history
// Query params: limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/history - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /salons/{id}/history - Invalid limit: %v", err)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
	}

	result, err := h.service.GetHistory(r.Context(), salonID, userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/history - Invalid limit: salon_id=%d, limit=%d", salonID, limit)
			handlers.RespondBadRequest(w, msgInvalidLimit)

		case errors.Is(err, appointments.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/history - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /salons/{id}/history - Access denied: salon_id=%d, user_id=%d", salonID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /salons/{id}/history - Failed to get history: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/history - History retrieved successfully: salon_id=%d, count=%d",
		salonID, len(result.Actions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
