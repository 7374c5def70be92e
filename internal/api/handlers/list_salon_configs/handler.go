package list_salon_configs

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config"
)

const (
	msgUnauthorized   = "пользователь не авторизован"
	msgInvalidSalonID = "некорректный ID салона"
	msgSalonNotFound  = "салон не найден"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/configs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/configs - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	result, err := h.service.GetAllBySalon(r.Context(), salonID, userID)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/configs - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("GET /salons/{id}/configs - Access denied: salon_id=%d, user_id=%d", salonID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /salons/{id}/configs - Failed to get configs: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/configs - Configs retrieved successfully: salon_id=%d, count=%d",
		salonID, len(result.Configs))
	handlers.RespondJSON(w, http.StatusOK, result.Configs)
}
