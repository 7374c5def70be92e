package delete_salon_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config/models"
)

const (
	msgUnauthorized     = "пользователь не авторизован"
	msgInvalidSalonID   = "некорректный ID салона"
	msgInvalidServiceID = "некорректный ID услуги"
	msgSalonNotFound    = "салон не найден"
	msgNotFound         = "конфигурация не найдена"
	msgForbidden        = "доступ запрещен"
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

// Handle DELETE /api/v1/salons/{salonId}/config
// Query params: serviceId (опционально, без него удаляется общая конфигурация салона)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("DELETE /salons/{id}/config - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("DELETE /salons/{id}/config - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	err = h.service.DeleteByKey(r.Context(), &models.DeleteConfigRequest{
		UserID:    userID,
		SalonID:   salonID,
		ServiceID: serviceID,
	})
	if err != nil {
		switch {
		case errors.Is(err, config.ErrSalonNotFound):
			h.logger.Warn("DELETE /salons/{id}/config - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, config.ErrConfigNotFound):
			h.logger.Warn("DELETE /salons/{id}/config - Config not found: salon_id=%d, service_id=%v", salonID, serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("DELETE /salons/{id}/config - Access denied: salon_id=%d, user_id=%d", salonID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /salons/{id}/config - Failed to delete config: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /salons/{id}/config - Config deleted successfully: salon_id=%d, service_id=%v",
		salonID, serviceID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
