package update_salon_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidSalonID     = "некорректный ID салона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSalonNotFound      = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные конфигурации"
	msgConflict           = "конфигурация изменена параллельно, повторите запрос"
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

// Handle PUT /api/v1/salons/{salonId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("PUT /salons/{id}/config - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	var req UpdateSalonConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /salons/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Права менеджера проверяет сервис
	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(salonID, userID))
	if err != nil {
		switch {
		case errors.Is(err, config.ErrSalonNotFound):
			h.logger.Warn("PUT /salons/{id}/config - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, config.ErrServiceNotFound):
			h.logger.Warn("PUT /salons/{id}/config - Service not found: salon_id=%d, service_id=%v",
				salonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("PUT /salons/{id}/config - Access denied: salon_id=%d, user_id=%d", salonID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, config.ErrInvalidInput):
			h.logger.Warn("PUT /salons/{id}/config - Invalid data: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, config.ErrConfigConflict):
			h.logger.Warn("PUT /salons/{id}/config - Concurrent modification: salon_id=%d", salonID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /salons/{id}/config - Failed to update config: salon_id=%d, error=%v", salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /salons/{id}/config - Config updated successfully: salon_id=%d, level=%s",
		salonID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
