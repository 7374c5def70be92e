package get_salon_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config/models"
)

const (
	msgInvalidSalonID   = "некорректный ID салона"
	msgInvalidServiceID = "некорректный ID услуги"
	msgSalonNotFound    = "салон не найден"
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

// Handle GET /api/v1/salons/{salonId}/config
// Query params: serviceId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/config - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/config - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.GetWithHierarchy(r.Context(), &models.GetConfigRequest{
		SalonID:   salonID,
		ServiceID: serviceID,
	})
	if err != nil {
		if errors.Is(err, config.ErrSalonNotFound) {
			h.logger.Warn("GET /salons/{id}/config - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)
			return
		}

		h.logger.Error("GET /salons/{id}/config - Failed to get config: salon_id=%d, error=%v", salonID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /salons/{id}/config - Config retrieved successfully: salon_id=%d, level=%s",
		salonID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
