package get_salon_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
)

const (
	msgUnauthorized   = "пользователь не авторизован"
	msgInvalidSalonID = "некорректный ID салона"
	msgInvalidFilter  = "некорректные параметры фильтрации"
	msgSalonNotFound  = "салон не найден"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/appointments
// Query params: date, stylistId, status, includeInactive (все опциональны)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/appointments - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	serviceReq, err := ToServiceRequest(r, salonID, userID)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/appointments - Invalid filter: salon_id=%d, error=%v", salonID, err)
		handlers.RespondBadRequest(w, msgInvalidFilter)
		return
	}

	result, err := h.service.GetSalonAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/appointments - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /salons/{id}/appointments - Access denied: salon_id=%d, user_id=%d", salonID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/appointments - Invalid filter: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /salons/{id}/appointments - Failed to get appointments: salon_id=%d, error=%v",
				salonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /salons/{id}/appointments - Appointments retrieved successfully: salon_id=%d, count=%d",
		salonID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result.Appointments)
}
