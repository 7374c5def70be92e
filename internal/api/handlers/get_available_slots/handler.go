package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidSalonID       = "некорректный ID салона"
	msgInvalidServiceID     = "некорректный ID услуги"
	msgInvalidStylistID     = "некорректный ID мастера"
	msgMissingServiceID     = "ID услуги обязателен"
	msgMissingDate          = "дата обязательна"
	msgInvalidDateFormat    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSalonNotFound        = "салон не найден"
	msgServiceNotFound      = "услуга не найдена"
	msgStylistNotFound      = "мастер не найден"
	msgStylistWrongService  = "мастер не оказывает выбранную услугу"
	msgDateInPast           = "дата в прошлом"
	msgDateTooFar           = "дата слишком далеко в будущем"
	msgInvalidRequestParams = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/salons/{salonId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD), stylistId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	salonID, err := handlers.PathInt64(r, "salonId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid salon ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}
	if serviceID == nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Missing service ID: salon_id=%d", salonID)
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	stylistID, err := handlers.QueryInt64(r, "stylistId")
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid stylist ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStylistID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /salons/{id}/available-slots - Missing date: salon_id=%d", salonID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(salonID, *serviceID, stylistID, dateStr)
	if err != nil {
		h.logger.Warn("GET /salons/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateFormat)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrSalonNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Salon not found: salon_id=%d", salonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Service not found: salon_id=%d, service_id=%d",
				salonID, *serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStylistNotFound):
			h.logger.Warn("GET /salons/{id}/available-slots - Stylist not found: salon_id=%d, stylist_id=%v",
				salonID, stylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, getAvailableSlots.ErrStylistDoesNotPerformService):
			h.logger.Warn("GET /salons/{id}/available-slots - Stylist does not perform service: salon_id=%d, service_id=%d",
				salonID, *serviceID)
			handlers.RespondBadRequest(w, msgStylistWrongService)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /salons/{id}/available-slots - Date in the past: salon_id=%d, date=%s", salonID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /salons/{id}/available-slots - Date too far: salon_id=%d, date=%s", salonID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /salons/{id}/available-slots - Invalid input: salon_id=%d, error=%v", salonID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestParams)

		default:
			h.logger.Error("GET /salons/{id}/available-slots - Failed to get slots: salon_id=%d, service_id=%d, error=%v",
				salonID, *serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /salons/{id}/available-slots - Slots retrieved successfully: salon_id=%d, service_id=%d, slots_count=%d",
		salonID, *serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
