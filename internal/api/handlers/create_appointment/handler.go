package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
)

const (
	msgUnauthorized        = "пользователь не авторизован"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты записи, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotNotAvailable    = "выбранный временной слот недоступен"
	msgSalonNotFound       = "салон не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStylistNotFound     = "мастер не найден"
	msgStylistWrongService = "мастер не оказывает выбранную услугу"
	msgSalonClosed         = "салон не работает в выбранную дату"
	msgInvalidBookingDate  = "некорректная дата записи"
	msgDateTooFar          = "дата записи слишком далеко в будущем"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для записи на этот слот"
	msgInvalidData         = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: user_id=%d, salon_id=%d, start=%s",
				userID, req.SalonID, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrSalonNotFound):
			h.logger.Warn("POST /appointments - Salon not found: salon_id=%d", req.SalonID)
			handlers.RespondNotFound(w, msgSalonNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: salon_id=%d, service_id=%d", req.SalonID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStylistNotFound):
			h.logger.Warn("POST /appointments - Stylist not found: salon_id=%d, stylist_id=%v", req.SalonID, req.StylistID)
			handlers.RespondNotFound(w, msgStylistNotFound)

		case errors.Is(err, createAppointment.ErrStylistDoesNotPerformService):
			h.logger.Warn("POST /appointments - Stylist does not perform service: salon_id=%d, service_id=%d",
				req.SalonID, req.ServiceID)
			handlers.RespondBadRequest(w, msgStylistWrongService)

		case errors.Is(err, createAppointment.ErrSalonClosed):
			h.logger.Warn("POST /appointments - Salon closed: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondBadRequest(w, msgSalonClosed)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid appointment date: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: user_id=%d, salon_id=%d", userID, req.SalonID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%d, salon_id=%d, error=%v",
				userID, req.SalonID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%d, salon_id=%d",
		result.ID, userID, req.SalonID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
