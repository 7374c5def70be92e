package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SalonID <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StylistID != nil && *req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime %q", ErrInvalidInput, req.StartTime)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата подходит для записи
func validateDate(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	day := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, now.Location())

	if day.Before(today) {
		return ErrInvalidDate
	}

	// 0 = без ограничений
	if advanceBookingDays == 0 {
		return nil
	}

	if day.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateStylist проверяет, что мастер работает в салоне и оказывает услугу
func validateStylist(salon *salonservice.Salon, stylistID, serviceID int64) error {
	stylist, ok := salon.FindStylist(stylistID)
	if !ok {
		return ErrStylistNotFound
	}
	if !stylist.Performs(serviceID) {
		return ErrStylistDoesNotPerformService
	}
	return nil
}

// validateSlotPlacement проверяет, что интервал лежит на сетке слотов и внутри рабочих часов
func validateSlotPlacement(slot availability.Interval, hours domain.BusinessHours, granularity int) error {
	if granularity <= 0 {
		granularity = availability.DefaultGranularityMinutes
	}

	open, err := hours.Open.Minutes()
	if err != nil {
		return fmt.Errorf("%w: bad opening time %q", ErrInvalidTimeSlot, hours.Open)
	}
	closeAt, err := hours.Close.Minutes()
	if err != nil {
		return fmt.Errorf("%w: bad closing time %q", ErrInvalidTimeSlot, hours.Close)
	}
	start, err := slot.Start.Minutes()
	if err != nil {
		return fmt.Errorf("%w: bad start time %q", ErrInvalidTimeSlot, slot.Start)
	}
	end, err := slot.End.Minutes()
	if err != nil {
		return fmt.Errorf("%w: bad end time %q", ErrInvalidTimeSlot, slot.End)
	}

	if start < open || end > closeAt {
		return fmt.Errorf("%w: %s-%s is outside business hours %s-%s",
			ErrInvalidTimeSlot, slot.Start, slot.End, hours.Open, hours.Close)
	}

	if (start-open)%granularity != 0 {
		return fmt.Errorf("%w: %s is not aligned to %d-minute grid from %s",
			ErrInvalidTimeSlot, slot.Start, granularity, hours.Open)
	}

	return nil
}

// validateBookingTime проверяет, что запись не в прошлом.
// Для сегодняшнего дня до начала должно оставаться не меньше minNoticeMinutes.
func validateBookingTime(date time.Time, startTime types.TimeString, now time.Time, minNoticeMinutes int) error {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	start, err := startTime.OnDate(day)
	if err != nil {
		return fmt.Errorf("%w: invalid startTime %q", ErrInvalidInput, startTime)
	}

	if start.Before(now) {
		return fmt.Errorf("%w: slot %s has already started", ErrTooLateToBook, startTime)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Equal(today) && start.Before(now.Add(time.Duration(minNoticeMinutes)*time.Minute)) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, minNoticeMinutes)
	}

	return nil
}
