package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
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

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
func validateDate(requestDate time.Time, now time.Time, advanceBookingDays int) error {
	today := dateOnly(now)
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

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
