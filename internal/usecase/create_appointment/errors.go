package create_appointment

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrStylistNotFound возвращается, когда мастер не работает в салоне
	ErrStylistNotFound = errors.New("stylist not found")

	// ErrStylistDoesNotPerformService возвращается, когда мастер не оказывает услугу
	ErrStylistDoesNotPerformService = errors.New("stylist does not perform this service")

	// ErrSalonClosed возвращается, когда салон не работает в выбранный день
	ErrSalonClosed = errors.New("salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов или рабочие часы
	ErrInvalidTimeSlot = errors.New("invalid time slot")

	// ErrSlotNotAvailable возвращается, когда слот уже занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrTooLateToBook возвращается, когда до начала осталось меньше minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
