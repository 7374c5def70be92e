package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes  = 30
	DefaultMaxConcurrentBookings   = 1
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 480 // 8 hours
	MinConcurrentBookings       = 1
	MaxConcurrentBookings       = 100
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, не занимающие время в расписании
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses статусы, занимающие время в расписании.
// Завершённая запись тоже считается: её интервал был занят.
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
