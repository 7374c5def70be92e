package domain

import "github.com/m04kA/SMC-SalonBooking/pkg/types"

// Service услуга салона (из каталога salon-service)
type Service struct {
	ID              int64
	Name            string
	DurationMinutes int
	Price           float64
}

// BusinessHours часы работы салона в конкретный день
type BusinessHours struct {
	Open  types.TimeString
	Close types.TimeString
}

// IsClosed returns true if the salon does not work that day
func (h BusinessHours) IsClosed() bool {
	return h.Open.IsZero() || h.Close.IsZero() || !h.Open.IsBefore(h.Close)
}

// CandidateSlot represents a time slot offered for booking
type CandidateSlot struct {
	StartTime      types.TimeString
	EndTime        types.TimeString
	Available      bool
	AvailableSpots int
	TotalSpots     int
}
