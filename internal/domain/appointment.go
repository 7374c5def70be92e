package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// AppointmentStatus статус записи
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// IsValid returns true for known statuses
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CancelledBy сторона, отменившая запись
type CancelledBy string

const (
	CancelledByClient CancelledBy = "client"
	CancelledBySalon  CancelledBy = "salon"
)

// statusTransitions допустимые переходы статусов
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Appointment represents a client's appointment at a salon
type Appointment struct {
	ID              int64
	UserID          int64
	SalonID         int64
	ServiceID       int64
	StylistID       *int64 // nil = любой мастер салона
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          AppointmentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	ClientName   *string
	ClientPhone  *string
	Notes        *string

	CancelledBy        *CancelledBy
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment still occupies its interval
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo returns true if the status change is allowed
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range statusTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// DurationMinutes длительность записи в минутах
func (a *Appointment) DurationMinutes() int {
	start, err := a.StartTime.Minutes()
	if err != nil {
		return 0
	}
	end, err := a.EndTime.Minutes()
	if err != nil {
		return 0
	}
	return end - start
}

// SalonAppointmentsFilter фильтр для получения записей салона
type SalonAppointmentsFilter struct {
	SalonID         int64              // Обязательный параметр
	Date            *time.Time         // Конкретный день (опционально)
	StylistID       *int64             // Фильтр по мастеру (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отмененные записи
	ForUpdate       bool               // Блокировать выбранные строки (только внутри транзакции)
}
