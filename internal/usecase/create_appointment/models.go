package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID    int64            // ID клиента
	SalonID   int64            // ID салона
	ServiceID int64            // ID услуги
	StylistID *int64           // ID мастера (опционально, nil = любой свободный)
	Date      time.Time        // Дата записи в часовом поясе салонов (без времени)
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Notes     *string          // Пожелания клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	UserID          int64
	SalonID         int64
	ServiceID       int64
	StylistID       *int64
	AppointmentDate time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Status          string

	// Денормализованные данные
	ServiceName  string
	ServicePrice float64
	ClientName   *string
	ClientPhone  *string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
