package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, by domain.CancelledBy, reason *string) error
}

// SalonCatalog интерфейс каталога салонов (нужен для проверки менеджеров)
type SalonCatalog interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
}

// ActionHistory журнал административных действий
type ActionHistory interface {
	Push(record domain.ActionRecord)
	Latest(limit int, match func(domain.ActionRecord) bool) []domain.ActionRecord
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
