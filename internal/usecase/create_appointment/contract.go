package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/userservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error)
}

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonBookingConfig, error)
}

// SalonCatalog интерфейс каталога салонов
type SalonCatalog interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error)
}

// UserServiceClient интерфейс клиента UserService
type UserServiceClient interface {
	GetProfileWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Profile, error)
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookingRecorder счётчик исходов создания записи
type BookingRecorder interface {
	RecordBooking(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени в часовом поясе салонов
type RealTimeProvider struct {
	Location *time.Location
}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	if p.Location == nil {
		return time.Now()
	}
	return time.Now().In(p.Location)
}
