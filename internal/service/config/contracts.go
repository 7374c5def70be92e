package config

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
)

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	Create(ctx context.Context, config *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error)
	GetBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonBookingConfig, error)
	GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonBookingConfig, error)
	GetAllBySalon(ctx context.Context, salonID int64) ([]*domain.SalonBookingConfig, error)
	Update(ctx context.Context, id int64, config *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error)
	DeleteBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) error
}

// SalonCatalog интерфейс каталога салонов
type SalonCatalog interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// ActionHistory журнал административных действий
type ActionHistory interface {
	Push(record domain.ActionRecord)
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
