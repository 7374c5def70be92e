package cache

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
)

// Store хранилище ключ-значение с TTL
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SalonCatalog источник данных о салонах и услугах
type SalonCatalog interface {
	GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
