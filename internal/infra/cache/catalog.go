package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
)

const keyPrefix = "salon-booking:catalog:"

// CachedCatalog кэширует ответы SalonService.
// Ошибки хранилища не ломают запрос: данные берутся напрямую из каталога.
type CachedCatalog struct {
	next  SalonCatalog
	store Store
	ttl   time.Duration
	log   Logger
}

func NewCachedCatalog(next SalonCatalog, store Store, ttl time.Duration, log Logger) *CachedCatalog {
	return &CachedCatalog{next: next, store: store, ttl: ttl, log: log}
}

func (c *CachedCatalog) GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error) {
	key := salonKey(salonID)

	var salon salonservice.Salon
	if c.load(ctx, key, &salon) {
		return &salon, nil
	}

	fresh, err := c.next.GetSalon(ctx, salonID)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, fresh)
	return fresh, nil
}

func (c *CachedCatalog) GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error) {
	key := serviceKey(salonID, serviceID)

	var service salonservice.Service
	if c.load(ctx, key, &service) {
		return &service, nil
	}

	fresh, err := c.next.GetService(ctx, salonID, serviceID)
	if err != nil {
		return nil, err
	}

	c.save(ctx, key, fresh)
	return fresh, nil
}

func (c *CachedCatalog) load(ctx context.Context, key string, out interface{}) bool {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("Catalog cache read failed for %s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.log.Warn("Catalog cache entry %s is corrupted: %v", key, err)
		return false
	}
	return true
}

func (c *CachedCatalog) save(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("Catalog cache marshal failed for %s: %v", key, err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.log.Warn("Catalog cache write failed for %s: %v", key, err)
	}
}

func salonKey(salonID int64) string {
	return fmt.Sprintf("%ssalon:%d", keyPrefix, salonID)
}

func serviceKey(salonID, serviceID int64) string {
	return fmt.Sprintf("%ssalon:%d:service:%d", keyPrefix, salonID, serviceID)
}
