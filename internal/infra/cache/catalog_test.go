package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	failGet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return nil, ErrStore
	}
	v, ok := s.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

type countingCatalog struct {
	salonCalls   int
	serviceCalls int
}

func (c *countingCatalog) GetSalon(ctx context.Context, salonID int64) (*salonservice.Salon, error) {
	c.salonCalls++
	if salonID == 404 {
		return nil, salonservice.ErrSalonNotFound
	}
	return &salonservice.Salon{ID: salonID, Name: "Studio", ManagerIDs: []int64{1}}, nil
}

func (c *countingCatalog) GetService(ctx context.Context, salonID, serviceID int64) (*salonservice.Service, error) {
	c.serviceCalls++
	return &salonservice.Service{ID: serviceID, SalonID: salonID, DurationMinutes: 45}, nil
}

func TestCachedCatalog_HitsCacheOnSecondCall(t *testing.T) {
	next := &countingCatalog{}
	c := NewCachedCatalog(next, newMemoryStore(), time.Minute, logger.NewNop())
	ctx := context.Background()

	first, err := c.GetSalon(ctx, 3)
	require.NoError(t, err)
	second, err := c.GetSalon(ctx, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.salonCalls)

	_, err = c.GetService(ctx, 3, 5)
	require.NoError(t, err)
	svc, err := c.GetService(ctx, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 45, svc.DurationMinutes)
	assert.Equal(t, 1, next.serviceCalls)
}

func TestCachedCatalog_ErrorsAreNotCached(t *testing.T) {
	next := &countingCatalog{}
	c := NewCachedCatalog(next, newMemoryStore(), time.Minute, logger.NewNop())

	_, err := c.GetSalon(context.Background(), 404)
	assert.True(t, errors.Is(err, salonservice.ErrSalonNotFound))
	_, _ = c.GetSalon(context.Background(), 404)

	assert.Equal(t, 2, next.salonCalls)
}

func TestCachedCatalog_StoreFailureFallsThrough(t *testing.T) {
	next := &countingCatalog{}
	store := newMemoryStore()
	store.failGet = true
	c := NewCachedCatalog(next, store, time.Minute, logger.NewNop())

	salon, err := c.GetSalon(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), salon.ID)
}
