package salonservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

const salonJSON = `{
	"id": 3,
	"name": "Studio",
	"working_hours": {
		"monday": {"is_open": true, "open_time": "09:00", "close_time": "19:00"},
		"sunday": {"is_open": false}
	},
	"stylists": [{"id": 11, "name": "Olga", "service_ids": [5, 6]}],
	"manager_ids": [100]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/internal/salons/3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(salonJSON))
	})
	mux.HandleFunc("/internal/salons/3/services/5", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":5,"salon_id":3,"name":"Haircut","duration_minutes":60,"price":1500}`))
	})
	mux.HandleFunc("/internal/salons/3/services/9", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetSalon(t *testing.T) {
	c := NewClient(newTestServer(t).URL, time.Second, logger.NewNop())

	salon, err := c.GetSalon(context.Background(), 3)
	require.NoError(t, err)

	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, domain.BusinessHours{Open: "09:00", Close: "19:00"}, salon.HoursFor(monday))
	assert.True(t, salon.HoursFor(monday.AddDate(0, 0, 6)).IsClosed())
	assert.True(t, salon.HoursFor(monday.AddDate(0, 0, 1)).IsClosed())

	assert.True(t, salon.IsManager(100))
	assert.False(t, salon.IsManager(101))

	stylist, ok := salon.FindStylist(11)
	require.True(t, ok)
	assert.True(t, stylist.Performs(5))
	assert.False(t, stylist.Performs(7))
}

func TestGetSalon_NotFound(t *testing.T) {
	c := NewClient(newTestServer(t).URL, time.Second, logger.NewNop())

	_, err := c.GetSalon(context.Background(), 4)
	assert.ErrorIs(t, err, ErrSalonNotFound)
}

func TestGetService(t *testing.T) {
	c := NewClient(newTestServer(t).URL, time.Second, logger.NewNop())

	service, err := c.GetService(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, 60, service.DurationMinutes)
	assert.Equal(t, "Haircut", service.ToDomain().Name)

	_, err = c.GetService(context.Background(), 3, 9)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
