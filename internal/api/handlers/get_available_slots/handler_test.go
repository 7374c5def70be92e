package get_available_slots

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailableSlots.Response{
		Date:            req.Date,
		SalonID:         req.SalonID,
		ServiceID:       req.ServiceID,
		StylistID:       req.StylistID,
		DurationMinutes: 60,
		Slots: []domain.CandidateSlot{
			{StartTime: "09:00", EndTime: "10:00", Available: true, AvailableSpots: 1, TotalSpots: 1},
			{StartTime: "10:00", EndTime: "11:00", Available: false, AvailableSpots: 0, TotalSpots: 1},
		},
	}, nil
}

func serve(uc *fakeUseCase, salonID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID+"/available-slots"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"salonId": salonID})
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Slots(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(uc, "1", "?serviceId=2&date=2030-01-07&stylistId=4")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"startTime":"09:00","endTime":"10:00","available":true`)
	assert.Contains(t, body, `"available":false`)
	assert.Contains(t, body, `"stylistId":4`)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(2), uc.got.ServiceID)
	require.NotNil(t, uc.got.StylistID)
	assert.Equal(t, int64(4), *uc.got.StylistID)
	assert.Equal(t, time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC), uc.got.Date)
}

func TestHandle_BadParams(t *testing.T) {
	queries := map[string]string{
		"no service":   "?date=2030-01-07",
		"bad service":  "?serviceId=x&date=2030-01-07",
		"no date":      "?serviceId=2",
		"bad date":     "?serviceId=2&date=2030/01/07",
		"bad stylist":  "?serviceId=2&date=2030-01-07&stylistId=-1",
		"zero service": "?serviceId=0&date=2030-01-07",
	}

	for name, q := range queries {
		uc := &fakeUseCase{}
		rec := serve(uc, "1", q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		assert.Nil(t, uc.got, name)
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{getAvailableSlots.ErrSalonNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrStylistNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrStylistDoesNotPerformService, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := serve(&fakeUseCase{err: tt.err}, "1", "?serviceId=2&date=2030-01-07")
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}
