package create_appointment

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeUseCase struct {
	got *createAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	end, _ := req.StartTime.AddMinutes(60)
	return &createAppointment.Response{
		ID:              11,
		UserID:          req.UserID,
		SalonID:         req.SalonID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.Date,
		StartTime:       req.StartTime,
		EndTime:         end,
		Status:          "pending",
		ServiceName:     "Стрижка",
		ServicePrice:    1500,
	}, nil
}

const validBody = `{"salonId":1,"serviceId":2,"appointmentDate":"2030-01-07","startTime":"10:00"}`

func serve(t *testing.T, uc *fakeUseCase, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}

	rec := serve(t, uc, validBody, 5)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"endTime":"11:00"`)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(5), uc.got.UserID)
	assert.Equal(t, types.TimeString("10:00"), uc.got.StartTime)
	assert.Equal(t, time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC), uc.got.Date)
}

func TestHandle_RequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		userID int64
		status int
	}{
		{"no user", validBody, 0, http.StatusUnauthorized},
		{"empty body", "", 5, http.StatusBadRequest},
		{"unknown field", `{"userId":5}`, 5, http.StatusBadRequest},
		{"bad date", `{"salonId":1,"serviceId":2,"appointmentDate":"07.01.2030","startTime":"10:00"}`, 5, http.StatusBadRequest},
		{"bad time", `{"salonId":1,"serviceId":2,"appointmentDate":"2030-01-07","startTime":"25:00"}`, 5, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(t, uc, tt.body, tt.userID)
			assert.Equal(t, tt.status, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{createAppointment.ErrSlotNotAvailable, http.StatusConflict},
		{createAppointment.ErrSalonNotFound, http.StatusNotFound},
		{createAppointment.ErrServiceNotFound, http.StatusNotFound},
		{createAppointment.ErrStylistNotFound, http.StatusNotFound},
		{createAppointment.ErrStylistDoesNotPerformService, http.StatusBadRequest},
		{createAppointment.ErrSalonClosed, http.StatusBadRequest},
		{createAppointment.ErrInvalidDate, http.StatusBadRequest},
		{createAppointment.ErrDateTooFarInFuture, http.StatusBadRequest},
		{createAppointment.ErrInvalidTimeSlot, http.StatusBadRequest},
		{createAppointment.ErrTooLateToBook, http.StatusBadRequest},
		{createAppointment.ErrInvalidInput, http.StatusBadRequest},
		{createAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &fakeUseCase{err: fmt.Errorf("%w: details", tt.err)}
			rec := serve(t, uc, validBody, 5)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
