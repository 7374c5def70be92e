package get_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	id, userID int64
	err        error
}

func (f *fakeService) GetByID(_ context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	f.id, f.userID = id, userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: id, UserID: userID, SalonID: 1, Status: "pending"}, nil
}

func serve(svc *fakeService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": id})
	req = req.WithContext(middleware.WithUserID(req.Context(), 9))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "31")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(31), svc.id)
	assert.Equal(t, int64(9), svc.userID)

	var body models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(31), body.ID)
	assert.Equal(t, "pending", body.Status)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		err    error
		status int
	}{
		{"bad id", "abc", nil, http.StatusBadRequest},
		{"negative id", "-1", nil, http.StatusBadRequest},
		{"not found", "31", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"foreign appointment", "31", appointments.ErrAccessDenied, http.StatusForbidden},
		{"storage failure", "31", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.id)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/31", nil)
	req = mux.SetURLVars(req, map[string]string{"appointmentId": "31"})
	rec := httptest.NewRecorder()

	NewHandler(svc, logger.NewNop()).Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.id)
}
