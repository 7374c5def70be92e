package get_salon_appointments

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
	req *models.GetSalonAppointmentsRequest
	err error
}

func (f *fakeService) GetSalonAppointments(_ context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{{ID: 1}, {ID: 2}}}, nil
}

func serve(svc *fakeService, salonID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID+"/appointments"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"salonId": salonID})
	req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Filters(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "5", "?date=2030-01-07&stylistId=7&status=confirmed&includeInactive=true")

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.req)
	assert.Equal(t, int64(5), svc.req.SalonID)
	assert.Equal(t, int64(100), svc.req.UserID)
	require.NotNil(t, svc.req.Date)
	assert.Equal(t, "2030-01-07", svc.req.Date.Format("2006-01-02"))
	require.NotNil(t, svc.req.StylistID)
	assert.Equal(t, int64(7), *svc.req.StylistID)
	require.NotNil(t, svc.req.Status)
	assert.Equal(t, "confirmed", *svc.req.Status)
	assert.True(t, svc.req.IncludeInactive)

	var body []models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestHandle_NoFilters(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.req.Date)
	assert.Nil(t, svc.req.StylistID)
	assert.Nil(t, svc.req.Status)
	assert.False(t, svc.req.IncludeInactive)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		salon  string
		query  string
		err    error
		status int
	}{
		{"bad salon id", "x", "", nil, http.StatusBadRequest},
		{"bad date", "5", "?date=07.01.2030", nil, http.StatusBadRequest},
		{"bad stylist", "5", "?stylistId=abc", nil, http.StatusBadRequest},
		{"bad includeInactive", "5", "?includeInactive=maybe", nil, http.StatusBadRequest},
		{"unknown status", "5", "?status=done", appointments.ErrInvalidInput, http.StatusBadRequest},
		{"salon not found", "5", "", appointments.ErrSalonNotFound, http.StatusNotFound},
		{"not a manager", "5", "", appointments.ErrAccessDenied, http.StatusForbidden},
		{"storage failure", "5", "", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.salon, tt.query)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
