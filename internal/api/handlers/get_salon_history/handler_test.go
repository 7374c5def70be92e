package get_salon_history

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
	salonID, userID int64
	limit           int
	err             error
}

func (f *fakeService) GetHistory(_ context.Context, salonID, userID int64, limit int) (*models.HistoryResponse, error) {
	f.salonID, f.userID, f.limit = salonID, userID, limit
	if f.err != nil {
		return nil, f.err
	}
	return &models.HistoryResponse{Actions: []models.ActionResponse{
		{Action: "config.deleted", ActorID: userID, SalonID: salonID},
	}}, nil
}

func serve(svc *fakeService, salonID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/salons/"+salonID+"/history"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"salonId": salonID})
	req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "3", "?limit=20")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.salonID)
	assert.Equal(t, int64(100), svc.userID)
	assert.Equal(t, 20, svc.limit)

	var body models.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Actions, 1)
	assert.Equal(t, "config.deleted", body.Actions[0].Action)
}

func TestHandle_DefaultLimit(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "3", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, svc.limit)
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
		{"limit not a number", "3", "?limit=ten", nil, http.StatusBadRequest},
		{"limit out of range", "3", "?limit=100000", appointments.ErrInvalidInput, http.StatusBadRequest},
		{"salon not found", "3", "", appointments.ErrSalonNotFound, http.StatusNotFound},
		{"not a manager", "3", "", appointments.ErrAccessDenied, http.StatusForbidden},
		{"storage failure", "3", "", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.salon, tt.query)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
