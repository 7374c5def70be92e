package get_user_appointments

import (
	"context"
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
	req *models.GetUserAppointmentsRequest
	err error
}

func (f *fakeService) GetUserAppointments(_ context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentListResponse{
		Appointments: []models.AppointmentResponse{{ID: 1, UserID: req.UserID, Status: "pending"}},
	}, nil
}

func serve(svc *fakeService, pathUser string, requester int64, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/"+pathUser+"/appointments"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"userId": pathUser})
	req = req.WithContext(middleware.WithUserID(req.Context(), requester))
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OwnAppointments(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "3", 3, "?status=pending")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userId":3`)
	require.NotNil(t, svc.req.Status)
	assert.Equal(t, "pending", *svc.req.Status)
}

func TestHandle_OtherUserForbidden(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, "3", 4, "")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, svc.req)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "x", 3, "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: appointments.ErrInvalidInput}, "3", 3, "?status=lost").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: appointments.ErrInternal}, "3", 3, "").Code)
}
