package get_salon_appointments

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

var (
	errInvalidDate            = errors.New("invalid date")
	errInvalidStylistID       = errors.New("invalid stylist id")
	errInvalidIncludeInactive = errors.New("invalid includeInactive")
)

// ToServiceRequest собирает запрос сервиса из query параметров
// date, stylistId, status и includeInactive необязательны
func ToServiceRequest(r *http.Request, salonID, userID int64) (*models.GetSalonAppointmentsRequest, error) {
	query := r.URL.Query()

	req := &models.GetSalonAppointmentsRequest{
		UserID:  userID,
		SalonID: salonID,
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, errInvalidDate
		}
		req.Date = &date
	}

	stylistID, err := handlers.QueryInt64(r, "stylistId")
	if err != nil {
		return nil, errInvalidStylistID
	}
	req.StylistID = stylistID

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errInvalidIncludeInactive
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
