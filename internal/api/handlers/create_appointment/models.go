package create_appointment

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid appointment date")
	errInvalidTime = errors.New("invalid start time")
)

// CreateAppointmentRequest HTTP request model
// ID клиента берется из X-User-ID, а не из тела
type CreateAppointmentRequest struct {
	SalonID         int64   `json:"salonId"`
	ServiceID       int64   `json:"serviceId"`
	StylistID       *int64  `json:"stylistId,omitempty"`
	AppointmentDate string  `json:"appointmentDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`       // "10:00"
	Notes           *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	SalonID         int64   `json:"salonId"`
	ServiceID       int64   `json:"serviceId"`
	StylistID       *int64  `json:"stylistId,omitempty"`
	AppointmentDate string  `json:"appointmentDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	ClientName      *string `json:"clientName,omitempty"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.AppointmentDate)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createAppointment.Request{
		UserID:    userID,
		SalonID:   r.SalonID,
		ServiceID: r.ServiceID,
		StylistID: r.StylistID,
		Date:      date,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		StylistID:       resp.StylistID,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         resp.EndTime.String(),
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		ClientName:      resp.ClientName,
		ClientPhone:     resp.ClientPhone,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
