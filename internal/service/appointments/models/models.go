package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserAppointmentsRequest запрос на получение записей пользователя
type GetUserAppointmentsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetSalonAppointmentsRequest запрос на получение записей салона
type GetSalonAppointmentsRequest struct {
	UserID          int64      `json:"userId"`
	SalonID         int64      `json:"salonId"`
	Date            *time.Time `json:"date,omitempty"`
	StylistID       *int64     `json:"stylistId,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetSalonAppointmentsRequest) ToDomainFilter() (domain.SalonAppointmentsFilter, error) {
	filter := domain.SalonAppointmentsFilter{
		SalonID:         r.SalonID,
		Date:            r.Date,
		StylistID:       r.StylistID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	SalonID         int64   `json:"salonId"`
	ServiceID       int64   `json:"serviceId"`
	StylistID       *int64  `json:"stylistId,omitempty"`
	AppointmentDate string  `json:"appointmentDate"` // "2025-10-15"
	StartTime       string  `json:"startTime"`       // "10:00"
	EndTime         string  `json:"endTime"`         // "11:00"
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	ClientName      *string `json:"clientName,omitempty"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
	Notes           *string `json:"notes,omitempty"`

	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // RFC 3339

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// ActionResponse запись истории действий
type ActionResponse struct {
	Action   string    `json:"action"`
	ActorID  int64     `json:"actorId"`
	SalonID  int64     `json:"salonId"`
	TargetID int64     `json:"targetId"`
	Details  string    `json:"details,omitempty"`
	At       time.Time `json:"at"`
}

// HistoryResponse последние действия в салоне, новые первыми
type HistoryResponse struct {
	Actions []ActionResponse `json:"actions"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		UserID:             a.UserID,
		SalonID:            a.SalonID,
		ServiceID:          a.ServiceID,
		StylistID:          a.StylistID,
		AppointmentDate:    a.AppointmentDate.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		EndTime:            a.EndTime.String(),
		Status:             string(a.Status),
		ServiceName:        a.ServiceName,
		ServicePrice:       a.ServicePrice,
		ClientName:         a.ClientName,
		ClientPhone:        a.ClientPhone,
		Notes:              a.Notes,
		CancellationReason: a.CancellationReason,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledBy != nil {
		by := string(*a.CancelledBy)
		resp.CancelledBy = &by
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if item := FromDomainAppointment(a); item != nil {
			resp.Appointments = append(resp.Appointments, *item)
		}
	}

	return resp
}

// FromDomainActions конвертирует историю действий в DTO
func FromDomainActions(records []domain.ActionRecord) *HistoryResponse {
	resp := &HistoryResponse{
		Actions: make([]ActionResponse, 0, len(records)),
	}

	for _, r := range records {
		resp.Actions = append(resp.Actions, ActionResponse{
			Action:   string(r.Action),
			ActorID:  r.ActorID,
			SalonID:  r.SalonID,
			TargetID: r.TargetID,
			Details:  r.Details,
			At:       r.At,
		})
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
