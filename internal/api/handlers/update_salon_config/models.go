package update_salon_config

import (
	"github.com/m04kA/SMC-SalonBooking/internal/service/config/models"
)

// UpdateSalonConfigRequest HTTP request model
// serviceId == nil означает общую конфигурацию салона
type UpdateSalonConfigRequest struct {
	ServiceID               *int64 `json:"serviceId,omitempty"`
	SlotGranularityMinutes  *int   `json:"slotGranularityMinutes,omitempty"`
	MaxConcurrentBookings   *int   `json:"maxConcurrentBookings,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSalonConfigRequest) ToServiceRequest(salonID, userID int64) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		UserID:                  userID,
		SalonID:                 salonID,
		ServiceID:               r.ServiceID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MaxConcurrentBookings:   r.MaxConcurrentBookings,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
