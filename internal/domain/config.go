package domain

import "time"

// SalonBookingConfig represents the booking configuration for a salon
// Supports hierarchical configuration:
// 1. Specific service (salon_id, service_id)
// 2. Salon-wide (salon_id, NULL)
type SalonBookingConfig struct {
	ID                      int64
	SalonID                 int64
	ServiceID               *int64 // NULL = config for all services
	SlotGranularityMinutes  int
	MaxConcurrentBookings   int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSalonBookingConfig конфигурация, действующая когда в БД ничего не сохранено
func DefaultSalonBookingConfig(salonID int64) *SalonBookingConfig {
	return &SalonBookingConfig{
		SalonID:                 salonID,
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		MaxConcurrentBookings:   DefaultMaxConcurrentBookings,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsDefault returns true if the config was not loaded from storage
func (c *SalonBookingConfig) IsDefault() bool {
	return c.ID == 0
}

// IsSalonWide returns true if this config applies to every service of the salon
func (c *SalonBookingConfig) IsSalonWide() bool {
	return c.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *SalonBookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SupportsParallelBookings returns true if multiple concurrent appointments are supported
func (c *SalonBookingConfig) SupportsParallelBookings() bool {
	return c.MaxConcurrentBookings > 1
}
