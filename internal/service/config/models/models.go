package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модели

// GetConfigRequest запрос на получение действующей конфигурации
type GetConfigRequest struct {
	SalonID   int64  `json:"salonId"`
	ServiceID *int64 `json:"serviceId,omitempty"` // nil = общая конфигурация салона
}

// UpdateConfigRequest запрос на изменение конфигурации
// Все поля опциональны - обновляются только переданные значения.
// Если на этом уровне конфигурации еще нет, она создается.
type UpdateConfigRequest struct {
	UserID                  int64  `json:"userId"`
	SalonID                 int64  `json:"salonId"`
	ServiceID               *int64 `json:"serviceId,omitempty"`
	SlotGranularityMinutes  *int   `json:"slotGranularityMinutes,omitempty"`
	MaxConcurrentBookings   *int   `json:"maxConcurrentBookings,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
}

// IsEmpty возвращает true, если не передано ни одного поля
func (r *UpdateConfigRequest) IsEmpty() bool {
	return r.SlotGranularityMinutes == nil &&
		r.MaxConcurrentBookings == nil &&
		r.AdvanceBookingDays == nil &&
		r.MinBookingNoticeMinutes == nil
}

// ApplyToConfig применяет обновления к конфигурации
// Обновляются только непустые (not nil) поля из request
func (r *UpdateConfigRequest) ApplyToConfig(config *domain.SalonBookingConfig) {
	if r.SlotGranularityMinutes != nil {
		config.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.MaxConcurrentBookings != nil {
		config.MaxConcurrentBookings = *r.MaxConcurrentBookings
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}

// DeleteConfigRequest запрос на удаление конфигурации уровня
type DeleteConfigRequest struct {
	UserID    int64  `json:"userId"`
	SalonID   int64  `json:"salonId"`
	ServiceID *int64 `json:"serviceId,omitempty"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации
type ConfigResponse struct {
	ID                      *int64     `json:"id,omitempty"` // nil для значений по умолчанию
	SalonID                 int64      `json:"salonId"`
	ServiceID               *int64     `json:"serviceId,omitempty"`
	Level                   string     `json:"level"` // service | salon | default
	SlotGranularityMinutes  int        `json:"slotGranularityMinutes"`
	MaxConcurrentBookings   int        `json:"maxConcurrentBookings"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Уровни конфигурации
const (
	LevelService = "service"
	LevelSalon   = "salon"
	LevelDefault = "default"
)

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.SalonBookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		SalonID:                 c.SalonID,
		ServiceID:               c.ServiceID,
		Level:                   LevelOf(c),
		SlotGranularityMinutes:  c.SlotGranularityMinutes,
		MaxConcurrentBookings:   c.MaxConcurrentBookings,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
	}

	if !c.IsDefault() {
		id := c.ID
		createdAt, updatedAt := c.CreatedAt, c.UpdatedAt
		resp.ID = &id
		resp.CreatedAt = &createdAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.SalonBookingConfig) *ConfigListResponse {
	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, 0, len(configs)),
	}

	for _, c := range configs {
		if item := FromDomainConfig(c); item != nil {
			resp.Configs = append(resp.Configs, *item)
		}
	}

	return resp
}

// LevelOf уровень иерархии, с которого взята конфигурация
func LevelOf(c *domain.SalonBookingConfig) string {
	switch {
	case c.IsDefault():
		return LevelDefault
	case c.IsSalonWide():
		return LevelSalon
	default:
		return LevelService
	}
}
