package salonservice

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Salon модель салона из SalonService
type Salon struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	WorkingHours WorkingHours `json:"working_hours"`
	Stylists     []Stylist    `json:"stylists"`
	ManagerIDs   []int64      `json:"manager_ids"`
}

// WorkingHours недельное расписание салона
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "HH:MM"
	CloseTime *string `json:"close_time,omitempty"` // "HH:MM"
}

// Stylist мастер салона
type Stylist struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ServiceIDs []int64 `json:"service_ids"`
}

// Service услуга салона
type Service struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salon_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

// ToDomain конвертирует услугу в доменную модель
func (s *Service) ToDomain() domain.Service {
	return domain.Service{
		ID:              s.ID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
	}
}

// HoursFor возвращает часы работы салона на указанную дату.
// Закрытый день или некорректное расписание дают пустые BusinessHours.
func (s *Salon) HoursFor(date time.Time) domain.BusinessHours {
	var day DaySchedule

	switch date.Weekday() {
	case time.Monday:
		day = s.WorkingHours.Monday
	case time.Tuesday:
		day = s.WorkingHours.Tuesday
	case time.Wednesday:
		day = s.WorkingHours.Wednesday
	case time.Thursday:
		day = s.WorkingHours.Thursday
	case time.Friday:
		day = s.WorkingHours.Friday
	case time.Saturday:
		day = s.WorkingHours.Saturday
	case time.Sunday:
		day = s.WorkingHours.Sunday
	}

	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return domain.BusinessHours{}
	}

	open, err := types.NewTimeStringFromString(*day.OpenTime)
	if err != nil {
		return domain.BusinessHours{}
	}
	closeAt, err := types.NewTimeStringFromString(*day.CloseTime)
	if err != nil {
		return domain.BusinessHours{}
	}

	return domain.BusinessHours{Open: open, Close: closeAt}
}

// IsManager проверяет, является ли пользователь менеджером салона
func (s *Salon) IsManager(userID int64) bool {
	for _, id := range s.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// FindStylist ищет мастера по ID
func (s *Salon) FindStylist(stylistID int64) (*Stylist, bool) {
	for i := range s.Stylists {
		if s.Stylists[i].ID == stylistID {
			return &s.Stylists[i], true
		}
	}
	return nil, false
}

// Performs проверяет, оказывает ли мастер услугу
func (st *Stylist) Performs(serviceID int64) bool {
	for _, id := range st.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
