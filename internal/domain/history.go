package domain

import "time"

// ActionType тип административного действия
type ActionType string

const (
	ActionAppointmentCancelled     ActionType = "appointment.cancelled"
	ActionAppointmentStatusChanged ActionType = "appointment.status_changed"
	ActionConfigUpdated            ActionType = "config.updated"
	ActionConfigDeleted            ActionType = "config.deleted"
)

// ActionRecord запись истории действий. Только для просмотра, откат не поддерживается.
type ActionRecord struct {
	Action   ActionType
	ActorID  int64
	SalonID  int64
	TargetID int64 // ID записи или конфигурации
	Details  string
	At       time.Time
}
