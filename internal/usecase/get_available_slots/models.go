package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID    int64     // ID пользователя (0 для анонимного запроса, только для логирования)
	SalonID   int64     // ID салона
	ServiceID int64     // ID услуги
	StylistID *int64    // ID мастера (опционально)
	Date      time.Time // Дата в часовом поясе салонов (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	SalonID         int64
	ServiceID       int64
	StylistID       *int64
	DurationMinutes int                    // Длительность услуги = длина каждого слота
	Closed          bool                   // Салон не работает в этот день
	Slots           []domain.CandidateSlot // Все слоты дня, включая занятые
}
