package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	SalonID         int64           `json:"salonId"`
	ServiceID       int64           `json:"serviceId"`
	StylistID       *int64          `json:"stylistId,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Closed          bool            `json:"closed"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Available      bool   `json:"available"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			Available:      slot.Available,
			AvailableSpots: slot.AvailableSpots,
			TotalSpots:     slot.TotalSpots,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		StylistID:       resp.StylistID,
		DurationMinutes: resp.DurationMinutes,
		Closed:          resp.Closed,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(salonID, serviceID int64, stylistID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		SalonID:   salonID,
		ServiceID: serviceID,
		StylistID: stylistID,
		Date:      date,
	}, nil
}
