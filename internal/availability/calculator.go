// Package availability computes bookable time slots for one salon day.
//
// Calculate is pure: it does no I/O, never mutates its inputs and returns the
// same output for the same Params. Bad input yields an empty result instead of
// an error so that callers can render "no slots" without special cases.
package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DefaultGranularityMinutes шаг между началами слотов, если не задан
const DefaultGranularityMinutes = 30

// Interval занятый полуоткрытый интервал [Start, End)
type Interval struct {
	Start types.TimeString
	End   types.TimeString
}

// Params входные данные для расчёта слотов
type Params struct {
	ServiceDurationMinutes int
	Date                   time.Time
	Hours                  domain.BusinessHours
	GranularityMinutes     int
	Existing               []Interval
	Now                    time.Time
	MinNoticeMinutes       int
	Capacity               int
}

type span struct {
	start, end int
}

// Calculate returns every candidate slot of the day in ascending start order.
// Slots that overlap Capacity or more existing intervals are kept with Available=false.
func Calculate(p Params) []domain.CandidateSlot {
	result := []domain.CandidateSlot{}

	if p.ServiceDurationMinutes <= 0 {
		return result
	}

	step := p.GranularityMinutes
	if step == 0 {
		step = DefaultGranularityMinutes
	}
	if step < 0 || step > types.MinutesInDay {
		return result
	}

	capacity := p.Capacity
	if capacity <= 0 {
		capacity = 1
	}

	open, err := p.Hours.Open.Minutes()
	if err != nil {
		return result
	}
	closeAt, err := p.Hours.Close.Minutes()
	if err != nil || open >= closeAt {
		return result
	}
	// Услуга не помещается в рабочий день
	if p.ServiceDurationMinutes > closeAt-open {
		return result
	}

	y, m, d := p.Date.Date()
	loc := p.Now.Location()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	ny, nm, nd := p.Now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)

	// Дата целиком в прошлом
	if !p.Now.IsZero() && dayStart.Before(today) {
		return result
	}

	// Для сегодняшнего дня не предлагаются слоты раньше Now + минимальное время до записи.
	// Будущие дни не фильтруются.
	var threshold time.Time
	if dayStart.Equal(today) {
		notice := p.MinNoticeMinutes
		if notice < 0 {
			notice = 0
		}
		threshold = p.Now.Add(time.Duration(notice) * time.Minute)
	}

	busy := toSpans(p.Existing)

	for start := open; start+p.ServiceDurationMinutes <= closeAt; start += step {
		if !threshold.IsZero() && dayStart.Add(time.Duration(start)*time.Minute).Before(threshold) {
			continue
		}

		end := start + p.ServiceDurationMinutes
		overlapping := countSpans(span{start: start, end: end}, busy)

		spots := capacity - overlapping
		if spots < 0 {
			spots = 0
		}

		startTS, _ := types.NewTimeStringFromMinutes(start)
		endTS, _ := types.NewTimeStringFromMinutes(end)

		result = append(result, domain.CandidateSlot{
			StartTime:      startTS,
			EndTime:        endTS,
			Available:      overlapping < capacity,
			AvailableSpots: spots,
			TotalSpots:     capacity,
		})
	}

	return result
}

// Overlaps реализует правило полуоткрытых интервалов: a.Start < b.End && a.End > b.Start.
// Интервалы, которые только касаются границами, не пересекаются.
// Некорректные интервалы не пересекаются ни с чем.
func Overlaps(a, b Interval) bool {
	sa, ok := toSpan(a)
	if !ok {
		return false
	}
	sb, ok := toSpan(b)
	if !ok {
		return false
	}
	return spansOverlap(sa, sb)
}

// CountOverlaps количество интервалов из existing, пересекающихся с candidate
func CountOverlaps(candidate Interval, existing []Interval) int {
	c, ok := toSpan(candidate)
	if !ok {
		return 0
	}
	return countSpans(c, toSpans(existing))
}

// FromAppointments переводит активные записи в занятые интервалы
func FromAppointments(appointments []*domain.Appointment) []Interval {
	out := make([]Interval, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		out = append(out, Interval{Start: a.StartTime, End: a.EndTime})
	}
	return out
}

// FilterByStylist оставляет записи указанного мастера
func FilterByStylist(appointments []*domain.Appointment, stylistID int64) []*domain.Appointment {
	out := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a != nil && a.StylistID != nil && *a.StylistID == stylistID {
			out = append(out, a)
		}
	}
	return out
}

func toSpan(i Interval) (span, bool) {
	start, err := i.Start.Minutes()
	if err != nil {
		return span{}, false
	}
	end, err := i.End.Minutes()
	if err != nil || end <= start {
		return span{}, false
	}
	return span{start: start, end: end}, true
}

func toSpans(intervals []Interval) []span {
	out := make([]span, 0, len(intervals))
	for _, i := range intervals {
		if s, ok := toSpan(i); ok {
			out = append(out, s)
		}
	}
	return out
}

func spansOverlap(a, b span) bool {
	return a.start < b.end && a.end > b.start
}

func countSpans(candidate span, busy []span) int {
	count := 0
	for _, b := range busy {
		if spansOverlap(candidate, b) {
			count++
		}
	}
	return count
}
