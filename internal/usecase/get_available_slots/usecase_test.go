package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/config"
	salonClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	items      []*domain.Appointment
	lastFilter domain.SalonAppointmentsFilter
}

func (f *fakeAppointments) GetBySalonWithFilter(_ context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastFilter = filter
	return f.items, nil
}

type fakeConfigs struct {
	cfg *domain.SalonBookingConfig
	err error
}

func (f *fakeConfigs) GetConfigWithHierarchy(context.Context, int64, *int64) (*domain.SalonBookingConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg == nil {
		return nil, configRepo.ErrConfigNotFound
	}
	return f.cfg, nil
}

type fakeCatalog struct {
	salon   *salonClient.Salon
	service *salonClient.Service
}

func (f *fakeCatalog) GetSalon(context.Context, int64) (*salonClient.Salon, error) {
	if f.salon == nil {
		return nil, salonClient.ErrSalonNotFound
	}
	return f.salon, nil
}

func (f *fakeCatalog) GetService(context.Context, int64, int64) (*salonClient.Service, error) {
	if f.service == nil {
		return nil, salonClient.ErrServiceNotFound
	}
	return f.service, nil
}

type passthroughTx struct {
	calls int
}

func (p *passthroughTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// 2030-01-07 понедельник
var monday = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func testSalon() *salonClient.Salon {
	open := salonClient.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr("09:00"), CloseTime: ptr.Ptr("19:00")}
	return &salonClient.Salon{
		ID:   1,
		Name: "Barbershop",
		WorkingHours: salonClient.WorkingHours{
			Monday: open, Tuesday: open, Wednesday: open, Thursday: open, Friday: open,
		},
		Stylists: []salonClient.Stylist{
			{ID: 7, Name: "Anna", ServiceIDs: []int64{10}},
			{ID: 8, Name: "Olga", ServiceIDs: []int64{11}},
		},
	}
}

func newTestUseCase(appts *fakeAppointments, cfgs *fakeConfigs, catalog *fakeCatalog, now time.Time) *UseCase {
	uc := NewUseCase(appts, cfgs, catalog, &passthroughTx{}, time.UTC, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func findSlot(t *testing.T, slots []domain.CandidateSlot, start types.TimeString) domain.CandidateSlot {
	t.Helper()
	for _, s := range slots {
		if s.StartTime == start {
			return s
		}
	}
	t.Fatalf("slot %s not found", start)
	return domain.CandidateSlot{}
}

func TestExecute_DefaultConfig(t *testing.T) {
	appts := &fakeAppointments{items: []*domain.Appointment{
		{SalonID: 1, StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	catalog := &fakeCatalog{salon: testSalon(), service: &salonClient.Service{ID: 10, DurationMinutes: 60}}
	uc := newTestUseCase(appts, &fakeConfigs{}, catalog, monday.AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)

	assert.False(t, resp.Closed)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Slots, 19)
	assert.False(t, findSlot(t, resp.Slots, "10:00").Available)
	assert.True(t, findSlot(t, resp.Slots, "11:00").Available)

	require.NotNil(t, appts.lastFilter.Date)
	assert.Equal(t, int64(1), appts.lastFilter.SalonID)
	assert.False(t, appts.lastFilter.IncludeInactive)
	assert.False(t, appts.lastFilter.ForUpdate)
	assert.Equal(t, 1, uc.txManager.(*passthroughTx).calls)
}

func TestExecute_CapacityFromConfig(t *testing.T) {
	appts := &fakeAppointments{items: []*domain.Appointment{
		{StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
	}}
	cfgs := &fakeConfigs{cfg: &domain.SalonBookingConfig{ID: 3, SalonID: 1, SlotGranularityMinutes: 60, MaxConcurrentBookings: 2}}
	catalog := &fakeCatalog{salon: testSalon(), service: &salonClient.Service{ID: 10, DurationMinutes: 60}}
	uc := newTestUseCase(appts, cfgs, catalog, monday.AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 10)
	slot := findSlot(t, resp.Slots, "10:00")
	assert.True(t, slot.Available)
	assert.Equal(t, 1, slot.AvailableSpots)
	assert.Equal(t, 2, slot.TotalSpots)
}

func TestExecute_StylistUsesOwnSchedule(t *testing.T) {
	appts := &fakeAppointments{items: []*domain.Appointment{
		{StylistID: ptr.Ptr(int64(8)), StartTime: "10:00", EndTime: "11:00", Status: domain.StatusConfirmed},
		{StylistID: ptr.Ptr(int64(7)), StartTime: "12:00", EndTime: "13:00", Status: domain.StatusPending},
	}}
	cfgs := &fakeConfigs{cfg: &domain.SalonBookingConfig{ID: 3, SalonID: 1, SlotGranularityMinutes: 30, MaxConcurrentBookings: 5}}
	catalog := &fakeCatalog{salon: testSalon(), service: &salonClient.Service{ID: 10, DurationMinutes: 60}}
	uc := newTestUseCase(appts, cfgs, catalog, monday.AddDate(0, 0, -1))

	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, StylistID: ptr.Ptr(int64(7)), Date: monday})
	require.NoError(t, err)

	assert.True(t, findSlot(t, resp.Slots, "10:00").Available)
	busy := findSlot(t, resp.Slots, "12:00")
	assert.False(t, busy.Available)
	assert.Equal(t, 1, busy.TotalSpots)
}

func TestExecute_ClosedDay(t *testing.T) {
	catalog := &fakeCatalog{salon: testSalon(), service: &salonClient.Service{ID: 10, DurationMinutes: 60}}
	uc := newTestUseCase(&fakeAppointments{}, &fakeConfigs{}, catalog, monday)

	sunday := monday.AddDate(0, 0, 6)
	resp, err := uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: 10, Date: sunday})
	require.NoError(t, err)
	assert.True(t, resp.Closed)
	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	service := &salonClient.Service{ID: 10, DurationMinutes: 60}

	tests := []struct {
		name    string
		catalog *fakeCatalog
		cfgs    *fakeConfigs
		req     *Request
		want    error
	}{
		{
			name:    "invalid salon id",
			catalog: &fakeCatalog{salon: testSalon(), service: service},
			cfgs:    &fakeConfigs{},
			req:     &Request{SalonID: 0, ServiceID: 10, Date: monday},
			want:    ErrInvalidInput,
		},
		{
			name:    "salon not found",
			catalog: &fakeCatalog{service: service},
			cfgs:    &fakeConfigs{},
			req:     &Request{SalonID: 1, ServiceID: 10, Date: monday},
			want:    ErrSalonNotFound,
		},
		{
			name:    "service not found",
			catalog: &fakeCatalog{salon: testSalon()},
			cfgs:    &fakeConfigs{},
			req:     &Request{SalonID: 1, ServiceID: 10, Date: monday},
			want:    ErrServiceNotFound,
		},
		{
			name:    "unknown stylist",
			catalog: &fakeCatalog{salon: testSalon(), service: service},
			cfgs:    &fakeConfigs{},
			req:     &Request{SalonID: 1, ServiceID: 10, StylistID: ptr.Ptr(int64(99)), Date: monday},
			want:    ErrStylistNotFound,
		},
		{
			name:    "stylist without service",
			catalog: &fakeCatalog{salon: testSalon(), service: service},
			cfgs:    &fakeConfigs{},
			req:     &Request{SalonID: 1, ServiceID: 10, StylistID: ptr.Ptr(int64(8)), Date: monday},
			want:    ErrStylistDoesNotPerformService,
		},
		{
			name:    "date in the past",
			catalog: &fakeCatalog{salon: testSalon(), service: service},
			cfgs:    &fakeConfigs{},
			req:     &Request{SalonID: 1, ServiceID: 10, Date: monday.AddDate(0, 0, -7)},
			want:    ErrInvalidDate,
		},
		{
			name:    "too far in future",
			catalog: &fakeCatalog{salon: testSalon(), service: service},
			cfgs:    &fakeConfigs{cfg: &domain.SalonBookingConfig{ID: 1, SlotGranularityMinutes: 30, MaxConcurrentBookings: 1, AdvanceBookingDays: 7}},
			req:     &Request{SalonID: 1, ServiceID: 10, Date: monday.AddDate(0, 0, 14)},
			want:    ErrDateTooFarInFuture,
		},
		{
			name:    "config storage failure",
			catalog: &fakeCatalog{salon: testSalon(), service: service},
			cfgs:    &fakeConfigs{err: errors.New("connection reset")},
			req:     &Request{SalonID: 1, ServiceID: 10, Date: monday},
			want:    ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newTestUseCase(&fakeAppointments{}, tt.cfgs, tt.catalog, monday)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
