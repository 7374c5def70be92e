package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/config"
	salonClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	configRepo      ConfigRepository
	catalog         SalonCatalog
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	configRepo ConfigRepository,
	catalog SalonCatalog,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		configRepo:      configRepo,
		catalog:         catalog,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{Location: location},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, salon=%d, service=%d, stylist=%s, date=%s",
		req.UserID, req.SalonID, req.ServiceID, stylistLabel(req.StylistID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем салон
	salon, err := uc.catalog.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			uc.logger.Warn("GetAvailableSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	catalogService, err := uc.catalog.GetService(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, salonClient.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	service := catalogService.ToDomain()

	// 5. Проверяем мастера
	if req.StylistID != nil {
		if err := validateStylist(salon, *req.StylistID, req.ServiceID); err != nil {
			uc.logger.Warn("GetAvailableSlots: stylist id=%d rejected: %v", *req.StylistID, err)
			return nil, err
		}
	}

	resp := &Response{
		Date:            req.Date,
		SalonID:         req.SalonID,
		ServiceID:       req.ServiceID,
		StylistID:       req.StylistID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []domain.CandidateSlot{},
	}

	// Конфигурация и записи читаются из одного снимка БД
	err = uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 6. Получаем конфигурацию с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, req.SalonID, ptr.Ptr(req.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		if config == nil {
			config = domain.DefaultSalonBookingConfig(req.SalonID)
			uc.logger.Info("GetAvailableSlots: using default config for salon=%d, service=%d", req.SalonID, req.ServiceID)
		}

		// 7. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
			return err
		}

		// 8. Рабочие часы на дату
		hours := salon.HoursFor(req.Date)
		if hours.IsClosed() {
			uc.logger.Info("GetAvailableSlots: salon id=%d is closed on %s", req.SalonID, req.Date.Format(domain.DateFormat))
			resp.Closed = true
			return nil
		}

		// 9. Активные записи салона на эту дату
		date := req.Date
		appointments, err := uc.appointmentRepo.GetBySalonWithFilter(txCtx, domain.SalonAppointmentsFilter{
			SalonID:   req.SalonID,
			Date:      &date,
			StylistID: req.StylistID,
		})
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 10. Для конкретного мастера вместимость всегда 1
		capacity := config.MaxConcurrentBookings
		if req.StylistID != nil {
			appointments = availability.FilterByStylist(appointments, *req.StylistID)
			capacity = 1
		}

		// 11. Считаем слоты
		resp.Slots = availability.Calculate(availability.Params{
			ServiceDurationMinutes: service.DurationMinutes,
			Date:                   req.Date,
			Hours:                  hours,
			GranularityMinutes:     config.SlotGranularityMinutes,
			Existing:               availability.FromAppointments(appointments),
			Now:                    now,
			MinNoticeMinutes:       config.MinBookingNoticeMinutes,
			Capacity:               capacity,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrDateTooFarInFuture) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("GetAvailableSlots: read transaction failed: %v", err)
		return nil, fmt.Errorf("%w: read transaction: %v", ErrInternal, err)
	}

	if resp.Closed {
		return resp, nil
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for salon=%d, service=%d, date=%s",
		len(resp.Slots), req.SalonID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return resp, nil
}

func stylistLabel(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
