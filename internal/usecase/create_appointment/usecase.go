package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SalonBooking/internal/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	configRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/config"
	salonClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	userClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/userservice"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	configRepo      ConfigRepository
	catalog         SalonCatalog
	userClient      UserServiceClient
	txManager       TransactionManager
	recorder        BookingRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	configRepo ConfigRepository,
	catalog SalonCatalog,
	userClient UserServiceClient,
	txManager TransactionManager,
	recorder BookingRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		configRepo:      configRepo,
		catalog:         catalog,
		userClient:      userClient,
		txManager:       txManager,
		recorder:        recorder,
		timeProvider:    &RealTimeProvider{Location: location},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи.
// Проверка пересечений и вставка выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, salon=%d, service=%d, date=%s, time=%s",
		req.UserID, req.SalonID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	result, err := uc.execute(ctx, req)
	uc.recorder.RecordBooking(outcomeOf(err))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return toResponse(result), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Параллельно получаем салон, услугу и профиль клиента
	var (
		salon   *salonClient.Salon
		service domain.Service
		profile *userClient.Profile
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := uc.catalog.GetSalon(gctx, req.SalonID)
		if err != nil {
			if errors.Is(err, salonClient.ErrSalonNotFound) {
				uc.logger.Warn("CreateAppointment: salon id=%d not found", req.SalonID)
				return ErrSalonNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get salon id=%d: %v", req.SalonID, err)
			return fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
		}
		salon = s
		return nil
	})

	g.Go(func() error {
		s, err := uc.catalog.GetService(gctx, req.SalonID, req.ServiceID)
		if err != nil {
			if errors.Is(err, salonClient.ErrServiceNotFound) {
				uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		service = s.ToDomain()
		return nil
	})

	// Профиль не обязателен: запись создается и без имени/телефона клиента
	g.Go(func() error {
		p, err := uc.userClient.GetProfileWithGracefulDegradation(gctx, req.UserID)
		if err != nil {
			uc.logger.Warn("CreateAppointment: continuing without client profile for user id=%d: %v", req.UserID, err)
			return nil
		}
		profile = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if service.DurationMinutes <= 0 {
		uc.logger.Error("CreateAppointment: service id=%d has non-positive duration %d", service.ID, service.DurationMinutes)
		return nil, fmt.Errorf("%w: service id=%d has invalid duration", ErrInternal, service.ID)
	}

	// 4. Проверяем мастера
	if req.StylistID != nil {
		if err := validateStylist(salon, *req.StylistID, req.ServiceID); err != nil {
			uc.logger.Warn("CreateAppointment: stylist id=%d rejected: %v", *req.StylistID, err)
			return nil, err
		}
	}

	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateAppointment: %s + %d minutes overflows the day", req.StartTime, service.DurationMinutes)
		return nil, fmt.Errorf("%w: appointment must end within the day", ErrInvalidTimeSlot)
	}
	slot := availability.Interval{Start: req.StartTime, End: endTime}

	var result *domain.Appointment

	// 5. Выполняем проверки и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Конфигурация с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, req.SalonID, ptr.Ptr(req.ServiceID))
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			uc.logger.Error("CreateAppointment: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %w", ErrInternal, err)
		}
		if config == nil {
			config = domain.DefaultSalonBookingConfig(req.SalonID)
			uc.logger.Info("CreateAppointment: using default config for salon=%d, service=%d", req.SalonID, req.ServiceID)
		} else {
			uc.logger.Info("CreateAppointment: using config id=%d", config.ID)
		}

		// 5.2. Валидация даты с учетом конфигурации
		if err := validateDate(req.Date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 5.3. Рабочие часы на дату
		hours := salon.HoursFor(req.Date)
		if hours.IsClosed() {
			uc.logger.Warn("CreateAppointment: salon id=%d is closed on %s", req.SalonID, req.Date.Format(domain.DateFormat))
			return ErrSalonClosed
		}

		// 5.4. Слот должен совпадать с одним из предлагаемых калькулятором
		if err := validateSlotPlacement(slot, hours, config.SlotGranularityMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: slot placement rejected: %v", err)
			return err
		}

		// 5.5. minBookingNoticeMinutes
		if err := validateBookingTime(req.Date, req.StartTime, now, config.MinBookingNoticeMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: booking time validation failed: %v", err)
			return err
		}

		// 5.6. Активные записи дня с блокировкой (FOR UPDATE)
		date := req.Date
		appointments, err := uc.appointmentRepo.GetBySalonWithFilter(txCtx, domain.SalonAppointmentsFilter{
			SalonID:   req.SalonID,
			Date:      &date,
			StylistID: req.StylistID,
			ForUpdate: true,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		// 5.7. То же правило пересечений, что и при расчете слотов
		capacity := config.MaxConcurrentBookings
		if req.StylistID != nil {
			appointments = availability.FilterByStylist(appointments, *req.StylistID)
			capacity = 1
		}

		overlapping := availability.CountOverlaps(slot, availability.FromAppointments(appointments))
		if overlapping >= capacity {
			uc.logger.Warn("CreateAppointment: slot %s-%s not available, %d/%d spots taken",
				slot.Start, slot.End, overlapping, capacity)
			return ErrSlotNotAvailable
		}

		uc.logger.Info("CreateAppointment: slot available, %d/%d spots taken", overlapping, capacity)

		// 5.8. Создаем запись с денормализацией данных
		appointment := &domain.Appointment{
			UserID:          req.UserID,
			SalonID:         req.SalonID,
			ServiceID:       req.ServiceID,
			StylistID:       req.StylistID,
			AppointmentDate: req.Date,
			StartTime:       slot.Start,
			EndTime:         slot.End,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}
		if profile != nil {
			appointment.ClientName = ptr.Ptr(profile.Name)
			appointment.ClientPhone = profile.Phone
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateAppointment: slot %s-%s taken concurrently", slot.Start, slot.End)
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Повторы исчерпаны: слот оспаривается, клиенту нужно обновить расписание
		if txmanager.IsRetryable(err) {
			uc.logger.Warn("CreateAppointment: serialization retries exhausted: %v", err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	return result, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeCreated
	case errors.Is(err, ErrSlotNotAvailable):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrInternal):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeRejected
	}
}

func toResponse(a *domain.Appointment) *Response {
	return &Response{
		ID:              a.ID,
		UserID:          a.UserID,
		SalonID:         a.SalonID,
		ServiceID:       a.ServiceID,
		StylistID:       a.StylistID,
		AppointmentDate: a.AppointmentDate,
		StartTime:       a.StartTime,
		EndTime:         a.EndTime,
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		ClientName:      a.ClientName,
		ClientPhone:     a.ClientPhone,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
