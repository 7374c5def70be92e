package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	configRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/config"
	salonClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/internal/service/config/models"
)

// Service сервис для работы с конфигурацией бронирования
type Service struct {
	configRepo   ConfigRepository
	catalog      SalonCatalog
	txManager    TransactionManager
	history      ActionHistory
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	catalog SalonCatalog,
	txManager TransactionManager,
	history ActionHistory,
	logger Logger,
) *Service {
	return &Service{
		configRepo:   configRepo,
		catalog:      catalog,
		txManager:    txManager,
		history:      history,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// GetWithHierarchy получает действующую конфигурацию с учетом иерархии
// Публичный метод. Приоритет: service@salon > salon > значения по умолчанию
func (s *Service) GetWithHierarchy(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching config for salon=%d, service=%v", req.SalonID, req.ServiceID)

	if _, err := s.getSalon(ctx, "GetWithHierarchy", req.SalonID); err != nil {
		return nil, err
	}

	config, err := s.configRepo.GetConfigWithHierarchy(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("GetWithHierarchy: repository error: %v", err)
			return nil, fmt.Errorf("%w: GetWithHierarchy - repository error: %v", ErrInternal, err)
		}
		config = domain.DefaultSalonBookingConfig(req.SalonID)
	}

	s.logger.Info("GetWithHierarchy: resolved config for salon=%d (level: %s)", req.SalonID, models.LevelOf(config))
	return models.FromDomainConfig(config), nil
}

// GetAllBySalon получает все сохраненные конфигурации салона
// Доступно только менеджерам салона
func (s *Service) GetAllBySalon(ctx context.Context, salonID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAllBySalon: fetching configs for salon=%d by user=%d", salonID, userID)

	if err := s.checkManagerAccess(ctx, "GetAllBySalon", salonID, userID); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.GetAllBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("GetAllBySalon: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetAllBySalon - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllBySalon: successfully fetched %d configs for salon=%d", len(configs), salonID)
	return models.FromDomainConfigList(configs), nil
}

// Upsert частично обновляет конфигурацию уровня (salon или service@salon)
// Если на этом уровне конфигурации нет, она создается на основе действующей.
// Доступно только менеджерам салона
func (s *Service) Upsert(ctx context.Context, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Upsert: updating config for salon=%d, service=%v by user=%d", req.SalonID, req.ServiceID, req.UserID)

	// 1. Пустое обновление бессмысленно
	if req.IsEmpty() {
		return nil, fmt.Errorf("%w: at least one field must be provided", ErrInvalidInput)
	}

	// 2. Проверяем права доступа
	if err := s.checkManagerAccess(ctx, "Upsert", req.SalonID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Услуга должна существовать в салоне
	if req.ServiceID != nil {
		if err := s.checkService(ctx, req.SalonID, *req.ServiceID); err != nil {
			return nil, err
		}
	}

	var result *domain.SalonBookingConfig

	// 4. Чтение и запись одной транзакцией
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.configRepo.GetBySalonAndService(txCtx, req.SalonID, req.ServiceID)
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("Upsert: failed to get config: %v", err)
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}

		if existing != nil {
			req.ApplyToConfig(existing)
			if err := validateConfigData(existing); err != nil {
				return err
			}

			updated, err := s.configRepo.Update(txCtx, existing.ID, existing)
			if err != nil {
				if errors.Is(err, configRepo.ErrConfigNotFound) {
					return ErrConfigConflict
				}
				s.logger.Error("Upsert: failed to update config id=%d: %v", existing.ID, err)
				return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
			}
			result = updated
			return nil
		}

		// Новый уровень наследует действующие значения
		base, err := s.configRepo.GetConfigWithHierarchy(txCtx, req.SalonID, req.ServiceID)
		if err != nil {
			if !errors.Is(err, configRepo.ErrConfigNotFound) {
				s.logger.Error("Upsert: failed to resolve base config: %v", err)
				return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
			}
			base = domain.DefaultSalonBookingConfig(req.SalonID)
		}

		config := &domain.SalonBookingConfig{
			SalonID:                 req.SalonID,
			ServiceID:               req.ServiceID,
			SlotGranularityMinutes:  base.SlotGranularityMinutes,
			MaxConcurrentBookings:   base.MaxConcurrentBookings,
			AdvanceBookingDays:      base.AdvanceBookingDays,
			MinBookingNoticeMinutes: base.MinBookingNoticeMinutes,
		}
		req.ApplyToConfig(config)
		if err := validateConfigData(config); err != nil {
			return err
		}

		created, err := s.configRepo.Create(txCtx, config)
		if err != nil {
			if errors.Is(err, configRepo.ErrDuplicateConfig) {
				return ErrConfigConflict
			}
			s.logger.Error("Upsert: failed to create config: %v", err)
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrConfigConflict) {
			s.logger.Warn("Upsert: rejected for salon=%d: %v", req.SalonID, err)
		}
		return nil, err
	}

	s.record(domain.ActionConfigUpdated, req.UserID, req.SalonID, result.ID, fmt.Sprintf("upsert level=%s", models.LevelOf(result)))

	s.logger.Info("Upsert: successfully saved config id=%d", result.ID)
	return models.FromDomainConfig(result), nil
}

// DeleteByKey удаляет конфигурацию уровня, после чего действует следующий уровень иерархии
// Доступно только менеджерам салона
func (s *Service) DeleteByKey(ctx context.Context, req *models.DeleteConfigRequest) error {
	s.logger.Info("DeleteByKey: deleting config for salon=%d, service=%v by user=%d",
		req.SalonID, req.ServiceID, req.UserID)

	if err := s.checkManagerAccess(ctx, "DeleteByKey", req.SalonID, req.UserID); err != nil {
		return err
	}

	if err := s.configRepo.DeleteBySalonAndService(ctx, req.SalonID, req.ServiceID); err != nil {
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Warn("DeleteByKey: config not found for salon=%d, service=%v", req.SalonID, req.ServiceID)
			return ErrConfigNotFound
		}
		s.logger.Error("DeleteByKey: repository error: %v", err)
		return fmt.Errorf("%w: DeleteByKey - repository error: %v", ErrInternal, err)
	}

	var target int64
	if req.ServiceID != nil {
		target = *req.ServiceID
	}
	s.record(domain.ActionConfigDeleted, req.UserID, req.SalonID, target,
		fmt.Sprintf("level=%s", deletedLevel(req.ServiceID)))

	s.logger.Info("DeleteByKey: successfully deleted config for salon=%d, service=%v", req.SalonID, req.ServiceID)
	return nil
}

// Вспомогательные методы

func (s *Service) getSalon(ctx context.Context, op string, salonID int64) (*salonClient.Salon, error) {
	salon, err := s.catalog.GetSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			s.logger.Warn("%s: salon id=%d not found", op, salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("%s: failed to get salon id=%d: %v", op, salonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}
	return salon, nil
}

// checkManagerAccess проверяет, что пользователь является менеджером салона
func (s *Service) checkManagerAccess(ctx context.Context, op string, salonID, userID int64) error {
	salon, err := s.getSalon(ctx, op, salonID)
	if err != nil {
		return err
	}

	if !salon.IsManager(userID) {
		s.logger.Warn("%s: user=%d is not a manager of salon=%d", op, userID, salonID)
		return ErrAccessDenied
	}

	return nil
}

func (s *Service) checkService(ctx context.Context, salonID, serviceID int64) error {
	if _, err := s.catalog.GetService(ctx, salonID, serviceID); err != nil {
		if errors.Is(err, salonClient.ErrServiceNotFound) {
			s.logger.Warn("checkService: service id=%d not found in salon=%d", serviceID, salonID)
			return ErrServiceNotFound
		}
		s.logger.Error("checkService: failed to get service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) record(action domain.ActionType, actorID, salonID, targetID int64, details string) {
	if s.history == nil {
		return
	}
	s.history.Push(domain.ActionRecord{
		Action:   action,
		ActorID:  actorID,
		SalonID:  salonID,
		TargetID: targetID,
		Details:  details,
		At:       s.timeProvider.Now(),
	})
}

// validateConfigData валидирует параметры конфигурации
func validateConfigData(c *domain.SalonBookingConfig) error {
	if c.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || c.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if c.MaxConcurrentBookings < domain.MinConcurrentBookings || c.MaxConcurrentBookings > domain.MaxConcurrentBookings {
		return fmt.Errorf("%w: maxConcurrentBookings must be between %d and %d",
			ErrInvalidInput, domain.MinConcurrentBookings, domain.MaxConcurrentBookings)
	}

	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if c.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	return nil
}

func deletedLevel(serviceID *int64) string {
	if serviceID != nil {
		return models.LevelService
	}
	return models.LevelSalon
}
