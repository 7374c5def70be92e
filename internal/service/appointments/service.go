package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	salonClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
)

const (
	// DefaultHistoryLimit сколько действий отдавать, если limit не указан
	DefaultHistoryLimit = 50
	// MaxHistoryLimit верхняя граница limit
	MaxHistoryLimit = 500
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	catalog         SalonCatalog
	history         ActionHistory
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalog SalonCatalog,
	history ActionHistory,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalog:         catalog,
		history:         history,
		timeProvider:    RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Запись видит её владелец или менеджер салона
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appointment, err := s.getAppointment(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appointment.UserID != userID {
		if err := s.checkManagerAccess(ctx, appointment.SalonID, userID); err != nil {
			s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
			if errors.Is(err, ErrInternal) {
				return nil, err
			}
			return nil, ErrAccessDenied
		}
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appointment), nil
}

// GetUserAppointments получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetSalonAppointments получает записи салона с фильтрацией
// Доступно только менеджерам салона
func (s *Service) GetSalonAppointments(ctx context.Context, req *models.GetSalonAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetSalonAppointments: fetching appointments for salon=%d, user=%d, includeInactive=%t",
		req.SalonID, req.UserID, req.IncludeInactive)

	if err := s.checkManagerAccess(ctx, req.SalonID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSalonAppointments: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetBySalonWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSalonAppointments: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: GetSalonAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSalonAppointments: successfully fetched %d appointments for salon=%d", len(appointments), req.SalonID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Клиент отменяет свою запись (cancelled_by=client), менеджер любую запись салона (cancelled_by=salon)
func (s *Service) Cancel(ctx context.Context, appointmentID int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", appointmentID, req.UserID)

	if req.CancellationReason != nil && len([]rune(*req.CancellationReason)) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appointment, err := s.getAppointment(ctx, "Cancel", appointmentID)
	if err != nil {
		return err
	}

	// Определяем сторону отмены
	by := domain.CancelledByClient
	if appointment.UserID != req.UserID {
		if err := s.checkManagerAccess(ctx, appointment.SalonID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, appointmentID)
			if errors.Is(err, ErrInternal) {
				return err
			}
			return ErrAccessDenied
		}
		by = domain.CancelledBySalon
	}

	if !appointment.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", appointmentID, appointment.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, appointmentID, by, req.CancellationReason); err != nil {
		// Статус сменился между чтением и обновлением
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d changed status concurrently", appointmentID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.record(domain.ActionAppointmentCancelled, req.UserID, appointment.SalonID, appointmentID,
		fmt.Sprintf("cancelled_by=%s", by))

	s.logger.Info("Cancel: successfully cancelled appointment id=%d by %s", appointmentID, by)
	return nil
}

// UpdateStatus меняет статус записи
// Доступно только менеджерам салона, переходы проверяются доменной моделью
func (s *Service) UpdateStatus(ctx context.Context, appointmentID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d",
		appointmentID, req.Status, req.UserID)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, appointmentID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	appointment, err := s.getAppointment(ctx, "UpdateStatus", appointmentID)
	if err != nil {
		return err
	}

	if err := s.checkManagerAccess(ctx, appointment.SalonID, req.UserID); err != nil {
		return err
	}

	if !appointment.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s rejected for appointment id=%d",
			appointment.Status, newStatus, appointmentID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appointment.Status, newStatus)
	}

	if newStatus == domain.StatusCancelled {
		err = s.appointmentRepo.Cancel(ctx, appointmentID, domain.CancelledBySalon, nil)
	} else {
		err = s.appointmentRepo.UpdateStatus(ctx, appointmentID, appointment.Status, newStatus)
	}
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment id=%d changed status concurrently", appointmentID)
			return fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		s.logger.Error("UpdateStatus: repository error for appointment id=%d: %v", appointmentID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.record(domain.ActionAppointmentStatusChanged, req.UserID, appointment.SalonID, appointmentID,
		fmt.Sprintf("%s -> %s", appointment.Status, newStatus))

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", appointmentID, newStatus)
	return nil
}

// GetHistory возвращает последние административные действия в салоне, новые первыми
// Доступно только менеджерам салона
func (s *Service) GetHistory(ctx context.Context, salonID, userID int64, limit int) (*models.HistoryResponse, error) {
	s.logger.Info("GetHistory: salon=%d, user=%d, limit=%d", salonID, userID, limit)

	if limit < 0 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidInput, MaxHistoryLimit)
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}

	if err := s.checkManagerAccess(ctx, salonID, userID); err != nil {
		return nil, err
	}

	if s.history == nil {
		return models.FromDomainActions(nil), nil
	}

	records := s.history.Latest(limit, func(r domain.ActionRecord) bool {
		return r.SalonID == salonID
	})

	return models.FromDomainActions(records), nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appointment, nil
}

// checkManagerAccess проверяет, что пользователь является менеджером салона
func (s *Service) checkManagerAccess(ctx context.Context, salonID int64, userID int64) error {
	salon, err := s.catalog.GetSalon(ctx, salonID)
	if err != nil {
		if errors.Is(err, salonClient.ErrSalonNotFound) {
			s.logger.Warn("checkManagerAccess: salon id=%d not found", salonID)
			return ErrSalonNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get salon id=%d: %v", salonID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get salon: %v", ErrInternal, err)
	}

	if !salon.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of salon=%d", userID, salonID)
		return ErrAccessDenied
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
