package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const table = "salon_booking_configs"

var columns = []string{
	"id",
	"salon_id",
	"service_id",
	"slot_granularity_minutes",
	"max_concurrent_bookings",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с конфигурацией бронирования салонов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую конфигурацию
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, cfg *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"salon_id",
			"service_id",
			"slot_granularity_minutes",
			"max_concurrent_bookings",
			"advance_booking_days",
			"min_booking_notice_minutes",
		).
		Values(
			cfg.SalonID,
			cfg.ServiceID,
			cfg.SlotGranularityMinutes,
			cfg.MaxConcurrentBookings,
			cfg.AdvanceBookingDays,
			cfg.MinBookingNoticeMinutes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateConfig
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// GetBySalonAndService получает конфигурацию ровно на указанном уровне:
// serviceID == nil означает общую конфигурацию салона
func (r *Repository) GetBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectByLevel(salonID, serviceID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonAndService - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonAndService - scan config: %w", ErrScanRow, err)
	}

	return cfg, nil
}

// GetConfigWithHierarchy получает конфигурацию с учетом приоритетов:
// 1. Конфигурация конкретной услуги (salonID, serviceID)
// 2. Общая конфигурация салона (salonID, NULL)
//
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, salonID int64, serviceID *int64) (*domain.SalonBookingConfig, error) {
	if serviceID != nil {
		cfg, err := r.GetBySalonAndService(ctx, salonID, serviceID)
		if err == nil {
			return cfg, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: GetConfigWithHierarchy - service level: %w", ErrExecQuery, err)
		}
	}

	cfg, err := r.GetBySalonAndService(ctx, salonID, nil)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w: GetConfigWithHierarchy - salon level: %w", ErrExecQuery, err)
	}

	return nil, ErrConfigNotFound
}

// GetAllBySalon получает все конфигурации салона, общая первой
func (r *Repository) GetAllBySalon(ctx context.Context, salonID int64) ([]*domain.SalonBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllBySalon - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllBySalon - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.SalonBookingConfig, 0)
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllBySalon - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllBySalon - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// Update обновляет значения конфигурации
func (r *Repository) Update(ctx context.Context, id int64, cfg *domain.SalonBookingConfig) (*domain.SalonBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("slot_granularity_minutes", cfg.SlotGranularityMinutes).
		Set("max_concurrent_bookings", cfg.MaxConcurrentBookings).
		Set("advance_booking_days", cfg.AdvanceBookingDays).
		Set("min_booking_notice_minutes", cfg.MinBookingNoticeMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	cfg.ID = id
	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// DeleteBySalonAndService удаляет конфигурацию на указанном уровне
func (r *Repository) DeleteBySalonAndService(ctx context.Context, salonID int64, serviceID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := deleteByLevel(salonID, serviceID).ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteBySalonAndService - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBySalonAndService - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBySalonAndService - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// levelFilter условие на одну строку иерархии: serviceID == nil дает service_id IS NULL
func levelFilter(salonID int64, serviceID *int64) squirrel.Sqlizer {
	if serviceID == nil {
		return squirrel.And{
			squirrel.Eq{"salon_id": salonID},
			squirrel.Eq{"service_id": nil},
		}
	}
	return squirrel.And{
		squirrel.Eq{"salon_id": salonID},
		squirrel.Eq{"service_id": *serviceID},
	}
}

func selectByLevel(salonID int64, serviceID *int64) squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From(table).
		Where(levelFilter(salonID, serviceID))
}

func deleteByLevel(salonID int64, serviceID *int64) squirrel.DeleteBuilder {
	return psqlbuilder.Delete(table).
		Where(levelFilter(salonID, serviceID))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.SalonBookingConfig, error) {
	var cfg domain.SalonBookingConfig
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&cfg.ID,
		&cfg.SalonID,
		&cfg.ServiceID,
		&cfg.SlotGranularityMinutes,
		&cfg.MaxConcurrentBookings,
		&cfg.AdvanceBookingDays,
		&cfg.MinBookingNoticeMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
