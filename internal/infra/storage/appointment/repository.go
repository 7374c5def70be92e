package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

const table = "appointments"

// Коды ошибок PostgreSQL, означающие конфликт интервалов
const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

var columns = []string{
	"id",
	"user_id",
	"salon_id",
	"service_id",
	"stylist_id",
	"appointment_date",
	"start_time",
	"end_time",
	"status",
	"service_name",
	"service_price",
	"client_name",
	"client_phone",
	"notes",
	"cancelled_by",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись.
// Если в контексте есть транзакция, запрос выполняется в ней.
// Нарушение exclusion constraint (пересечение с активной записью мастера) возвращает ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"user_id",
			"salon_id",
			"service_id",
			"stylist_id",
			"appointment_date",
			"start_time",
			"end_time",
			"status",
			"service_name",
			"service_price",
			"client_name",
			"client_phone",
			"notes",
		).
		Values(
			a.UserID,
			a.SalonID,
			a.ServiceID,
			a.StylistID,
			a.AppointmentDate,
			a.StartTime,
			a.EndTime,
			string(a.Status),
			a.ServiceName,
			a.ServicePrice,
			a.ClientName,
			a.ClientPhone,
			a.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		if isConflict(err) {
			return nil, fmt.Errorf("%w: Create - %v", ErrSlotNotAvailable, err)
		}
		// %w сохраняет *pq.Error для повтора транзакции при 40001
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %w", ErrScanRow, err)
	}

	return a, nil
}

// GetByUserID получает записи пользователя, новые сначала.
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("appointment_date DESC", "start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*status)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetBySalonWithFilter получает записи салона.
//
// С фильтром по дню записи сортируются по времени начала, иначе новые сначала.
// С ForUpdate внутри транзакции выбранные строки блокируются (FOR UPDATE):
// на этом держится проверка пересечений при создании записи.
func (r *Repository) GetBySalonWithFilter(ctx context.Context, filter domain.SalonAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"salon_id": filter.SalonID})

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": filter.Date.Format(domain.DateFormat)})
	}

	if filter.StylistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"stylist_id": *filter.StylistID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("start_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("appointment_date DESC", "start_time DESC")
	}

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySalonWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// UpdateStatus переводит запись из статуса from в статус to.
// Если запись уже не в статусе from, возвращается ErrAppointmentNotFound.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет запись, если она ещё в статусе pending или confirmed
func (r *Repository) Cancel(ctx context.Context, id int64, by domain.CancelledBy, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCancelled)).
		Set("cancelled_by", string(by)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "Cancel", query, args)
}

// CompleteFinished переводит в completed подтверждённые записи, закончившиеся к моменту now.
// now должен быть в часовом поясе салонов. Возвращает число обновлённых записей.
func (r *Repository) CompleteFinished(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	today := now.Format(domain.DateFormat)
	nowTime := types.NewTimeString(now).String()

	query, args, err := psqlbuilder.Update(table).
		Set("status", string(domain.StatusCompleted)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": string(domain.StatusConfirmed)}).
		Where(squirrel.Or{
			squirrel.Lt{"appointment_date": today},
			squirrel.And{
				squirrel.Eq{"appointment_date": today},
				squirrel.LtOrEq{"end_time": nowTime},
			},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteFinished - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteFinished - execute update: %w", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteFinished - get rows affected: %v", ErrExecQuery, err)
	}

	return n, nil
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var (
		a                    domain.Appointment
		status               string
		cancelledBy          sql.NullString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.SalonID,
		&a.ServiceID,
		&a.StylistID,
		&a.AppointmentDate,
		&a.StartTime,
		&a.EndTime,
		&status,
		&a.ServiceName,
		&a.ServicePrice,
		&a.ClientName,
		&a.ClientPhone,
		&a.Notes,
		&cancelledBy,
		&a.CancellationReason,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = domain.AppointmentStatus(status)
	if cancelledBy.Valid {
		by := domain.CancelledBy(cancelledBy.String)
		a.CancelledBy = &by
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %w", ErrScanRow, err)
		}
		appointments = append(appointments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %w", ErrScanRow, err)
	}

	return appointments, nil
}

func isConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == pqUniqueViolation || pqErr.Code == pqExclusionViolation
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
