package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

const (
	// DefaultSerializableRetries сколько раз повторять транзакцию при 40001
	DefaultSerializableRetries = 3

	retryBackoff = 20 * time.Millisecond
)

var (
	ErrBeginTx  = errors.New("txmanager: begin transaction")
	ErrCommitTx = errors.New("txmanager: commit transaction")
)

// Beginner источник транзакций (*sql.DB или *dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
type TransactionManager struct {
	db      Beginner
	retries int
	metrics *metrics.Metrics
}

type Option func(*TransactionManager)

// WithRetries задаёт число повторов serializable транзакции
func WithRetries(n int) Option {
	return func(m *TransactionManager) {
		if n >= 0 {
			m.retries = n
		}
	}
}

// WithMetrics включает счетчик повторов
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *TransactionManager) {
		m.metrics = mt
	}
}

func NewTransactionManager(db Beginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{db: db, retries: DefaultSerializableRetries}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE.
// При конфликте сериализации (40001) или дедлоке (40P01) вся функция выполняется заново,
// поэтому fn не должна иметь побочных эффектов вне БД.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt <= m.retries; attempt++ {
		if attempt > 0 {
			if m.metrics != nil {
				m.metrics.DBTxRetries.WithLabelValues("serializable").Inc()
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		err = m.run(ctx, opts, fn)
		if !IsRetryable(err) {
			return err
		}
	}

	return err
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	return nil
}

// IsRetryable сообщает, стоит ли повторить транзакцию
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}
