package dbmetrics

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
)

func TestOperation(t *testing.T) {
	cases := map[string]string{
		"SELECT id FROM appointments":          "select",
		"  insert INTO appointments (a)":       "insert",
		"UPDATE appointments SET status = $1":  "update",
		"DELETE FROM salon_booking_configs":    "delete",
		"WITH x AS (SELECT 1) SELECT * FROM x": "with",
		"VACUUM":                               "other",
		"":                                     "other",
	}
	for query, want := range cases {
		assert.Equal(t, want, Operation(query), query)
	}
}

func TestGetExecutor_WithoutTx(t *testing.T) {
	db := &sql.DB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Same(t, db, GetExecutor(ctx, db))
}

func TestGetExecutor_WithTx(t *testing.T) {
	tx := &sql.Tx{}
	ctx := WithTx(context.Background(), tx)

	assert.True(t, IsInTransaction(ctx))
	assert.Same(t, tx, GetExecutor(ctx, &sql.DB{}))
	assert.Same(t, tx, GetExecutor(ctx, Wrap(&sql.DB{}, nil)))
}

// execConnector драйвер, который выполняет Exec и падает на запросах с "fail"
type execConnector struct{}

func (execConnector) Connect(context.Context) (driver.Conn, error) { return execConn{}, nil }
func (execConnector) Driver() driver.Driver                        { return execDriver{} }

type execDriver struct{}

func (execDriver) Open(string) (driver.Conn, error) { return nil, errors.New("use connector") }

type execConn struct{}

func (execConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (execConn) Close() error                        { return nil }
func (execConn) Begin() (driver.Tx, error)           { return execTx{}, nil }

func (execConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	if strings.Contains(query, "fail") {
		return nil, errors.New("exec failed")
	}
	return driver.RowsAffected(1), nil
}

type execTx struct{}

func (execTx) Commit() error   { return nil }
func (execTx) Rollback() error { return nil }

func TestGetExecutor_TxQueriesAreMeasured(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	raw := sql.OpenDB(execConnector{})
	defer raw.Close()
	db := Wrap(raw, m)

	ctx := context.Background()
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	executor := GetExecutor(WithTx(ctx, tx), db)
	require.IsType(t, &Tx{}, executor)

	_, err = executor.ExecContext(ctx, "UPDATE appointments SET status = 'completed'")
	require.NoError(t, err)
	_, err = executor.ExecContext(ctx, "DELETE FROM fail")
	require.Error(t, err)

	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("delete")))
}
