package config

import (
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectByLevel_SalonLevelUsesIsNull(t *testing.T) {
	query, args, err := selectByLevel(3, nil).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT "+strings.Join(columns, ", ")+" FROM salon_booking_configs WHERE (salon_id = $1 AND service_id IS NULL)",
		query)
	assert.Equal(t, []interface{}{int64(3)}, args)
}

func TestSelectByLevel_ServiceLevel(t *testing.T) {
	serviceID := int64(12)

	query, args, err := selectByLevel(3, &serviceID).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE (salon_id = $1 AND service_id = $2)")
	assert.NotContains(t, query, "IS NULL")
	assert.Equal(t, []interface{}{int64(3), int64(12)}, args)
}

func TestDeleteByLevel(t *testing.T) {
	serviceID := int64(12)

	tests := []struct {
		name      string
		serviceID *int64
		query     string
		args      []interface{}
	}{
		{
			name:  "salon level",
			query: "DELETE FROM salon_booking_configs WHERE (salon_id = $1 AND service_id IS NULL)",
			args:  []interface{}{int64(3)},
		},
		{
			name:      "service level",
			serviceID: &serviceID,
			query:     "DELETE FROM salon_booking_configs WHERE (salon_id = $1 AND service_id = $2)",
			args:      []interface{}{int64(3), int64(12)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := deleteByLevel(3, tt.serviceID).ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.query, query)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestLevelFilter_Conditions(t *testing.T) {
	serviceID := int64(12)

	salonSQL, _, err := levelFilter(3, nil).ToSql()
	require.NoError(t, err)
	serviceSQL, _, err := levelFilter(3, &serviceID).ToSql()
	require.NoError(t, err)

	// Без плейсхолдеров Dollar: условие само по себе использует "?"
	assert.Equal(t, "(salon_id = ? AND service_id IS NULL)", salonSQL)
	assert.Equal(t, "(salon_id = ? AND service_id = ?)", serviceSQL)
	assert.IsType(t, squirrel.And{}, levelFilter(3, nil))
}
