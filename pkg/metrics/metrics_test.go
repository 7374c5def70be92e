package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBooking(t *testing.T) {
	m := NewWithRegisterer("salon-booking", prometheus.NewRegistry())

	m.RecordBooking(OutcomeCreated)
	m.RecordBooking(OutcomeCreated)
	m.RecordBooking(OutcomeConflict)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues(OutcomeCreated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOutcomes.WithLabelValues(OutcomeConflict)))
}

func TestRecordBooking_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.RecordBooking(OutcomeFailed) })
}
