package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "18:30", want: "18:30"},
		{in: "10:00:00", want: "10:00"},
		{in: "24:00", want: "24:00"},
		{in: "00:00", want: "00:00"},
		{in: "24:30", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := NewTimeStringFromString(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	got, err = TimeString("23:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("").IsAfter("09:59"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("11:15:00")))
	assert.Equal(t, TimeString("11:15"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 8, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("08:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2024, 1, 1, 15, 42, 0, 0, time.UTC)
	got, err := TimeString("10:30").OnDate(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), got)
}
