package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:30")
	require.NoError(t, err)
	assert.Equal(t, "10:30", ts.String())

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("10:30:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Ordering(t *testing.T) {
	a := TimeString("08:00")
	b := TimeString("17:30")

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsBefore(a))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("17:30")

	end, err := ts.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:00"), end)

	// Переход через полночь недопустим
	_, err = TimeString("23:45").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_AtDate(t *testing.T) {
	date := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)

	at, err := TimeString("10:00").AtDate(date)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC), at)
	assert.Equal(t, time.UTC, at.Location())

	// Дата с локальной таймзоной все равно дает момент в UTC
	buenosAires := time.FixedZone("ART", -3*60*60)
	localDate := time.Date(2026, 7, 14, 0, 0, 0, 0, buenosAires)

	at, err = TimeString("10:00").AtDate(localDate)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC), at)
}

func TestTimeString_Minutes(t *testing.T) {
	minutes, err := TimeString("08:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 510, minutes)
}
