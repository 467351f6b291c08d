package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, InitialStatus(PaymentCard))
	assert.Equal(t, StatusConfirmed, InitialStatus(PaymentTransfer))
	assert.Equal(t, StatusPending, InitialStatus(PaymentCash))
}

func TestTimeSlot_HasCapacity(t *testing.T) {
	slot := TimeSlot{MaxCapacity: 10, CurrentReservations: 9, IsAvailable: true}
	assert.True(t, slot.HasCapacity())

	slot.CurrentReservations = 10
	assert.False(t, slot.HasCapacity())
}

func TestTimeSlot_AvailabilityConsistent(t *testing.T) {
	slot := TimeSlot{MaxCapacity: 10, CurrentReservations: 3, IsAvailable: true}
	assert.True(t, slot.AvailabilityConsistent())

	// Флаг и счётчик разошлись
	slot.IsAvailable = false
	assert.False(t, slot.AvailabilityConsistent())

	full := TimeSlot{MaxCapacity: 10, CurrentReservations: 10, IsAvailable: false}
	assert.True(t, full.AvailabilityConsistent())
}

func TestProduct_SlotsLimit(t *testing.T) {
	assert.Equal(t, 2, (&Product{MaxConsecutiveSlots: 2}).SlotsLimit())
	assert.Equal(t, MaxReservationSlots, (&Product{MaxConsecutiveSlots: 5}).SlotsLimit())
	assert.Equal(t, MaxReservationSlots, (&Product{}).SlotsLimit())
}

func TestProductName_Valid(t *testing.T) {
	assert.True(t, ProductJetSky.Valid())
	assert.True(t, ProductKidsSurfboard.Valid())
	assert.False(t, ProductName("Kayak").Valid())
}

func TestNormalizeDate(t *testing.T) {
	noisy := time.Date(2026, 7, 14, 17, 45, 12, 999, time.FixedZone("ART", -3*60*60))
	normalized := NormalizeDate(noisy)

	assert.Equal(t, time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC), normalized)
}

func TestReservation_CanBeCancelled(t *testing.T) {
	r := &Reservation{Status: StatusPending}
	assert.True(t, r.CanBeCancelled())

	r.Status = StatusConfirmed
	assert.True(t, r.CanBeCancelled())

	r.Status = StatusCancelled
	assert.False(t, r.CanBeCancelled())
	assert.True(t, r.IsCancelled())
}

func TestReservation_StartAtUTC(t *testing.T) {
	r := &Reservation{
		Date:      time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
	}

	startAt, err := r.StartAtUTC()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC), startAt)
}
