package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReservationStatus(t *testing.T) {
	for _, value := range []string{"booked", "seated", "finished", "cancelled"} {
		status, err := ParseReservationStatus(value)
		require.NoError(t, err)
		assert.Equal(t, value, string(status))
	}

	for _, value := range []string{"", "Booked", "unknown", "no_show"} {
		_, err := ParseReservationStatus(value)
		assert.Error(t, err, value)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		allowed  bool
	}{
		{StatusBooked, StatusSeated, true},
		{StatusBooked, StatusCancelled, true},
		{StatusSeated, StatusFinished, true},
		{StatusBooked, StatusFinished, false},
		{StatusBooked, StatusBooked, false},
		{StatusSeated, StatusCancelled, false},
		{StatusSeated, StatusBooked, false},
		{StatusFinished, StatusBooked, false},
		{StatusCancelled, StatusSeated, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, StatusFinished.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusSeated.IsTerminal())
	assert.True(t, StatusBooked.IsActive())
	assert.True(t, StatusSeated.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, ReservationStatus("waiting").IsValid())
}

func TestReservationScheduledAt(t *testing.T) {
	r := Reservation{ReservationDate: "2035-03-14", ReservationTime: "18:45"}
	at, err := r.ScheduledAt(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2035, 3, 14, 18, 45, 0, 0, time.UTC), at)
}

func TestTableHelpers(t *testing.T) {
	id := uint(3)
	table := Table{Capacity: 4}
	assert.False(t, table.Occupied())
	assert.True(t, table.Fits(4))
	assert.False(t, table.Fits(5))

	table.ReservationID = &id
	assert.True(t, table.Occupied())
}
