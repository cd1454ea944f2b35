package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingPolicyZeroValueAllowsAnything(t *testing.T) {
	assert.NoError(t, BookingPolicy{}.Check("2001-01-02", "03:00"))
}

func TestBookingPolicyRules(t *testing.T) {
	now := time.Date(2035, 1, 10, 12, 0, 0, 0, time.UTC) // a Wednesday
	policy := BookingPolicy{
		ClosedWeekdays: []time.Weekday{time.Tuesday},
		OpensAt:        "10:30",
		LastSeating:    "21:30",
		RequireFuture:  true,
		Location:       time.UTC,
		Now:            func() time.Time { return now },
	}

	assert.NoError(t, policy.Check("2035-01-11", "10:30"))
	assert.NoError(t, policy.Check("2035-01-11", "21:30"))
	assert.NoError(t, policy.Check("2035-01-10", "12:30"))

	assert.ErrorContains(t, policy.Check("2035-01-16", "18:00"), "closed on Tuesday")
	assert.ErrorContains(t, policy.Check("2035-01-11", "10:29"), "between 10:30 and 21:30")
	assert.ErrorContains(t, policy.Check("2035-01-11", "22:00"), "between 10:30 and 21:30")
	assert.ErrorContains(t, policy.Check("2035-01-10", "11:00"), "must be in the future")
	assert.ErrorContains(t, policy.Check("2035-01-09", "11:00"), "closed on Tuesday")

	assert.Equal(t, "2035-01-10", policy.Today())
}

func TestBookingPolicyAppliedOnCreate(t *testing.T) {
	policy := BookingPolicy{ClosedWeekdays: []time.Weekday{time.Tuesday}}
	svc := NewReservationService(setupTestDB(t), policy, true)

	_, err := svc.Create(context.Background(), reservationInput("Ada", "555", "2035-01-16", "18:30", 2))
	assert.ErrorContains(t, err, "closed on Tuesday")
}
