package services

import (
	"time"

	"github.com/yeremiapane/reservation-app/models"
)

// BookingPolicy describes when the restaurant accepts reservations.
// The zero value accepts any date and time.
type BookingPolicy struct {
	ClosedWeekdays []time.Weekday
	OpensAt        string // HH:MM, inclusive
	LastSeating    string // HH:MM, inclusive
	RequireFuture  bool
	Location       *time.Location
	Now            func() time.Time
}

func (p BookingPolicy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

func (p BookingPolicy) now() time.Time {
	if p.Now == nil {
		return time.Now().In(p.location())
	}
	return p.Now().In(p.location())
}

// Today returns the current date in the policy's time zone.
func (p BookingPolicy) Today() string {
	return p.now().Format(models.DateLayout)
}

// Check assumes date and clock were already parsed successfully.
func (p BookingPolicy) Check(date, clock string) error {
	var errs problems

	at, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, date+" "+clock, p.location())
	if err != nil {
		return NewValidationError("reservation_date and reservation_time must form a valid moment")
	}

	for _, day := range p.ClosedWeekdays {
		if at.Weekday() == day {
			errs.add("restaurant is closed on %s", day)
		}
	}

	// HH:MM strings compare correctly as text
	if p.OpensAt != "" && clock < p.OpensAt || p.LastSeating != "" && clock > p.LastSeating {
		errs.add("reservation_time must be between %s and %s", orDash(p.OpensAt), orDash(p.LastSeating))
	}

	if p.RequireFuture && !at.After(p.now()) {
		errs.add("reservation must be in the future")
	}

	return errs.err()
}

func orDash(s string) string {
	if s == "" {
		return "--:--"
	}
	return s
}
