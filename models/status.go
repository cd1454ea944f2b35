package models

import (
	"database/sql/driver"
	"fmt"
)

type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "booked"
	StatusSeated    ReservationStatus = "seated"
	StatusFinished  ReservationStatus = "finished"
	StatusCancelled ReservationStatus = "cancelled"
)

var reservationStatuses = []ReservationStatus{
	StatusBooked,
	StatusSeated,
	StatusFinished,
	StatusCancelled,
}

// allowed next states for each status; terminal states have none
var statusTransitions = map[ReservationStatus][]ReservationStatus{
	StatusBooked: {StatusSeated, StatusCancelled},
	StatusSeated: {StatusFinished},
}

// ParseReservationStatus accepts only the four known values.
func ParseReservationStatus(value string) (ReservationStatus, error) {
	for _, s := range reservationStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q", value)
}

func (s ReservationStatus) IsValid() bool {
	_, err := ParseReservationStatus(string(s))
	return err == nil
}

// IsTerminal reports whether the status ends the reservation lifecycle.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// IsActive reports whether a table may hold a reservation in this status.
func (s ReservationStatus) IsActive() bool {
	return s == StatusBooked || s == StatusSeated
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// TerminalStatuses is used by listing queries to hide closed reservations.
func TerminalStatuses() []ReservationStatus {
	return []ReservationStatus{StatusFinished, StatusCancelled}
}

// Value stores the status as plain text.
func (s ReservationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ReservationStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = ReservationStatus(v)
	case []byte:
		*s = ReservationStatus(v)
	case nil:
		*s = ""
	default:
		return fmt.Errorf("cannot scan %T into ReservationStatus", src)
	}
	return nil
}
