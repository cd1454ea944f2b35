package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

// ReservationInput is the validated shape of a create or update request.
// People is a pointer so a missing field can be told apart from zero.
type ReservationInput struct {
	FirstName       string
	LastName        string
	MobileNumber    string
	ReservationDate string
	ReservationTime string
	People          *int
	Status          string
}

type ReservationService struct {
	DB                *gorm.DB
	Policy            BookingPolicy
	StrictTransitions bool
}

func NewReservationService(db *gorm.DB, policy BookingPolicy, strict bool) *ReservationService {
	return &ReservationService{DB: db, Policy: policy, StrictTransitions: strict}
}

// StatusChange is the outcome of SetStatus. FreedTables lists tables whose
// assignment was cleared because the reservation reached a terminal status.
type StatusChange struct {
	Reservation *models.Reservation
	Previous    models.ReservationStatus
	FreedTables []models.Table
}

// Changed reports whether the status actually moved.
func (c *StatusChange) Changed() bool {
	return c.Previous != c.Reservation.Status
}

// ParseID converts a path parameter; anything that is not a positive integer
// cannot name an existing row.
func ParseID(resource, raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &NotFoundError{Resource: resource, ID: raw}
	}
	return uint(id), nil
}

// ParseDate validates a YYYY-MM-DD date.
func ParseDate(field, value string) (string, error) {
	d, err := time.Parse(models.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", NewValidationError("%s must be a date formatted YYYY-MM-DD", field)
	}
	return d.Format(models.DateLayout), nil
}

func parseClock(value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{models.TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(models.TimeLayout), true
		}
	}
	return "", false
}

// validate checks presence and format and returns the normalised fields.
func (in ReservationInput) validate() (models.Reservation, error) {
	var errs problems
	r := models.Reservation{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		MobileNumber: strings.TrimSpace(in.MobileNumber),
	}

	if r.FirstName == "" {
		errs.add("first_name is required")
	}
	if r.LastName == "" {
		errs.add("last_name is required")
	}
	if r.MobileNumber == "" {
		errs.add("mobile_number is required")
	}

	if strings.TrimSpace(in.ReservationDate) == "" {
		errs.add("reservation_date is required")
	} else if date, err := ParseDate("reservation_date", in.ReservationDate); err != nil {
		errs.add("reservation_date must be a date formatted YYYY-MM-DD")
	} else {
		r.ReservationDate = date
	}

	if strings.TrimSpace(in.ReservationTime) == "" {
		errs.add("reservation_time is required")
	} else if clock, ok := parseClock(in.ReservationTime); !ok {
		errs.add("reservation_time must be a time formatted HH:MM")
	} else {
		r.ReservationTime = clock
	}

	switch {
	case in.People == nil:
		errs.add("people is required")
	case *in.People < 1:
		errs.add("people must be a positive integer")
	default:
		r.People = *in.People
	}

	return r, errs.err()
}

func (s *ReservationService) Create(ctx context.Context, in ReservationInput) (*models.Reservation, error) {
	r, err := in.validate()
	if err != nil {
		return nil, err
	}

	r.Status = models.StatusBooked
	if in.Status != "" {
		status, err := models.ParseReservationStatus(in.Status)
		if err != nil {
			return nil, NewValidationError("%v", err)
		}
		if status != models.StatusBooked {
			return nil, NewValidationError("status %q is not allowed when creating a reservation", status)
		}
	}

	if err := s.Policy.Check(r.ReservationDate, r.ReservationTime); err != nil {
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return &r, nil
}

func (s *ReservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.DB.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, notFoundOr(err, "reservation", id)
	}
	return &r, nil
}

// Update replaces the editable fields of a booked reservation.
func (s *ReservationService) Update(ctx context.Context, id uint, in ReservationInput) (*models.Reservation, error) {
	fields, err := in.validate()
	if err != nil {
		return nil, err
	}

	var updated models.Reservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&updated, id).Error; err != nil {
			return notFoundOr(err, "reservation", id)
		}
		if updated.Status != models.StatusBooked {
			return NewValidationError("only booked reservations can be edited, reservation %d is %s", id, updated.Status)
		}
		if in.Status != "" && in.Status != string(updated.Status) {
			return NewValidationError("status can only be changed through the status endpoint")
		}
		if err := s.Policy.Check(fields.ReservationDate, fields.ReservationTime); err != nil {
			return err
		}

		err := tx.Model(&updated).Updates(map[string]interface{}{
			"first_name":       fields.FirstName,
			"last_name":        fields.LastName,
			"mobile_number":    fields.MobileNumber,
			"reservation_date": fields.ReservationDate,
			"reservation_time": fields.ReservationTime,
			"people":           fields.People,
		}).Error
		if err != nil {
			return err
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListByDate returns the reservations still open on date, earliest first.
func (s *ReservationService) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	day, err := ParseDate("date", date)
	if err != nil {
		return nil, err
	}

	reservations := []models.Reservation{}
	err = s.DB.WithContext(ctx).
		Where("reservation_date = ?", day).
		Where("status NOT IN ?", statusStrings(models.TerminalStatuses())).
		Order("reservation_time ASC").
		Order("reservation_id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", day, err)
	}
	return reservations, nil
}

// SearchByMobile matches on digits only, whatever punctuation either side uses.
func (s *ReservationService) SearchByMobile(ctx context.Context, query string) ([]models.Reservation, error) {
	digits := NormalizeMobileQuery(query)
	if digits == "" {
		return nil, NewValidationError("mobile_number must contain at least one digit")
	}

	reservations := []models.Reservation{}
	err := s.DB.WithContext(ctx).
		Where(mobileColumnExpr("mobile_number")+" LIKE ?", "%"+digits+"%").
		Order("reservation_date ASC").
		Order("reservation_time ASC").
		Order("reservation_id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("search reservations by mobile: %w", err)
	}
	return reservations, nil
}

// SetStatus moves a reservation to status. A terminal status also releases
// any table still holding the reservation.
func (s *ReservationService) SetStatus(ctx context.Context, id uint, value string) (*StatusChange, error) {
	next, err := models.ParseReservationStatus(value)
	if err != nil {
		return nil, NewValidationError("%v", err)
	}

	change := &StatusChange{Reservation: &models.Reservation{}}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := change.Reservation
		if err := tx.First(r, id).Error; err != nil {
			return notFoundOr(err, "reservation", id)
		}
		change.Previous = r.Status

		// seating already moved the reservation; repeating the status is a no-op
		if r.Status == next {
			return nil
		}

		if s.StrictTransitions && !r.Status.CanTransitionTo(next) {
			return NewValidationError("reservation status cannot change from %s to %s", r.Status, next)
		}

		if err := tx.Model(r).Update("status", next).Error; err != nil {
			return err
		}
		r.Status = next

		if !next.IsTerminal() {
			return nil
		}
		if err := tx.Where("reservation_id = ?", r.ID).Find(&change.FreedTables).Error; err != nil {
			return err
		}
		if len(change.FreedTables) == 0 {
			return nil
		}
		if err := tx.Model(&models.Table{}).Where("reservation_id = ?", r.ID).Update("reservation_id", nil).Error; err != nil {
			return err
		}
		for i := range change.FreedTables {
			change.FreedTables[i].ReservationID = nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func statusStrings(statuses []models.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
