package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

type TableInput struct {
	TableName string
	Capacity  *int
}

type TableService struct {
	DB *gorm.DB
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{DB: db}
}

// Seating pairs a table with the reservation it holds or just released.
type Seating struct {
	Table       *models.Table
	Reservation *models.Reservation
}

func (in TableInput) validate() (models.Table, error) {
	var errs problems
	t := models.Table{TableName: strings.TrimSpace(in.TableName)}

	switch {
	case t.TableName == "":
		errs.add("table_name is required")
	case len([]rune(t.TableName)) < 2:
		errs.add("table_name must be at least 2 characters")
	}

	switch {
	case in.Capacity == nil:
		errs.add("capacity is required")
	case *in.Capacity < 1:
		errs.add("capacity must be at least 1")
	default:
		t.Capacity = *in.Capacity
	}

	return t, errs.err()
}

// Create adds an empty table.
func (s *TableService) Create(ctx context.Context, in TableInput) (*models.Table, error) {
	t, err := in.validate()
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &t, nil
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	var t models.Table
	if err := s.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, notFoundOr(err, "table", id)
	}
	return &t, nil
}

// List returns every table ordered by name.
func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	if err := s.DB.WithContext(ctx).Order("table_name ASC").Order("table_id ASC").Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Seat assigns a booked reservation to a free table and marks it seated.
// Both rows change in one transaction.
func (s *TableService) Seat(ctx context.Context, tableID, reservationID uint) (*Seating, error) {
	if reservationID == 0 {
		return nil, NewValidationError("reservation_id is required")
	}

	seating := &Seating{Table: &models.Table{}, Reservation: &models.Reservation{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, r := seating.Table, seating.Reservation
		if err := tx.First(table, tableID).Error; err != nil {
			return notFoundOr(err, "table", tableID)
		}
		if err := tx.First(r, reservationID).Error; err != nil {
			return notFoundOr(err, "reservation", reservationID)
		}

		var errs problems
		if !table.Fits(r.People) {
			errs.add("table capacity %d is less than party size %d", table.Capacity, r.People)
		}
		if table.Occupied() {
			errs.add("table is occupied")
		}
		if r.Status != models.StatusBooked {
			errs.add("reservation is already %s", r.Status)
		}
		if err := errs.err(); err != nil {
			return err
		}

		// conditional writes: a concurrent seat on either row affects nothing here
		res := tx.Model(&models.Table{}).
			Where("table_id = ? AND reservation_id IS NULL", table.ID).
			Update("reservation_id", r.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewValidationError("table is occupied")
		}

		res = tx.Model(&models.Reservation{}).
			Where("reservation_id = ? AND status = ?", r.ID, string(models.StatusBooked)).
			Update("status", models.StatusSeated)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewValidationError("reservation is no longer booked")
		}

		*table, *r = models.Table{}, models.Reservation{}
		if err := tx.First(table, tableID).Error; err != nil {
			return err
		}
		return tx.First(r, reservationID).Error
	})
	if err != nil {
		return nil, err
	}
	return seating, nil
}

// Finish frees an occupied table and finishes the reservation it held.
func (s *TableService) Finish(ctx context.Context, tableID uint) (*Seating, error) {
	seating := &Seating{Table: &models.Table{}, Reservation: &models.Reservation{}}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		table, r := seating.Table, seating.Reservation
		if err := tx.First(table, tableID).Error; err != nil {
			return notFoundOr(err, "table", tableID)
		}
		if !table.Occupied() {
			return &NotFoundError{Resource: "table", ID: tableID, Reason: "is not occupied"}
		}
		reservationID := *table.ReservationID

		res := tx.Model(&models.Table{}).
			Where("table_id = ? AND reservation_id = ?", table.ID, reservationID).
			Update("reservation_id", nil)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: "table", ID: tableID, Reason: "is not occupied"}
		}

		if err := tx.Model(&models.Reservation{}).
			Where("reservation_id = ?", reservationID).
			Update("status", models.StatusFinished).Error; err != nil {
			return err
		}

		*table = models.Table{}
		if err := tx.First(table, tableID).Error; err != nil {
			return err
		}
		if err := tx.First(r, reservationID).Error; err != nil {
			return notFoundOr(err, "reservation", reservationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seating, nil
}
