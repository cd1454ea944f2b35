package models

import "time"

type Table struct {
	ID            uint      `gorm:"primaryKey;column:table_id" json:"table_id"`
	TableName     string    `gorm:"column:table_name;type:varchar(100);not null" json:"table_name"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	ReservationID *uint     `gorm:"column:reservation_id;index" json:"reservation_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// Occupied reports whether a reservation is currently assigned.
func (t *Table) Occupied() bool {
	return t.ReservationID != nil
}

// Fits reports whether a party of the given size can sit here.
func (t *Table) Fits(people int) bool {
	return people <= t.Capacity
}
