package models

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Reservation struct {
	ID              uint              `gorm:"primaryKey;column:reservation_id" json:"reservation_id"`
	FirstName       string            `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string            `gorm:"type:varchar(100);not null" json:"last_name"`
	MobileNumber    string            `gorm:"type:varchar(50);not null" json:"mobile_number"`
	ReservationDate string            `gorm:"type:varchar(10);not null;index:idx_reservations_date_time,priority:1" json:"reservation_date"`
	ReservationTime string            `gorm:"type:varchar(5);not null;index:idx_reservations_date_time,priority:2" json:"reservation_time"`
	People          int               `gorm:"not null" json:"people"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

// ScheduledAt combines the stored date and time in loc.
func (r *Reservation) ScheduledAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.ReservationDate+" "+r.ReservationTime, loc)
}

func (r *Reservation) FullName() string {
	return r.FirstName + " " + r.LastName
}
