package models

import (
	"time"

	"gopkg.in/guregu/null.v4"
	"gorm.io/datatypes"
)

// Reservation is the only persisted entity. Date and time are stored as
// separate wall-clock columns with no timezone attached.
type Reservation struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CustomerName    string         `gorm:"type:text;not null" json:"customerName"`
	Phone           string         `gorm:"type:varchar(20);not null" json:"phone"`
	ReservationDate datatypes.Date `gorm:"not null;index:idx_reservation_schedule,priority:1" json:"reservationDate"`
	ReservationTime datatypes.Time `gorm:"not null;index:idx_reservation_schedule,priority:2" json:"reservationTime"`
	PartySize       int            `gorm:"not null" json:"partySize"`
	SpecialRequests null.String    `gorm:"type:text" json:"specialRequests"`
	CreatedAt       time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
}

func (Reservation) TableName() string {
	return "reservations"
}

// DateValue returns the reservation date as a time.Time at midnight.
func (r Reservation) DateValue() time.Time {
	return time.Time(r.ReservationDate)
}

// DateInput renders the date the way an HTML date input expects it.
func (r Reservation) DateInput() string {
	return r.DateValue().Format("2006-01-02")
}

// TimeInput renders the time as HH:MM for the edit form.
func (r Reservation) TimeInput() string {
	s := r.ReservationTime.String()
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}
