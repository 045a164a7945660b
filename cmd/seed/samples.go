package main

import (
	"time"

	"github.com/yeremiapane/reservation-app/validation"
)

type sample struct {
	name     string
	phone    string
	dayShift int
	clock    string
	party    string
	requests string
}

var samples = []sample{
	{"John Smith", "(555) 123-4567", -1, "18:00", "2", "Window seat preferred"},
	{"Emily Johnson", "(555) 234-5678", -1, "19:30", "4", "Celebrating a birthday, possible cake"},
	{"Michael Williams", "(555) 345-6789", -2, "20:00", "6", "One person has a gluten allergy"},
	{"Sarah Davis", "(555) 456-7890", 0, "12:30", "3", ""},
	{"Robert Brown", "(555) 567-8901", 0, "13:00", "2", "Anniversary celebration"},
	{"Jennifer Miller", "(555) 678-9012", 0, "19:00", "5", "High chair needed for toddler"},
	{"David Wilson", "(555) 789-0123", 1, "18:30", "4", ""},
	{"Lisa Moore", "(555) 890-1234", 1, "20:00", "2", "Quiet table for business discussion"},
	{"James Taylor", "(555) 901-2345", 2, "19:00", "8", "Celebrating graduation, will bring own cake"},
	{"Patricia Anderson", "(555) 012-3456", 2, "17:30", "6", "Two vegetarians in the party"},
	{"Thomas Jackson", "(555) 123-4567", 7, "18:00", "4", ""},
	{"Barbara White", "(555) 234-5678", 7, "19:30", "2", "Anniversary dinner, would like a romantic table"},
	{"Charles Harris", "(555) 345-6789", 8, "20:00", "7", "Family gathering, one person in wheelchair"},
	{"Susan Martin", "(555) 456-7890", 9, "18:30", "5", "One child in the party, needs booster seat"},
	{"Joseph Thompson", "(555) 567-8901", 10, "19:00", "2", "Prefer table away from kitchen"},
}

// sampleReservations spreads the samples around today: two days back to
// ten days ahead.
func sampleReservations(today time.Time) []validation.Draft {
	drafts := make([]validation.Draft, 0, len(samples))
	for _, s := range samples {
		drafts = append(drafts, validation.Draft{
			CustomerName:    s.name,
			Phone:           s.phone,
			ReservationDate: today.AddDate(0, 0, s.dayShift).Format("2006-01-02"),
			ReservationTime: s.clock,
			PartySize:       s.party,
			SpecialRequests: s.requests,
		})
	}
	return drafts
}
