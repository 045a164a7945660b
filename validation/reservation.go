package validation

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/reservation-app/models"
	"gopkg.in/guregu/null.v4"
	"gorm.io/datatypes"
)

// Kind identifies which rule a field failed.
type Kind string

const (
	TooShort      Kind = "TooShort"
	InvalidDate   Kind = "InvalidDate"
	InvalidFormat Kind = "InvalidFormat"
	TooSmall      Kind = "TooSmall"
)

// Draft is a reservation exactly as submitted, before any coercion.
type Draft struct {
	CustomerName    string `form:"customerName" json:"customerName" validate:"min=2"`
	Phone           string `form:"phone" json:"phone" validate:"min=10"`
	ReservationDate string `form:"reservationDate" json:"reservationDate" validate:"calendardate"`
	ReservationTime string `form:"reservationTime" json:"reservationTime" validate:"clock24"`
	PartySize       string `form:"partySize" json:"partySize" validate:"partysize"`
	SpecialRequests string `form:"specialRequests" json:"specialRequests"`
}

// FieldError is a single inline message attached to a form field.
type FieldError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// FieldErrors maps a form field name to its failure.
type FieldErrors map[string]FieldError

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for name := range fe {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, name := range fields {
		parts = append(parts, name+": "+fe[name].Message)
	}
	return "invalid reservation: " + strings.Join(parts, "; ")
}

// Has reports whether the given field failed.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Message returns the inline message for a field, or "".
func (fe FieldErrors) Message(field string) string {
	return fe[field].Message
}

var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var messages = map[string]FieldError{
	"customerName":    {Kind: TooShort, Message: "Customer name must be at least 2 characters."},
	"phone":           {Kind: TooShort, Message: "Phone number must be at least 10 digits."},
	"reservationDate": {Kind: InvalidDate, Message: "Please enter a valid date."},
	"reservationTime": {Kind: InvalidFormat, Message: "Please enter a valid time in 24-hour format (HH:MM)."},
	"partySize":       {Kind: TooSmall, Message: "Party size must be at least 1 person."},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "calendardate", func(fl validator.FieldLevel) bool {
		_, ok := ParseDate(fl.Field().String())
		return ok
	})
	mustRegister(v, "clock24", func(fl validator.FieldLevel) bool {
		return clockPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "partysize", func(fl validator.FieldLevel) bool {
		return CoercePartySize(fl.Field().String()) >= 1
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ParseDate accepts an ISO calendar date and a handful of common layouts.
// The result is truncated to midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// ValidClock reports whether s is a 24-hour H:MM or HH:MM time.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// CoercePartySize turns the raw party size into an integer. Anything that is
// not a number coerces to 0 so it fails the minimum check.
func CoercePartySize(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Trunc(f))
}

// Validate checks every rule independently and, when all pass, returns the
// normalized record ready for persistence.
func Validate(d Draft) (models.Reservation, FieldErrors) {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			panic(err)
		}
		fieldErrs := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			if msg, ok := messages[fe.Field()]; ok {
				fieldErrs[fe.Field()] = msg
			}
		}
		return models.Reservation{}, fieldErrs
	}

	date, _ := ParseDate(d.ReservationDate)
	hour, minute := splitClock(d.ReservationTime)

	return models.Reservation{
		CustomerName:    d.CustomerName,
		Phone:           d.Phone,
		ReservationDate: datatypes.Date(date),
		ReservationTime: datatypes.NewTime(hour, minute, 0, 0),
		PartySize:       CoercePartySize(d.PartySize),
		SpecialRequests: null.NewString(d.SpecialRequests, d.SpecialRequests != ""),
	}, nil
}

// DraftFrom rebuilds the raw form values from a stored reservation.
func DraftFrom(r models.Reservation) Draft {
	return Draft{
		CustomerName:    r.CustomerName,
		Phone:           r.Phone,
		ReservationDate: r.DateInput(),
		ReservationTime: r.TimeInput(),
		PartySize:       strconv.Itoa(r.PartySize),
		SpecialRequests: r.SpecialRequests.ValueOrZero(),
	}
}

func splitClock(s string) (int, int) {
	h, m, _ := strings.Cut(s, ":")
	hour, _ := strconv.Atoi(h)
	minute, _ := strconv.Atoi(m)
	return hour, minute
}
