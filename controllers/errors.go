package controllers

// CustomError carries a message that is safe to show to the client.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrInvalidReservationID = &CustomError{"Invalid reservation ID"}
	ErrReservationNotFound  = &CustomError{"Reservation not found"}
	ErrFetchReservation     = &CustomError{"Failed to fetch reservation"}
	ErrInvalidPayload       = &CustomError{"Invalid request body"}
	ErrSignInUnavailable    = &CustomError{"Sign-in is not configured"}
)
