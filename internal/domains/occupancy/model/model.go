package model

import (
	"net/http"

	"conroom/shared/failure"
)

// Check-in failures. Each carries the message shown to the user verbatim;
// match them with errors.Is.
var (
	ErrBookingNotFound = &failure.Failure{
		Code:    http.StatusNotFound,
		Message: "Booking not found",
	}
	ErrNotBookingOwner = &failure.Failure{
		Code:    http.StatusForbidden,
		Message: "You may only check into your own booking",
	}
	ErrBookingNotConfirmed = &failure.Failure{
		Code:    http.StatusConflict,
		Message: "Only confirmed bookings can be checked in",
	}
	ErrCheckInTooEarly = &failure.Failure{
		Code:    http.StatusTooEarly,
		Message: "Too early to check in",
	}
	ErrCheckInExpired = &failure.Failure{
		Code:    http.StatusGone,
		Message: "Check-in window has expired",
	}
)
