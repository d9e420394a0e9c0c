package service

import "errors"

var (
	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidStopID is returned when stop request ID is empty.
	ErrInvalidStopID = errors.New("invalid stop request id")

	// ErrEmptyStopAddress is returned when the stop address is blank.
	ErrEmptyStopAddress = errors.New("stop address is required")

	// ErrInvalidStopDuration is returned when the requested stop duration is
	// zero, negative, or above the allowed maximum.
	ErrInvalidStopDuration = errors.New("stop duration out of allowed range")

	// ErrPendingStopExists is returned when a booking already has an
	// undecided stop request.
	ErrPendingStopExists = errors.New("a stop request is already pending for this booking")

	// ErrStopAlreadyDecided is returned when a decision targets a request
	// that has already been approved or denied.
	ErrStopAlreadyDecided = errors.New("stop request was already decided")

	// ErrInvalidDecisionAction is returned when the decision action is not
	// approve or deny.
	ErrInvalidDecisionAction = errors.New("decision action must be approve or deny")

	// ErrLateForNextBooking is returned when approving a stop would make the
	// driver late for the next scheduled booking.
	ErrLateForNextBooking = errors.New("stop would make driver late for next booking")

	// ErrInvalidOperatorID is returned when operator ID is empty.
	ErrInvalidOperatorID = errors.New("invalid operator id")

	// ErrInvalidBusID is returned when bus ID is empty.
	ErrInvalidBusID = errors.New("invalid bus id")

	// ErrMissingCustomerInfo is returned when customer name, email, or phone
	// is missing from a booking request.
	ErrMissingCustomerInfo = errors.New("customer name, email and phone are required")

	// ErrMissingOperatorInfo is returned when a registration is missing the
	// company name, email, or first bus details.
	ErrMissingOperatorInfo = errors.New("company name, email and bus details are required")

	// ErrInvalidBookingHours is returned when the booked hours are not positive.
	ErrInvalidBookingHours = errors.New("booking hours must be positive")

	// ErrBelowMinimumHours is returned when the booked hours are under the
	// bus's minimum.
	ErrBelowMinimumHours = errors.New("booking is below the bus minimum hours")

	// ErrBusNotBookable is returned when the bus is inactive or its operator
	// is not approved.
	ErrBusNotBookable = errors.New("bus is not available for booking")

	// ErrInvalidBookingStart is returned when the booking start time is
	// missing or in the past.
	ErrInvalidBookingStart = errors.New("booking start time must be in the future")
)
