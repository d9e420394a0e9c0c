package domain

import "time"

// StopRequestStatus represents the lifecycle state of a stop request.
// A request starts pending and moves exactly once to approved or denied.
type StopRequestStatus string

const (
	StopStatusPending  StopRequestStatus = "pending"
	StopStatusApproved StopRequestStatus = "approved"
	StopStatusDenied   StopRequestStatus = "denied"
)

// Canned deny reasons offered to drivers. Free-text reasons are also
// accepted; these are the ones the driver app shows as quick choices.
const (
	DenyReasonLateForNext       = "Will be late for next booking"
	DenyReasonTooFar            = "Stop location too far"
	DenyReasonCannotAccommodate = "Cannot accommodate request"
	DenyReasonNone              = "No reason given"
	DenyReasonAutoDeclined      = "No response - auto declined"
)

// StopRequest represents a customer's mid-trip detour request awaiting
// the driver's decision.
type StopRequest struct {
	ID        string
	BookingID string

	StopAddress string
	// EstimatedDuration is the time the customer needs at the stop, in minutes.
	EstimatedDuration int
	// DetourMinutes is the extra drive time the stop adds to the route,
	// estimated at creation time.
	DetourMinutes int

	// AdditionalCost is the quote computed at creation time. It is charged
	// verbatim if the driver approves and is never recomputed.
	AdditionalCost float64

	Status      StopRequestStatus
	RequestedAt time.Time
	DecidedAt   time.Time // zero while pending
	DenyReason  string    // set only when denied
}

// Terminal reports whether the request has reached a final state.
func (r *StopRequest) Terminal() bool {
	return r.Status == StopStatusApproved || r.Status == StopStatusDenied
}

// AddedMinutes returns the total trip time the stop would add.
func (r *StopRequest) AddedMinutes() int {
	return r.DetourMinutes + r.EstimatedDuration
}
