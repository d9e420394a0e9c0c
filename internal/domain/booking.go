package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a confirmed trip reservation.
type Booking struct {
	ID         string
	CustomerID string
	BusID      string
	OperatorID string

	StartsAt time.Time
	Hours    int

	PickupLocation  string
	DropoffLocation string

	TotalPrice    float64
	DepositAmount float64

	// ApprovedStopsTotal accumulates the quoted cost of every mid-trip
	// stop the driver has approved for this booking.
	ApprovedStopsTotal float64

	Status    BookingStatus
	CreatedAt time.Time
}

// EndsAt returns the scheduled end of the booked window.
func (b *Booking) EndsAt() time.Time {
	return b.StartsAt.Add(time.Duration(b.Hours) * time.Hour)
}
