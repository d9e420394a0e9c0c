package service

import "math"

// Pricing constants for mid-trip stops and bookings.
const (
	// stopMinimumFee is the floor for any approved stop, in dollars.
	stopMinimumFee = 25.0

	// longStopThresholdMinutes marks where the long-stop premium kicks in.
	longStopThresholdMinutes = 30

	// longStopPremium compensates the driver for stops that eat a
	// meaningful chunk of the booked window.
	longStopPremium = 1.2

	// serviceFeeRate is the marketplace fee applied on top of the base price.
	serviceFeeRate = 0.15
)

// AdditionalStopCost quotes the extra fare for a mid-trip stop.
//
// The quote is a pure function of the bus hourly rate, the detour drive time,
// and the time spent at the stop: it is computed once at request creation and
// charged verbatim on approval. Whole-dollar amounts, never below the minimum
// fee, and monotonically non-decreasing in detour+stop time.
func AdditionalStopCost(hourlyRate float64, detourMinutes, stopMinutes int) float64 {
	totalMinutes := detourMinutes + stopMinutes

	cost := float64(totalMinutes) / 60 * hourlyRate
	if totalMinutes > longStopThresholdMinutes {
		cost *= longStopPremium
	}

	cost = math.Round(cost)
	if cost < stopMinimumFee {
		return stopMinimumFee
	}
	return cost
}

// BookingQuote breaks down the up-front price of a booking.
type BookingQuote struct {
	BasePrice     float64
	ServiceFee    float64
	TotalPrice    float64
	DepositAmount float64
}

// QuoteBooking prices a booking: base charge rounded up to whole dollars,
// marketplace service fee on top, and a two-hour security deposit held
// separately.
func QuoteBooking(hourlyRate float64, hours int) BookingQuote {
	base := math.Ceil(hourlyRate * float64(hours))
	fee := math.Ceil(base * serviceFeeRate)

	return BookingQuote{
		BasePrice:     base,
		ServiceFee:    fee,
		TotalPrice:    base + fee,
		DepositAmount: hourlyRate * 2,
	}
}
