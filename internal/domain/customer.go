package domain

import "time"

// Customer represents a person booking buses. Customers are created lazily
// the first time an email address books a trip.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}
