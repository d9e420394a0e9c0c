package domain

import "time"

// Operator represents a bus company listing vehicles on the marketplace.
// New operators start unapproved and stay off the search results until
// an admin approves them.
type Operator struct {
	ID          string
	CompanyName string
	Email       string
	Phone       string
	City        string
	IsApproved  bool
	CreatedAt   time.Time
}
