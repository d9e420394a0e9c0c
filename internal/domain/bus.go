package domain

// Bus represents a vehicle offered by an operator.
type Bus struct {
	ID           string
	OperatorID   string
	Name         string
	Capacity     int
	HourlyRate   float64
	MinimumHours int
	Features     []string
	Description  string
	IsActive     bool
}

// BusListing is a bus enriched with operator details for search results.
// Only buses of approved operators appear in listings.
type BusListing struct {
	Bus
	OperatorName string
	OperatorCity string
}
