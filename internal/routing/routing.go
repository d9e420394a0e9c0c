// Package routing estimates the extra drive time a mid-trip stop adds to a
// booked route. The real estimator is an external HTTP service; callers must
// treat every lookup as fallible and fall back to a fixed estimate.
package routing

import "context"

// Estimate is the result of a detour lookup.
type Estimate struct {
	DetourMinutes int
}

// Estimator resolves the detour a stop address adds to a route.
type Estimator interface {
	EstimateDetour(ctx context.Context, pickup, stopAddress string) (Estimate, error)
}

// FixedEstimator always returns the same detour. Used when no routing
// service is configured and as the degenerate estimator in tests.
type FixedEstimator struct {
	DetourMinutes int
}

// EstimateDetour returns the fixed detour estimate.
func (f FixedEstimator) EstimateDetour(ctx context.Context, pickup, stopAddress string) (Estimate, error) {
	return Estimate{DetourMinutes: f.DetourMinutes}, nil
}

var _ Estimator = FixedEstimator{}
