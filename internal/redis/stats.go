package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StatsStore tracks per-operator stop decision counters in Redis. The
// counters feed the "approved N of your last M stop requests" display in the
// driver app; they are informational only and never gate a decision.
type StatsStore struct {
	client *redis.Client
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(client *redis.Client) *StatsStore {
	return &StatsStore{client: client}
}

func approvedStopsKey(operatorID string) string {
	return fmt.Sprintf("stats:operator:%s:stops_approved", operatorID)
}

func decidedStopsKey(operatorID string) string {
	return fmt.Sprintf("stats:operator:%s:stops_decided", operatorID)
}

// RecordStopDecision increments the decided counter, and the approved counter
// when the stop was approved.
func (s *StatsStore) RecordStopDecision(ctx context.Context, operatorID string, approved bool) error {
	if err := s.client.Incr(ctx, decidedStopsKey(operatorID)).Err(); err != nil {
		return err
	}
	if !approved {
		return nil
	}
	return s.client.Incr(ctx, approvedStopsKey(operatorID)).Err()
}

// GetStopDecisionCounts returns (approved, decided) totals for an operator.
// Missing keys read as zero.
func (s *StatsStore) GetStopDecisionCounts(ctx context.Context, operatorID string) (int64, int64, error) {
	approved, err := s.client.Get(ctx, approvedStopsKey(operatorID)).Int64()
	if err != nil && err != redis.Nil {
		return 0, 0, err
	}

	decided, err := s.client.Get(ctx, decidedStopsKey(operatorID)).Int64()
	if err != nil && err != redis.Nil {
		return 0, 0, err
	}

	return approved, decided, nil
}
