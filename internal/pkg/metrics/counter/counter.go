package counter

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const decisionsKey = "contactguard:counters:decisions"

// HashClient is the subset of a redis client the counters need.
type HashClient interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// DecisionCounter tallies contact policy decisions in a Redis hash so all
// instances report one total.
type DecisionCounter struct {
	client HashClient
}

func NewDecisionCounter(client HashClient) *DecisionCounter {
	return &DecisionCounter{client: client}
}

// RecordDecision increments the action counter and one counter per category.
func (d *DecisionCounter) RecordDecision(ctx context.Context, action string, categories []string) error {
	if err := d.client.HIncrBy(ctx, decisionsKey, "action:"+action, 1).Err(); err != nil {
		return err
	}
	for _, c := range categories {
		if err := d.client.HIncrBy(ctx, decisionsKey, "category:"+c, 1).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns all counters. Non-numeric fields are skipped.
func (d *DecisionCounter) Snapshot(ctx context.Context) (map[string]int64, error) {
	data, err := d.client.HGetAll(ctx, decisionsKey).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(data))
	for k, v := range data {
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			continue
		}
		out[k] = n
	}
	return out, nil
}
