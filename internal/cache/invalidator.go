package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	redisclient "github.com/slateline/slateline-backend/internal/clients/redis"
	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/types"
)

// Invalidator drops cached reads for a mutation and fans the event out over
// the bus so every process (and every connected panel) observes it. Stale
// reads between invalidation and refetch are tolerated; the deletion itself
// is the only ordering guarantee.
type Invalidator interface {
	Invalidate(ctx context.Context, kind MutationKind, projectID, scenarioID uuid.UUID) error
	GetDriftCounts(ctx context.Context, projectID, scenarioID uuid.UUID) (*types.DriftCounts, error)
	SetDriftCounts(ctx context.Context, projectID, scenarioID uuid.UUID, counts types.DriftCounts) error
}

type redisInvalidator struct {
	log *logger.Logger
	rdb *goredis.Client
	bus redisclient.InvalidationBus
	ttl time.Duration
}

func NewInvalidator(log *logger.Logger, rdb *goredis.Client, bus redisclient.InvalidationBus) Invalidator {
	return &redisInvalidator{
		log: log.With("service", "CacheInvalidator"),
		rdb: rdb,
		bus: bus,
		ttl: 5 * time.Minute,
	}
}

func (ri *redisInvalidator) Invalidate(ctx context.Context, kind MutationKind, projectID, scenarioID uuid.UUID) error {
	keys := KeysFor(kind, projectID, scenarioID)
	if len(keys) == 0 {
		return nil
	}
	if err := ri.rdb.Del(ctx, keys...).Err(); err != nil {
		ri.log.Warn("cache key delete failed", "error", err, "kind", kind, "keys", keys)
		return err
	}
	msg := redisclient.InvalidationMessage{
		Kind:      string(kind),
		ProjectID: projectID.String(),
		Keys:      keys,
	}
	if scenarioID != uuid.Nil {
		msg.ScenarioID = scenarioID.String()
	}
	if err := ri.bus.Publish(ctx, msg); err != nil {
		// Fanout is best-effort; the keys are already gone locally.
		ri.log.Warn("invalidation publish failed", "error", err, "kind", kind)
	}
	return nil
}

func (ri *redisInvalidator) GetDriftCounts(ctx context.Context, projectID, scenarioID uuid.UUID) (*types.DriftCounts, error) {
	raw, err := ri.rdb.Get(ctx, DriftCountsKey(projectID, scenarioID)).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var counts types.DriftCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil, nil
	}
	return &counts, nil
}

func (ri *redisInvalidator) SetDriftCounts(ctx context.Context, projectID, scenarioID uuid.UUID, counts types.DriftCounts) error {
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return ri.rdb.Set(ctx, DriftCountsKey(projectID, scenarioID), raw, ri.ttl).Err()
}
