// internal/services/dashboard_cache.go
package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const dashboardKeyPrefix = "dashboard:"

// DashboardCache keeps computed dashboard snapshots in Redis.
// A nil *DashboardCache is valid and caches nothing.
// Redis errors are logged, never returned: the database stays the source of truth.
type DashboardCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewDashboardCache(rdb *redis.Client, ttl time.Duration) *DashboardCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &DashboardCache{redis: rdb, ttl: ttl}
}

func dashboardKey(ownerID uuid.UUID) string {
	return dashboardKeyPrefix + ownerID.String()
}

func (c *DashboardCache) Get(ctx context.Context, ownerID uuid.UUID) (*DashboardSnapshot, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.redis.Get(ctx, dashboardKey(ownerID)).Bytes()
	switch {
	case err == redis.Nil:
		return nil, false
	case err != nil:
		logrus.WithError(err).Error("can't get dashboard snapshot from redis")
		return nil, false
	}

	var snapshot DashboardSnapshot
	if err := json.Unmarshal(val, &snapshot); err != nil {
		logrus.WithError(err).Error("can't parse cached dashboard snapshot")
		return nil, false
	}
	return &snapshot, true
}

func (c *DashboardCache) Set(ctx context.Context, ownerID uuid.UUID, snapshot *DashboardSnapshot) {
	if c == nil {
		return
	}

	val, err := json.Marshal(snapshot)
	if err != nil {
		logrus.WithError(err).Error("can't encode dashboard snapshot")
		return
	}
	if err := c.redis.Set(ctx, dashboardKey(ownerID), val, c.ttlFor(snapshot)).Err(); err != nil {
		logrus.WithError(err).Error("can't set dashboard snapshot in redis")
	}
}

// ttlFor keeps a snapshot no later than the local midnight after it was
// computed, when the day and month buckets roll over.
func (c *DashboardCache) ttlFor(snapshot *DashboardSnapshot) time.Duration {
	at := snapshot.GeneratedAt
	midnight := time.Date(at.Year(), at.Month(), at.Day()+1, 0, 0, 0, 0, at.Location())
	if untilMidnight := midnight.Sub(at); untilMidnight < c.ttl {
		return untilMidnight
	}
	return c.ttl
}

// Invalidate drops the owner's snapshot after their items change.
func (c *DashboardCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.redis.Del(ctx, dashboardKey(ownerID)).Err(); err != nil {
		logrus.WithError(err).Error("can't invalidate dashboard snapshot")
	}
}

// InvalidateAll drops every snapshot; product type changes affect all users.
func (c *DashboardCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, dashboardKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Error("can't scan dashboard snapshots")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Error("can't invalidate dashboard snapshots")
	}
}
