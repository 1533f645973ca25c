package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

const (
	DataWeekKey        = "tsapi:data_week:current"
	defaultDataWeekTTL = 5 * time.Minute
)

// DataWeekCache fronts the release log with a Redis copy of the current week.
// A nil client disables Redis; concurrent misses still collapse into one
// database read.
type DataWeekCache struct {
	client *redis.Client
	source tier.ReleaseRepository
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Interface
}

var _ tier.ReleaseRepository = (*DataWeekCache)(nil)

func NewDataWeekCache(client *redis.Client, source tier.ReleaseRepository, ttl time.Duration, logger logger.Interface) *DataWeekCache {
	if ttl <= 0 {
		ttl = defaultDataWeekTTL
	}
	return &DataWeekCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// CurrentWeek reads Redis first and falls through to the database on a miss
// or when Redis is unreachable.
func (c *DataWeekCache) CurrentWeek(ctx context.Context) (int, error) {
	if c.client != nil {
		week, err := c.client.Get(ctx, DataWeekKey).Int()
		if err == nil {
			return week, nil
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("data week cache read failed, using database", "error", err)
		}
	}

	v, err, _ := c.group.Do(DataWeekKey, func() (interface{}, error) {
		week, err := c.source.CurrentWeek(ctx)
		if err != nil {
			return 0, err
		}
		if c.client != nil {
			if err := c.client.Set(ctx, DataWeekKey, week, c.ttl).Err(); err != nil {
				c.logger.Warnw("failed to cache data week", "week", week, "error", err)
			}
		}
		return week, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// Record writes the release and drops the cached week so the next read sees it.
func (c *DataWeekCache) Record(ctx context.Context, weekID, seasonID int, releasedAt time.Time) error {
	if err := c.source.Record(ctx, weekID, seasonID, releasedAt); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

func (c *DataWeekCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, DataWeekKey).Err(); err != nil {
		c.logger.Warnw("failed to invalidate data week cache", "error", err)
	}
}
