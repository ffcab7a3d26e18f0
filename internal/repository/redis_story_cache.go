package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"relic-server/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ StoryRepository = (*redisStoryCache)(nil)

// redisStoryCache is a read-through cache in front of a StoryRepository.
// Story content is immutable at runtime, so cached records only ever expire,
// never invalidate.
type redisStoryCache struct {
	inner  StoryRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStoryCache wraps inner with a per-story Redis cache. Cache
// failures degrade to the inner repository and are logged, never surfaced.
func NewRedisStoryCache(inner StoryRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) StoryRepository {
	return &redisStoryCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisStoryCache"),
	}
}

func storyCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("story:%s", id)
}

func (c *redisStoryCache) GetByID(ctx context.Context, id uuid.UUID) (*models.StoryRecord, error) {
	key := storyCacheKey(id)
	log := c.logger.With(zap.String("storyID", id.String()))

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var rec models.StoryRecord
		if unmarshalErr := json.Unmarshal(data, &rec); unmarshalErr == nil {
			log.Debug("Story cache hit")
			return &rec, nil
		}
		// Corrupted cache entry: drop it and fall through to the source.
		log.Warn("Dropping corrupted story cache entry")
		c.client.Del(ctx, key)
	} else if err != redis.Nil {
		log.Warn("Story cache read failed, falling back to repository", zap.Error(err))
	}

	rec, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(rec); marshalErr == nil {
		if setErr := c.client.Set(ctx, key, data, c.ttl).Err(); setErr != nil {
			log.Warn("Failed to populate story cache", zap.Error(setErr))
		}
	}
	return rec, nil
}

// List is served straight from the source; only single-story reads are hot
// enough to cache.
func (c *redisStoryCache) List(ctx context.Context, limit, offset int) ([]*models.StoryRecord, error) {
	return c.inner.List(ctx, limit, offset)
}

func (c *redisStoryCache) ListByArtifact(ctx context.Context, artifactID string) ([]*models.StoryRecord, error) {
	return c.inner.ListByArtifact(ctx, artifactID)
}

func (c *redisStoryCache) Create(ctx context.Context, rec *models.StoryRecord) error {
	if err := c.inner.Create(ctx, rec); err != nil {
		return err
	}
	// Warm the cache so the freshly authored story is immediately playable.
	if data, err := json.Marshal(rec); err == nil {
		if setErr := c.client.Set(ctx, storyCacheKey(rec.ID), data, c.ttl).Err(); setErr != nil {
			c.logger.Warn("Failed to warm story cache after create",
				zap.String("storyID", rec.ID.String()), zap.Error(setErr))
		}
	}
	return nil
}
