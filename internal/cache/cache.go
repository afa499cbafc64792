// Package cache keeps recently viewed games in Redis so shared links do not
// hit Postgres on every view.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/susu3304/pokerpal/internal/db"
)

const keyPrefix = "pokerpal:game:"

// GameCache is a read-through cache of saved games. Cache failures are
// logged and treated as misses.
type GameCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New connects to the Redis server at url, e.g. "redis://localhost:6379/0".
func New(url string, ttl time.Duration, logger zerolog.Logger) (*GameCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &GameCache{
		redis:  redis.NewClient(opts),
		ttl:    ttl,
		logger: logger.With().Str("component", "cache").Logger(),
	}, nil
}

func (c *GameCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

func (c *GameCache) Close() error {
	return c.redis.Close()
}

func (c *GameCache) Get(ctx context.Context, id uuid.UUID) (*db.Game, bool) {
	data, err := c.redis.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("game_id", id.String()).Msg("cache read failed")
		return nil, false
	}

	var g db.Game
	if err := json.Unmarshal(data, &g); err != nil {
		c.logger.Warn().Err(err).Str("game_id", id.String()).Msg("dropping undecodable cache entry")
		c.Delete(ctx, id)
		return nil, false
	}
	return &g, true
}

func (c *GameCache) Set(ctx context.Context, g *db.Game) {
	data, err := json.Marshal(g)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key(g.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("game_id", g.ID.String()).Msg("cache write failed")
	}
}

func (c *GameCache) Delete(ctx context.Context, id uuid.UUID) {
	if err := c.redis.Del(ctx, key(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Str("game_id", id.String()).Msg("cache invalidation failed")
	}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}
