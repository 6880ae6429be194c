package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chaitanyahoon/fuel-n-fix/internal/common/config"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/domain/provider"
	"github.com/Chaitanyahoon/fuel-n-fix/internal/ports"
)

// samples older than this are treated as stale and dropped on read
const locationTTL = 2 * time.Minute

// LocationCache keeps the latest reported position per driver in Redis so the
// tracking hot path never touches Postgres.
type LocationCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewLocationCache connects to Redis and verifies connectivity.
func NewLocationCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*LocationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &LocationCache{
		client: client,
		prefix: "fuelnfix:loc:",
		logger: logger.With("component", "location_cache"),
	}, nil
}

var _ ports.LocationCache = (*LocationCache)(nil)

func (c *LocationCache) Close() error {
	return c.client.Close()
}

func (c *LocationCache) key(driverID string) string {
	return c.prefix + driverID
}

// SetCurrent stores the driver's latest position with a freshness TTL.
func (c *LocationCache) SetCurrent(ctx context.Context, driverID string, loc provider.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	start := time.Now()
	if err := c.client.Set(ctx, c.key(driverID), data, locationTTL).Err(); err != nil {
		c.logger.Error("cache set failed", "driver_id", driverID, "error", err)
		return err
	}
	c.logger.Debug("cache set", "driver_id", driverID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// GetCurrent returns the driver's latest position, or nil on a miss.
func (c *LocationCache) GetCurrent(ctx context.Context, driverID string) (*provider.Location, error) {
	data, err := c.client.Get(ctx, c.key(driverID)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("cache miss", "driver_id", driverID)
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache get failed", "driver_id", driverID, "error", err)
		return nil, err
	}

	var loc provider.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &loc, nil
}
