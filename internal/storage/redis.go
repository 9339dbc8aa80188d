package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/halloway/gumshoe/pkg/state"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on Redis.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store. A zero ttl keeps snapshots
// forever.
func NewRedisStore(addr string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
		ttl:    ttl,
	}
}

func snapshotKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("failed to close redis connection", "error", err)
		return err
	}
	r.logger.Info("redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStore) SaveSnapshot(ctx context.Context, id uuid.UUID, snap *state.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		r.logger.Error("failed to marshal snapshot", "id", id, "error", err)
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("failed to save snapshot", "id", id, "error", err)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadSnapshot(ctx context.Context, id uuid.UUID) (*state.Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("no saved snapshot", "id", id)
			return nil, nil
		}
		r.logger.Error("failed to load snapshot", "id", id, "error", err)
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap state.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		r.logger.Warn("failed to unmarshal snapshot, treating as absent", "id", id, "error", err)
		return nil, nil
	}

	migrated, err := state.Migrate(&snap)
	if err != nil {
		r.logger.Warn("snapshot migration failed, treating as absent", "id", id, "error", err)
		return nil, nil
	}
	return migrated, nil
}

func (r *RedisStore) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, snapshotKey(id)).Err(); err != nil {
		r.logger.Error("failed to delete snapshot", "id", id, "error", err)
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
