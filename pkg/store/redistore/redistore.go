// Package redistore backs the entity store contract with Redis. Rows are
// JSON under their byte identifier; markers use SETNX, which is exactly the
// create-once semantic the activity tracker needs.
package redistore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/defimetrics-io/defimetrics/pkg/schema"
	"github.com/defimetrics-io/defimetrics/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Store struct {
	client *redis.Client
	logger *zap.Logger
	prefix string
}

// New creates a Redis-backed store using environment variables for
// configuration:
//   - REDIS_HOST: Redis host (default: "localhost")
//   - REDIS_PORT: Redis port (default: "6379")
//   - REDIS_PASSWORD: Redis password (default: "")
//   - REDIS_DB: Redis database number (default: "0")
//   - REDIS_KEY_PREFIX: namespace prepended to every key (default: "metrics")
func New(ctx context.Context, logger *zap.Logger) (*Store, error) {
	host := utils.Env("REDIS_HOST", "localhost")
	port := utils.Env("REDIS_PORT", "6379")
	password := utils.Env("REDIS_PASSWORD", "")
	db := utils.EnvInt("REDIS_DB", 0)
	prefix := utils.Env("REDIS_KEY_PREFIX", "metrics")

	addr := fmt.Sprintf("%s:%s", host, port)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		// Connection pool
		PoolSize:     10,
		MinIdleConns: 2,

		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis",
		zap.String("addr", addr),
		zap.Int("db", db),
		zap.String("prefix", prefix))

	return &Store{client: rdb, logger: logger, prefix: prefix}, nil
}

func (s *Store) key(id schema.ID) string {
	return s.prefix + ":" + string(id)
}

func (s *Store) Load(ctx context.Context, id schema.ID, dst any) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load row %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode row %s: %w", id, err)
	}
	return true, nil
}

func (s *Store) Save(ctx context.Context, id schema.ID, entity any) error {
	raw, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("encode row %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.key(id), raw, 0).Err(); err != nil {
		return fmt.Errorf("save row %s: %w", id, err)
	}
	return nil
}

func (s *Store) CreateMarker(ctx context.Context, id schema.ID) (bool, error) {
	created, err := s.client.SetNX(ctx, s.key(id), 1, 0).Result()
	if err != nil {
		return false, fmt.Errorf("create marker %s: %w", id, err)
	}
	return created, nil
}

// Close terminates the underlying Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
