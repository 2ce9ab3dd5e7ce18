// Package admins tracks the chat users who have chosen the admin role. They
// receive the scheduled expiry notices and purchase reminders.
package admins

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/config"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Key is the Redis set holding admin user IDs.
const Key = "barkeeper:admins"

// Registry is the set of active admins. Add is idempotent.
type Registry interface {
	Add(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]int64, error)
}

// NewRegistry returns a Redis-backed registry when Redis is enabled and
// reachable, and an in-memory one otherwise.
func NewRegistry(cfg *config.Config, logger *zap.Logger) Registry {
	if !cfg.RedisEnabled {
		logger.Info("Redis disabled, admin registry is in-memory")
		return NewInMemory()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     4,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MaxRetries:   3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Failed to connect to Redis, admin registry is in-memory",
			zap.String("addr", cfg.RedisAddr()),
			zap.Error(err),
		)
		rdb.Close()
		return NewInMemory()
	}

	logger.Info("Redis admin registry initialized",
		zap.String("addr", cfg.RedisAddr()),
		zap.Int("db", cfg.RedisDB),
	)
	return NewRedis(rdb, logger)
}

// InMemory keeps admins for the life of the process.
type InMemory struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{ids: make(map[int64]struct{})}
}

func (r *InMemory) Add(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ids[userID] = struct{}{}
	return nil
}

// List returns admin IDs in ascending order.
func (r *InMemory) List(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	sortIDs(out)
	return out, nil
}

// Redis persists admins in a Redis set so they survive restarts.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedis(client *redis.Client, logger *zap.Logger) *Redis {
	return &Redis{client: client, logger: logger}
}

func (r *Redis) Add(ctx context.Context, userID int64) error {
	if err := r.client.SAdd(ctx, Key, strconv.FormatInt(userID, 10)).Err(); err != nil {
		r.logger.Warn("Redis SADD error", zap.Int64("user_id", userID), zap.Error(err))
		return fmt.Errorf("redis sadd error: %w", err)
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, Key).Result()
	if err != nil {
		r.logger.Warn("Redis SMEMBERS error", zap.Error(err))
		return nil, fmt.Errorf("redis smembers error: %w", err)
	}

	out := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			r.logger.Warn("Skipping malformed admin id", zap.String("member", m))
			continue
		}
		out = append(out, id)
	}
	sortIDs(out)
	return out, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
