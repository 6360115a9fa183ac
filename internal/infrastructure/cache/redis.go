package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/video-chat/internal/domain/entities"
	"github.com/johnquangdev/video-chat/pkg/config"
)

const sessionKeyPrefix = "chat:session:"

// RedisSessionStore keeps session histories in Redis lists, one list per
// session. RPUSH preserves append order so histories survive restarts
// without reordering.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to Redis and verifies the connection.
func NewRedisSessionStore(cfg *config.Config) (*RedisSessionStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSessionStore{client: client}, nil
}

// Close releases the underlying connection pool.
func (rs *RedisSessionStore) Close() error {
	return rs.client.Close()
}

// Append adds turns to the session's list.
func (rs *RedisSessionStore) Append(ctx context.Context, sessionID string, turns ...entities.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("failed to encode turn: %w", err)
		}
		values = append(values, b)
	}
	if err := rs.client.RPush(ctx, sessionKeyPrefix+sessionID, values...).Err(); err != nil {
		return fmt.Errorf("failed to append session turns: %w", err)
	}
	return nil
}

// History returns the session's turns in append order.
func (rs *RedisSessionStore) History(ctx context.Context, sessionID string) ([]entities.Turn, error) {
	raw, err := rs.client.LRange(ctx, sessionKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session history: %w", err)
	}
	turns := make([]entities.Turn, 0, len(raw))
	for _, item := range raw {
		var turn entities.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear removes the session's list.
func (rs *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := rs.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
