package blobstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/types"
)

const (
	redisBackend = "blob/redis"

	// DefaultRedisPrefix namespaces cover records
	DefaultRedisPrefix = "tablo:cover:"
)

// RedisStore keeps each cover in a hash {taskId, data} at <prefix><taskId>.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a store on client. Close closes the client.
func NewRedis(client *redis.Client, prefix string) *RedisStore {
	if client == nil {
		panic("blobstore.NewRedis: client is nil")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(taskID types.TaskID) string {
	return s.prefix + string(taskID)
}

func (s *RedisStore) Put(ctx context.Context, taskID types.TaskID, cover *models.CoverPayload) error {
	key := s.key(taskID)

	if cover == nil {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return models.WriteError(redisBackend, taskID, err)
		}
		return nil
	}

	uri, err := EncodeDataURI(cover)
	if err != nil {
		return err
	}

	// MULTI/EXEC so readers never observe a half written record
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "taskId", string(taskID), "data", uri)
		return nil
	})
	if err != nil {
		return models.WriteError(redisBackend, taskID, err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, taskID types.TaskID) (string, bool, error) {
	data, err := s.client.HGet(ctx, s.key(taskID), "data").Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, models.ReadError(redisBackend, taskID, err)
	}
	return data, true, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Compile-time verification that *RedisStore implements Store
var _ Store = (*RedisStore)(nil)
