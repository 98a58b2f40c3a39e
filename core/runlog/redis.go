package runlog

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the list holding serialized records.
const DefaultRedisKey = "fleetalloc:runs"

// RedisStore appends records to a Redis list.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore parses url (redis://host:port/db) and verifies connectivity.
func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}, nil
}

func (s *RedisStore) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, s.key, b).Err()
}

func (s *RedisStore) Query(ctx context.Context, q Query) ([]Record, error) {
	vals, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	res := []Record{}
	for _, v := range vals {
		var r Record
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			continue
		}
		if q.Match(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
