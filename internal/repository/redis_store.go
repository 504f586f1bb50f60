package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"edutech_backend/internal/model"
	"edutech_backend/internal/util"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the snapshot under one key with no expiry. SET/GET of
// the whole record is the exact key-value contract the adapter promises.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (*model.User, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, util.ErrSnapshotNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrSnapshotCorrupt, err)
	}
	return &user, nil
}

func (s *RedisStore) Save(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrSnapshotWrite, err)
	}
	if err := s.rdb.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", util.ErrSnapshotWrite, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key).Err()
}
