package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisPreferenceStore keeps preferences in redis without expiry
type RedisPreferenceStore struct {
	client *redis.Client
}

func NewRedisPreferenceStore(client *redis.Client) *RedisPreferenceStore {
	return &RedisPreferenceStore{client: client}
}

func (s *RedisPreferenceStore) GetPhotoPath(ctx context.Context, userID string) (string, error) {
	path, err := s.client.Get(ctx, photoPathKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return path, nil
}

func (s *RedisPreferenceStore) SetPhotoPath(ctx context.Context, userID, path string) error {
	if err := s.client.Set(ctx, photoPathKey(userID), path, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisPreferenceStore) ClearPhotoPath(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, photoPathKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func photoPathKey(userID string) string {
	return fmt.Sprintf("profile:%s:photo_path", userID)
}
