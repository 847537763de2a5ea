package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:"

type redisSlots struct {
	client *redis.Client
}

func NewRedisSlots(client *redis.Client) port.SlotStorage {
	return &redisSlots{client: client}
}

func (r *redisSlots) Get(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, ErrEmptyName
	}

	value, err := r.client.Get(ctx, redisKeyPrefix+name).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("client.Get: %w", err)
	}

	return value, true, nil
}

func (r *redisSlots) Set(ctx context.Context, name, value string) error {
	if name == "" {
		return ErrEmptyName
	}

	if err := r.client.Set(ctx, redisKeyPrefix+name, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}
