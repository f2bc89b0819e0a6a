package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type DriverRedisConfig struct {
	Host   string
	Number int
	Pass   string
	Port   int
	User   string
	// Prefix namespaces every key, so several databases can share one
	// server without reading each other's cached counts.
	Prefix string
}

// NewDriverRedis works with anything speaking the redis protocol (valkey,
// dragonfly). Close releases the connection pool.
func NewDriverRedis(config DriverRedisConfig) (Driver, error) {
	return &driverRedis{
		client: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
			Username: config.User,
			Password: config.Pass,
			DB:       config.Number,
		}),
		prefix: config.Prefix,
	}, nil
}

type driverRedis struct {
	client *redis.Client
	prefix string
}

func (driver *driverRedis) key(key string) string {
	if driver.prefix == "" {
		return key
	}

	return driver.prefix + ":" + key
}

func (driver *driverRedis) Get(ctx context.Context, key string) (string, error) {
	result, err := driver.client.Get(ctx, driver.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}

	return result, err
}

func (driver *driverRedis) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	return driver.client.Set(ctx, driver.key(key), value, duration).Err()
}

func (driver *driverRedis) Delete(ctx context.Context, key string) error {
	return driver.client.Del(ctx, driver.key(key)).Err()
}

func (driver *driverRedis) Close() error {
	return driver.client.Close()
}
