package slimormtest

import (
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/slimorm/slimormservices/cache"
	"github.com/lunagic/slimorm/slimormservices/queue"
)

// NewRabbitMQDriver starts a rabbitmq container and returns a connected
// driver, closed when the test ends.
func NewRabbitMQDriver(t *testing.T) queue.Driver {
	t.Helper()

	user := uuid.NewString()
	pass := uuid.NewString()

	driver := GetDockerService(t, DockerServiceConfig[queue.Driver]{
		DockerImage:    "rabbitmq",
		DockerImageTag: "3",
		InternalPort:   5672,
		Environment: map[string]string{
			"RABBITMQ_DEFAULT_USER": user,
			"RABBITMQ_DEFAULT_PASS": pass,
		},
		Builder: func(host string, port int) (queue.Driver, error) {
			return queue.NewDriverRabbitMQ(queue.DriverRabbitMQConfig{
				Host: host,
				Port: port,
				User: user,
				Pass: pass,
			})
		},
	})

	t.Cleanup(func() {
		closeDriver(driver)
	})

	return driver
}

// NewRedisConfig starts a redis like container and returns the settings
// to reach it.
func NewRedisConfig(t *testing.T, image string, tag string) cache.DriverRedisConfig {
	t.Helper()

	return GetDockerService(t, DockerServiceConfig[cache.DriverRedisConfig]{
		DockerImage:    image,
		DockerImageTag: tag,
		InternalPort:   6379,
		Environment:    map[string]string{},
		Builder: func(host string, port int) (cache.DriverRedisConfig, error) {
			config := cache.DriverRedisConfig{
				Host: host,
				Port: port,
			}

			driver, err := cache.NewDriverRedis(config)
			if err != nil {
				return config, err
			}
			defer closeDriver(driver)

			// Only ready once a round trip succeeds
			if _, err := driver.Get(t.Context(), "slimorm-ready"); err != nil && !errors.Is(err, cache.ErrNotFound) {
				return config, err
			}

			return config, nil
		},
	})
}

// NewRedisDriver connects to config and closes the driver when the test
// ends.
func NewRedisDriver(t *testing.T, config cache.DriverRedisConfig) cache.Driver {
	t.Helper()

	driver, err := cache.NewDriverRedis(config)
	if err != nil {
		t.Fatalf("Could not create redis driver: %s", err)
	}

	t.Cleanup(func() {
		closeDriver(driver)
	})

	return driver
}

func closeDriver(driver any) {
	if closer, ok := driver.(io.Closer); ok {
		_ = closer.Close()
	}
}
