package slimorm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/lunagic/slimorm/slimormservices/cache"
	"github.com/lunagic/slimorm/slimormservices/database"
	"github.com/lunagic/slimorm/slimormservices/queue"
	"github.com/lunagic/slimorm/slimormservices/storage"
)

const driverNone = "none"

type Config struct {
	// Drivers
	DriverDatabase string `env:"SLIMORM_DRIVER_DATABASE"`
	DriverCache    string `env:"SLIMORM_DRIVER_CACHE"`
	DriverQueue    string `env:"SLIMORM_DRIVER_QUEUE"`
	DriverStorage  string `env:"SLIMORM_DRIVER_STORAGE"`
	// Features
	CountCacheTTL   time.Duration `env:"SLIMORM_COUNT_CACHE_TTL"`
	ChangeFeedQueue string        `env:"SLIMORM_CHANGE_FEED_QUEUE"`
	ExportDirectory string        `env:"SLIMORM_EXPORT_DIRECTORY"`
	// Services
	AmazonS3AccessKeyID     string `env:"AMAZON_S3_ACCESS_KEY_ID"`
	AmazonS3AccessKeySecret string `env:"AMAZON_S3_ACCESS_KEY_SECRET"`
	AmazonS3Bucket          string `env:"AMAZON_S3_BUCKET"`
	AmazonS3Endpoint        string `env:"AMAZON_S3_ENDPOINT"`
	AmazonS3Region          string `env:"AMAZON_S3_REGION"`
	MySQLHost               string `env:"MYSQL_HOST"`
	MySQLName               string `env:"MYSQL_NAME"`
	MySQLPass               string `env:"MYSQL_PASS"`
	MySQLPort               int    `env:"MYSQL_PORT"`
	MySQLUser               string `env:"MYSQL_USER"`
	PostgresHost            string `env:"POSTGRES_HOST"`
	PostgresName            string `env:"POSTGRES_NAME"`
	PostgresPass            string `env:"POSTGRES_PASS"`
	PostgresPort            int    `env:"POSTGRES_PORT"`
	PostgresUser            string `env:"POSTGRES_USER"`
	RabbitMQHost            string `env:"RABBITMQ_HOST"`
	RabbitMQPass            string `env:"RABBITMQ_PASS"`
	RabbitMQPort            int    `env:"RABBITMQ_PORT"`
	RabbitMQUser            string `env:"RABBITMQ_USER"`
	RedisHost               string `env:"REDIS_HOST"`
	RedisNumber             int    `env:"REDIS_NUMBER"`
	RedisPass               string `env:"REDIS_PASS"`
	RedisPort               int    `env:"REDIS_PORT"`
	RedisUser               string `env:"REDIS_USER"`
	SQLitePath              string `env:"SQLITE_PATH"`
}

func NewConfig() Config {
	return Config{
		DriverCache:     driverNone,
		DriverDatabase:  "sqlite",
		DriverQueue:     driverNone,
		DriverStorage:   "local",
		CountCacheTTL:   time.Minute,
		ChangeFeedQueue: "slimorm-changes",
		ExportDirectory: "exports",
		MySQLHost:       "127.0.0.1",
		MySQLPort:       3306,
		PostgresHost:    "127.0.0.1",
		PostgresPort:    5432,
		RabbitMQHost:    "127.0.0.1",
		RabbitMQPort:    5672,
		RedisHost:       "127.0.0.1",
		RedisPort:       6379,
		SQLitePath:      "database.sqlite",
	}
}

func (config Config) Database(configFuncs ...database.ServiceConfigFunc) (*database.Service, error) {
	switch config.DriverDatabase {
	case "sqlite":
		return database.New(
			database.NewDriverSQLite(config.SQLitePath),
			configFuncs...,
		)
	case "postgres":
		return database.New(
			database.NewDriverPostgres(database.DriverPostgresConfig{
				Host: config.PostgresHost,
				Port: config.PostgresPort,
				User: config.PostgresUser,
				Pass: config.PostgresPass,
				Name: config.PostgresName,
			}),
			configFuncs...,
		)
	case "mysql":
		return database.New(
			database.NewDriverMySQL(database.DriverMySQLConfig{
				Host: config.MySQLHost,
				Port: config.MySQLPort,
				User: config.MySQLUser,
				Pass: config.MySQLPass,
				Name: config.MySQLName,
			}),
			configFuncs...,
		)
	}

	return nil, fmt.Errorf("invalid database driver: %s", config.DriverDatabase)
}

// Cache returns a nil driver for "none".
func (config Config) Cache() (cache.Driver, error) {
	switch config.DriverCache {
	case driverNone:
		return nil, nil
	case "memory":
		return cache.NewDriverMemory()
	case "redis":
		return cache.NewDriverRedis(cache.DriverRedisConfig{
			Host:   config.RedisHost,
			Number: config.RedisNumber,
			Pass:   config.RedisPass,
			Port:   config.RedisPort,
			User:   config.RedisUser,
			Prefix: config.cachePrefix(),
		})
	}

	return nil, fmt.Errorf("invalid cache driver: %s", config.DriverCache)
}

// Queue returns a nil driver for "none".
func (config Config) Queue() (queue.Driver, error) {
	switch config.DriverQueue {
	case driverNone:
		return nil, nil
	case "memory":
		return queue.NewDriverMemory()
	case "rabbitmq":
		return queue.NewDriverRabbitMQ(queue.DriverRabbitMQConfig{
			Host: config.RabbitMQHost,
			Pass: config.RabbitMQPass,
			Port: config.RabbitMQPort,
			User: config.RabbitMQUser,
		})
	}

	return nil, fmt.Errorf("invalid queue driver: %s", config.DriverQueue)
}

func (config Config) Storage() (storage.Driver, error) {
	switch config.DriverStorage {
	case "local":
		return storage.NewDriverLocal(config.ExportDirectory)
	case "s3":
		return storage.NewDriverS3(storage.S3Config{
			Endpoint:        config.AmazonS3Endpoint,
			Region:          config.AmazonS3Region,
			Bucket:          config.AmazonS3Bucket,
			AccessKeyID:     config.AmazonS3AccessKeyID,
			AccessKeySecret: config.AmazonS3AccessKeySecret,
			Prefix:          config.ExportDirectory,
		})
	}

	return nil, fmt.Errorf("invalid storage driver: %s", config.DriverStorage)
}

// cachePrefix keeps count caches of different databases apart on a shared
// cache server.
func (config Config) cachePrefix() string {
	switch config.DriverDatabase {
	case "sqlite":
		return fmt.Sprintf("slimorm:sqlite:%s", config.SQLitePath)
	case "postgres":
		return fmt.Sprintf("slimorm:postgres:%s:%d:%s", config.PostgresHost, config.PostgresPort, config.PostgresName)
	case "mysql":
		return fmt.Sprintf("slimorm:mysql:%s:%d:%s", config.MySQLHost, config.MySQLPort, config.MySQLName)
	}

	return "slimorm:" + config.DriverDatabase
}

// Open connects the configured database and wires the count cache and the
// change feed when their drivers are set. configFuncs run last. DB.Close
// releases every connection Open made; on failure they are closed at once.
func (config Config) Open(ctx context.Context, configFuncs ...ConfigFunc) (_ *DB, err error) {
	opened := []io.Closer{}
	defer func() {
		if err == nil {
			return
		}

		for _, closer := range slices.Backward(opened) {
			err = errors.Join(err, closer.Close())
		}
	}()

	service, err := config.Database()
	if err != nil {
		return nil, err
	}
	opened = append(opened, service)

	options := []ConfigFunc{}

	cacheDriver, err := config.Cache()
	if err != nil {
		return nil, err
	}

	if cacheDriver != nil {
		if closer, ok := cacheDriver.(io.Closer); ok {
			opened = append(opened, closer)
		}

		options = append(options, WithCountCache(cacheDriver, config.CountCacheTTL))
	}

	queueDriver, err := config.Queue()
	if err != nil {
		return nil, err
	}

	if queueDriver != nil {
		if closer, ok := queueDriver.(io.Closer); ok {
			opened = append(opened, closer)
		}

		changes, queueErr := queue.NewQueue[ChangeEvent](ctx, queueDriver, config.ChangeFeedQueue)
		if queueErr != nil {
			return nil, queueErr
		}

		options = append(options, WithChangeFeed(changes))
	}

	options = append(options, withClosers(opened...))

	return New(service, append(options, configFuncs...)...)
}
