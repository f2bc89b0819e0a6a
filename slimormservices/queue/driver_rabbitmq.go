package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNotConfirmed = errors.New("message was not confirmed by the broker")

type DriverRabbitMQConfig struct {
	Host string
	Pass string
	Port int
	User string
}

// NewDriverRabbitMQ keeps change events across broker restarts: queues are
// durable, messages persistent, and Publish waits for the broker to confirm.
// A message is only acknowledged once its handler succeeds; a failing
// handler puts it back on the queue.
func NewDriverRabbitMQ(config DriverRabbitMQConfig) (Driver, error) {
	connection, err := amqp.Dial(fmt.Sprintf("amqp://%s:%s@%s:%d", config.User, config.Pass, config.Host, config.Port))
	if err != nil {
		return nil, err
	}

	channel, err := connection.Channel()
	if err != nil {
		return nil, errors.Join(err, connection.Close())
	}

	if err := channel.Confirm(false); err != nil {
		return nil, errors.Join(err, connection.Close())
	}

	if err := channel.Qos(1, 0, false); err != nil {
		return nil, errors.Join(err, connection.Close())
	}

	return &driverRabbitMQ{
		connection: connection,
		channel:    channel,
	}, nil
}

type driverRabbitMQ struct {
	connection *amqp.Connection
	channel    *amqp.Channel
}

func (driver *driverRabbitMQ) CreateQueue(ctx context.Context, queueName string) error {
	_, err := driver.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)

	return err
}

func (driver *driverRabbitMQ) Publish(ctx context.Context, queueName string, payload []byte) error {
	confirmation, err := driver.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		true,      // mandatory
		false,     // immediate
		amqp.Publishing{
			AppId:        "slimorm",
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         payload,
		},
	)
	if err != nil {
		return err
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return err
	}

	if !acked {
		return ErrNotConfirmed
	}

	return nil
}

func (driver *driverRabbitMQ) Consume(
	ctx context.Context,
	queueName string,
	handler func(ctx context.Context, payload []byte) error,
) error {
	consumerTag := uuid.NewString()

	deliveries, err := driver.channel.Consume(
		queueName,   // queue
		consumerTag, // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return err
	}
	defer func() {
		_ = driver.channel.Cancel(consumerTag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, open := <-deliveries:
			if !open {
				return nil
			}

			if err := handler(ctx, delivery.Body); err != nil {
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					return errors.Join(err, nackErr)
				}

				return err
			}

			if err := delivery.Ack(false); err != nil {
				return err
			}
		}
	}
}

func (driver *driverRabbitMQ) Close() error {
	return driver.connection.Close()
}
