package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedPayload = errors.New("malformed queue payload")

// Driver moves raw payloads. Drivers holding a connection also implement
// io.Closer.
type Driver interface {
	CreateQueue(ctx context.Context, queueName string) error
	Publish(ctx context.Context, queueName string, payload []byte) error
	Consume(ctx context.Context, queueName string, handler func(ctx context.Context, payload []byte) error) error
}

// NewQueue declares the queue on the driver and returns a typed handle that
// JSON encodes its messages.
func NewQueue[T any](ctx context.Context, driver Driver, name string) (Queue[T], error) {
	if driver == nil {
		return Queue[T]{}, errors.New("queue driver is nil")
	}

	if name == "" {
		return Queue[T]{}, errors.New("queue name is required")
	}

	if err := driver.CreateQueue(ctx, name); err != nil {
		return Queue[T]{}, fmt.Errorf("create queue %s: %w", name, err)
	}

	return Queue[T]{
		driver: driver,
		name:   name,
	}, nil
}

type Queue[T any] struct {
	driver Driver
	name   string
}

func (q Queue[T]) Name() string {
	return q.name
}

// Enabled reports whether the queue was built by NewQueue.
func (q Queue[T]) Enabled() bool {
	return q.driver != nil
}

func (q Queue[T]) Publish(ctx context.Context, message T) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	if err := q.driver.Publish(ctx, q.name, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", q.name, err)
	}

	return nil
}

// Consume blocks, handing every message to handler until handler fails or
// the driver stops delivering. A payload that does not decode into T stops
// consumption with ErrMalformedPayload.
func (q Queue[T]) Consume(ctx context.Context, handler Handler[T]) error {
	return q.driver.Consume(ctx, q.name, func(ctx context.Context, payload []byte) error {
		var target T
		if err := json.Unmarshal(payload, &target); err != nil {
			return fmt.Errorf("%w on %s: %w", ErrMalformedPayload, q.name, err)
		}

		return handler(ctx, target)
	})
}

type Handler[T any] func(ctx context.Context, payload T) error
