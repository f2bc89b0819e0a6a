package queue_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/slimorm/slimormservices/queue"
	"gotest.tools/v3/assert"
)

type testMessage struct {
	Table string
	ID    int64
}

func testSuite(t *testing.T, driver queue.Driver) {
	messages, err := queue.NewQueue[testMessage](t.Context(), driver, uuid.NewString())
	assert.NilError(t, err)
	assert.Assert(t, messages.Enabled())

	expected := []testMessage{
		{Table: "users", ID: 1},
		{Table: "users", ID: 2},
	}

	for _, message := range expected {
		assert.NilError(t, messages.Publish(t.Context(), message))
	}

	errDone := errors.New(uuid.NewString())
	received := []testMessage{}

	consumeErr := messages.Consume(
		t.Context(),
		func(ctx context.Context, payload testMessage) error {
			received = append(received, payload)
			if len(received) == len(expected) {
				return errDone
			}

			return nil
		},
	)
	assert.Equal(t, consumeErr, errDone)
	assert.DeepEqual(t, received, expected)
}
