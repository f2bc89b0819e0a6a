package cache_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lunagic/slimorm/slimormservices/cache"
	"gotest.tools/v3/assert"
)

func testCase(t *testing.T, driver cache.Driver) {
	key := uuid.NewString()
	value := uuid.NewString()

	{ // Missing keys report not found
		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Set then get
		assert.NilError(t, driver.Set(t.Context(), key, value, time.Second*30))

		actualValue, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actualValue, value)
	}

	{ // Delete
		assert.NilError(t, driver.Delete(t.Context(), key))

		_, err := driver.Get(t.Context(), key)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Typed repository
		counts := cache.NewRepository[uint64, int64](driver, uuid.NewString())

		_, err := counts.Get(t.Context(), 42)
		assert.ErrorIs(t, err, cache.ErrNotFound)

		assert.NilError(t, counts.Set(t.Context(), 42, 41, time.Second*30))

		count, err := counts.Get(t.Context(), 42)
		assert.NilError(t, err)
		assert.Equal(t, count, int64(41))

		assert.NilError(t, counts.Delete(t.Context(), 42))
		_, err = counts.Get(t.Context(), 42)
		assert.ErrorIs(t, err, cache.ErrNotFound)
	}

	{ // Expiration
		key = uuid.NewString()
		value = uuid.NewString()

		assert.NilError(t, driver.Set(t.Context(), key, value, time.Second))

		actualValue, err := driver.Get(t.Context(), key)
		assert.NilError(t, err)
		assert.Equal(t, actualValue, value)

		time.Sleep(time.Second * 2)

		_, expiredCheckErr := driver.Get(t.Context(), key)
		assert.ErrorIs(t, expiredCheckErr, cache.ErrNotFound)
	}
}
