package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/slimorm/slimormservices/storage"
	"gotest.tools/v3/assert"
)

func testSuite(t *testing.T, driver storage.Driver) {
	fileName := "exports/" + uuid.NewString() + ".json"
	fileContents := `[{"id":1}]`

	assert.NilError(t, driver.IsReady(t.Context()))

	{ // File does not exist yet
		found, err := driver.Exists(t.Context(), fileName)
		assert.NilError(t, err)
		assert.Assert(t, !found, "file found before putting it: %s", fileName)
	}

	{ // Put the file
		assert.NilError(t, driver.Put(t.Context(), fileName, strings.NewReader(fileContents)))
		t.Cleanup(func() {
			_ = driver.Delete(context.Background(), fileName)
		})

		found, err := driver.Exists(t.Context(), fileName)
		assert.NilError(t, err)
		assert.Assert(t, found)
	}

	{ // Read it back
		reader, err := driver.Get(t.Context(), fileName)
		assert.NilError(t, err)

		actualContents, err := io.ReadAll(reader)
		assert.NilError(t, err)
		assert.Equal(t, string(actualContents), fileContents)
	}

	{ // Delete, twice
		assert.NilError(t, driver.Delete(t.Context(), fileName))
		assert.NilError(t, driver.Delete(t.Context(), fileName))

		found, err := driver.Exists(t.Context(), fileName)
		assert.NilError(t, err)
		assert.Assert(t, !found)
	}
}
