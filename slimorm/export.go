package slimorm

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/lunagic/slimorm/slimormservices/storage"
)

// Export runs the query and writes every row to filePath as a JSON array.
// It returns the number of rows written.
func Export[T any](ctx context.Context, query *Builder[T], driver storage.Driver, filePath string) (int, error) {
	items, err := query.Get(ctx)
	if err != nil {
		return 0, err
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return 0, err
	}

	if err := driver.Put(ctx, filePath, bytes.NewReader(payload)); err != nil {
		return 0, err
	}

	return len(items), nil
}
