package database_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lunagic/slimorm/slimormservices/database"
	"gotest.tools/v3/assert"
)

// testSuite runs the engine contract against a live driver. primaryKeyType
// is the dialect's auto incrementing primary key definition.
func testSuite(t *testing.T, driver database.Driver, primaryKeyType string) {
	logOutput := &bytes.Buffer{}

	service, err := database.New(
		driver,
		database.WithLogger(slog.New(slog.NewTextHandler(logOutput, nil))),
	)
	assert.NilError(t, err)
	assert.NilError(t, service.Ping())

	quote := service.IdentifierQuote()
	table := quote + "users_" + strings.ReplaceAll(uuid.NewString(), "-", "") + quote

	{ // Create the table
		_, err := service.Execute(
			t.Context(),
			fmt.Sprintf(
				"CREATE TABLE %s (%sid%s %s, %sname%s VARCHAR(255), %sage%s INTEGER)",
				table,
				quote, quote, primaryKeyType,
				quote, quote,
				quote, quote,
			),
			nil,
		)
		assert.NilError(t, err)
	}

	var firstID int64
	{ // Insert
		firstID, err = service.Insert(
			t.Context(),
			fmt.Sprintf("INSERT INTO %s (%sname%s, %sage%s) VALUES (:name, :age)", table, quote, quote, quote, quote),
			map[string]any{"name": "Test 1", "age": 30},
			"id",
		)
		assert.NilError(t, err)
		assert.Assert(t, firstID > 0)

		secondID, err := service.Insert(
			t.Context(),
			fmt.Sprintf("INSERT INTO %s (%sname%s, %sage%s) VALUES (:name, :age)", table, quote, quote, quote, quote),
			map[string]any{"name": "Test 2", "age": 40},
			"id",
		)
		assert.NilError(t, err)
		assert.Equal(t, secondID, firstID+1)
	}

	{ // Select with named parameters
		rows, err := service.Select(
			t.Context(),
			fmt.Sprintf("SELECT %sname%s FROM %s WHERE %sid%s = :1_sql_data", quote, quote, table, quote, quote),
			map[string]any{"1_sql_data": firstID},
		)
		assert.NilError(t, err)
		assert.Equal(t, len(rows), 1)
		assert.Equal(t, rows[0]["name"], "Test 1")
	}

	{ // Select with an expanded list
		rows, err := service.Select(
			t.Context(),
			fmt.Sprintf("SELECT %sid%s FROM %s WHERE %sage%s IN (:ages)", quote, quote, table, quote, quote),
			map[string]any{"ages": []int{30, 40, 50}},
		)
		assert.NilError(t, err)
		assert.Equal(t, len(rows), 2)
	}

	{ // Execute
		result, err := service.Execute(
			t.Context(),
			fmt.Sprintf("UPDATE %s SET %sage%s = :age", table, quote, quote),
			map[string]any{"age": 99},
		)
		assert.NilError(t, err)

		affected, err := result.RowsAffected()
		assert.NilError(t, err)
		assert.Equal(t, affected, int64(2))
	}

	{ // Empty result
		rows, err := service.Select(
			t.Context(),
			fmt.Sprintf("SELECT * FROM %s WHERE %sage%s < :age", table, quote, quote),
			map[string]any{"age": 0},
		)
		assert.NilError(t, err)
		assert.Equal(t, len(rows), 0)
	}

	{ // Errors from the database are returned
		_, err := service.Select(t.Context(), "SELECT * FROM "+quote+"does_not_exist"+quote, nil)
		assert.Assert(t, err != nil)
	}

	{ // Blank statements are rejected
		_, err := service.Execute(t.Context(), "   ", nil)
		assert.ErrorIs(t, err, database.ErrBlankQuery)
	}

	{ // Statements were logged
		assert.Assert(t, strings.Contains(logOutput.String(), "Database Run"))
	}
}
