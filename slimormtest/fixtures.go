package slimormtest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lunagic/slimorm/slimorm"
	"github.com/lunagic/slimorm/slimormservices/database"
	"gotest.tools/v3/assert"
)

const createUsersTable = `CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	age INTEGER
)`

// NewUsersService opens a fresh sqlite file holding an empty users table.
func NewUsersService(t *testing.T, configFuncs ...database.ServiceConfigFunc) *database.Service {
	t.Helper()

	service, err := database.New(
		database.NewDriverSQLite(filepath.Join(t.TempDir(), "slimorm.sqlite")),
		configFuncs...,
	)
	assert.NilError(t, err)

	t.Cleanup(func() {
		_ = service.Close()
	})

	_, err = service.Execute(t.Context(), createUsersTable, nil)
	assert.NilError(t, err)

	return service
}

// NewUsersDB is NewUsersService behind a DB.
func NewUsersDB(t *testing.T, configFuncs ...slimorm.ConfigFunc) (*slimorm.DB, *database.Service) {
	t.Helper()

	service := NewUsersService(t)

	db, err := slimorm.New(service, configFuncs...)
	assert.NilError(t, err)

	return db, service
}

// CreateUsers inserts users 1 through count, named "Test <n>" and aged
// n*10, and returns them as the rows sqlite hands back.
func CreateUsers(t *testing.T, service *database.Service, count int) []slimorm.Row {
	t.Helper()

	users := make([]slimorm.Row, 0, count)
	for i := 1; i <= count; i++ {
		user := slimorm.Row{
			"id":   int64(i),
			"name": fmt.Sprintf("Test %d", i),
			"age":  int64(i * 10),
		}

		_, err := service.Execute(
			t.Context(),
			"INSERT INTO users (id, name, age) VALUES (:id, :name, :age)",
			user,
		)
		assert.NilError(t, err)

		users = append(users, user)
	}

	return users
}
