package database

import (
	"database/sql"
	"errors"
)

var (
	ErrBlankQuery = errors.New("blank query")
)

// Driver describes how to reach one SQL dialect.
type Driver interface {
	Open() (*sql.DB, error)
	driverName() string
	identifierQuote() string
	usesLastInsertId() bool
	usesNumberedParameters() bool
}

// NewDriverFromDB reuses an already opened connection, speaking the dialect
// of the given driver.
func NewDriverFromDB(db *sql.DB, dialect Driver) Driver {
	return &driverFromDB{
		Driver: dialect,
		db:     db,
	}
}

type driverFromDB struct {
	Driver
	db *sql.DB
}

func (driver *driverFromDB) Open() (*sql.DB, error) {
	return driver.db, nil
}
