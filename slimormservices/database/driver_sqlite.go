package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func NewDriverSQLite(path string) Driver {
	return &driverSQLite{
		Path: path,
	}
}

type driverSQLite struct {
	Path string
}

func (driver *driverSQLite) Open() (*sql.DB, error) {
	return sql.Open(
		driver.driverName(),
		fmt.Sprintf("file:%s?cache=shared&_foreign_keys=on", driver.Path),
	)
}

func (driver *driverSQLite) driverName() string {
	return "sqlite3"
}

func (driver *driverSQLite) identifierQuote() string {
	return "`"
}

func (driver *driverSQLite) usesLastInsertId() bool {
	return true
}

func (driver *driverSQLite) usesNumberedParameters() bool {
	return false
}
