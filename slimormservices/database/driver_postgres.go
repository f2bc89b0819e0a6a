package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func NewDriverPostgres(config DriverPostgresConfig) Driver {
	return &driverPostgres{
		config: config,
	}
}

type DriverPostgresConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverPostgres struct {
	config DriverPostgresConfig
}

func (driver *driverPostgres) Open() (*sql.DB, error) {
	return sql.Open(
		driver.driverName(),
		fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			driver.config.Host,
			driver.config.Port,
			driver.config.User,
			driver.config.Pass,
			driver.config.Name,
		),
	)
}

func (driver *driverPostgres) driverName() string {
	return "postgres"
}

func (driver *driverPostgres) identifierQuote() string {
	return `"`
}

// Postgres has no last insert id; inserts use RETURNING instead.
func (driver *driverPostgres) usesLastInsertId() bool {
	return false
}

func (driver *driverPostgres) usesNumberedParameters() bool {
	return true
}
