package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"

	"github.com/go-sql-driver/mysql"
)

func NewDriverMySQL(config DriverMySQLConfig) Driver {
	return &driverMySQL{
		config: config,
	}
}

type DriverMySQLConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverMySQL struct {
	config DriverMySQLConfig
}

func (driver *driverMySQL) Open() (*sql.DB, error) {
	_ = mysql.SetLogger(log.New(io.Discard, "", log.LstdFlags))

	return sql.Open(driver.driverName(), fmt.Sprintf(
		"%s:%s@(%s:%d)/%s?parseTime=true",
		driver.config.User,
		driver.config.Pass,
		driver.config.Host,
		driver.config.Port,
		driver.config.Name,
	))
}

func (driver *driverMySQL) driverName() string {
	return "mysql"
}

func (driver *driverMySQL) identifierQuote() string {
	return "`"
}

func (driver *driverMySQL) usesLastInsertId() bool {
	return true
}

func (driver *driverMySQL) usesNumberedParameters() bool {
	return false
}
