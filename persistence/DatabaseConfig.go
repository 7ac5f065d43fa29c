package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverSqlite = "sqlite"
	DriverMysql  = "mysql"

	DefaultSqliteFile = "smartmethods.db"
)

type DatabaseConfig struct {
	DriverType string `toml:"driverType" yaml:"driverType"`
	DriverArgs string `toml:"driverArgs" yaml:"driverArgs"`
}

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// ParseDatabaseConfigFromEnv reads DB_DRIVER_TYPE and DB_DRIVER_ARGS, empty values fall back to base.
func ParseDatabaseConfigFromEnv(base *DatabaseConfig) (*DatabaseConfig, error) {
	c := DatabaseConfig{}
	if base != nil {
		c = *base
	}
	if v := strings.TrimSpace(os.Getenv("DB_DRIVER_TYPE")); v != "" {
		c.DriverType = v
	}
	if v := strings.TrimSpace(os.Getenv("DB_DRIVER_ARGS")); v != "" {
		c.DriverArgs = v
	}
	if c.DriverType == "" {
		c.DriverType = DriverSqlite
	}
	if c.DriverType == "sqlite3" {
		c.DriverType = DriverSqlite
	}
	if c.DriverType != DriverSqlite && c.DriverType != DriverMysql {
		return nil, ErrUnsupportedDriver
	}
	if c.DriverArgs == "" {
		if c.DriverType == DriverMysql {
			return nil, errors.New("DB_DRIVER_ARGS is required for mysql")
		}
		c.DriverArgs = DefaultSqliteFile
	}
	return &c, nil
}

// PrepareMysqlDatabase creates the database named in driverArgs if it does not exist.
func PrepareMysqlDatabase(driverArgs string) error {
	cfg, err := mysql.ParseDSN(driverArgs)
	if err != nil {
		return err
	}
	databaseName := cfg.DBName
	if databaseName == "" {
		return errors.New("database name is missing in '" + driverArgs + "'")
	}
	cfg.DBName = ""

	db, err := sql.Open(DriverMysql, cfg.FormatDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + databaseName + "` DEFAULT CHARACTER SET utf8mb4")
	return err
}
