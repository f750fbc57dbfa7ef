package sqlstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

type dialect struct {
	driver string
	schema []string
}

var sqliteDialect = dialect{
	driver: DriverSQLite,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS todo_items (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL,
			to_do TEXT NOT NULL,
			to_do_description TEXT NOT NULL DEFAULT '',
			is_completed BOOLEAN NOT NULL DEFAULT 0,
			date TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_todo_items_date ON todo_items(date)`,
	},
}

var mysqlDialect = dialect{
	driver: DriverMySQL,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS todo_items (
			id INT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			to_do TEXT NOT NULL,
			to_do_description TEXT NOT NULL,
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			date DATETIME(6) NOT NULL,
			INDEX idx_todo_items_date (date)
		)`,
	},
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "", DriverSQLite:
		return sqliteDialect, nil
	case DriverMySQL:
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported store driver: %s", driver)
	}
}

// sqliteDSN builds the data source name for a database file, creating its directory.
func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("sqlite: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("create db directory: %w", err)
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path), nil
}

// mysqlDSN forces the options the store relies on: parsed UTC timestamps.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql: invalid dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
