package sqldoc

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect captures the SQL differences between the supported drivers.
type Dialect struct {
	Name       string
	DriverName string

	// Placeholder returns the bind parameter for the n-th (1-based) argument.
	Placeholder func(n int) string

	dataType string
	upsertFn func(table string) string
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		DriverName:  "sqlite3",
		Placeholder: questionMark,
		dataType:    "TEXT",
		upsertFn: func(table string) string {
			return fmt.Sprintf("INSERT INTO %s (id, data) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data", table)
		},
	}

	MySQL = Dialect{
		Name:        "mysql",
		DriverName:  "mysql",
		Placeholder: questionMark,
		dataType:    "LONGTEXT",
		upsertFn: func(table string) string {
			return fmt.Sprintf("INSERT INTO %s (id, data) VALUES (?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data)", table)
		},
	}

	Postgres = Dialect{
		Name:        "postgres",
		DriverName:  "pgx",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		dataType:    "TEXT",
		upsertFn: func(table string) string {
			return fmt.Sprintf("INSERT INTO %s (id, data) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data", table)
		},
	}
)

// DialectFor resolves a configured driver name, accepting common aliases.
func DialectFor(driver string) (Dialect, bool) {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite, true
	case "mysql":
		return MySQL, true
	case "postgres", "postgresql", "pgx":
		return Postgres, true
	default:
		return Dialect{}, false
	}
}

func (d Dialect) createTable(table string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (id VARCHAR(64) PRIMARY KEY, data %s NOT NULL)", table, d.dataType)
}

func (d Dialect) upsert(table string) string {
	return d.upsertFn(table)
}

func questionMark(int) string { return "?" }
