// Package storage persists projects in a SQL database or MongoDB. Both
// stores implement domain.ProjectGateway so the editor can run against a
// local database instead of the remote API.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// DB wraps a SQL connection together with the dialect it speaks.
type DB struct {
	conn   *sql.DB
	driver Driver
}

// Open connects to dsn and applies migrations. For sqlite, dsn is a file
// path; its directory is created and WAL mode is enabled.
func Open(driver Driver, dsn string) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch driver {
	case DriverSQLite:
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
		conn, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite only supports one writer
		conn.SetMaxOpenConns(1)
	case DriverMySQL:
		if dsn, err = mysqlParseTime(dsn); err != nil {
			return nil, err
		}
		conn, err = sql.Open(string(driver), dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driver, err)
		}
	case DriverPostgres:
		conn, err = sql.Open(string(driver), dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driver, err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// sqliteDSN appends the modernc pragmas for WAL and a busy timeout.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// mysqlParseTime forces parseTime so created_at scans into time.Time.
func mysqlParseTime(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (db *DB) Conn() *sql.DB { return db.conn }

func (db *DB) Driver() Driver { return db.driver }

// rebind rewrites ? placeholders to $n for postgres.
func (db *DB) rebind(q string) string {
	if db.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type dialect struct {
	text      string
	timestamp string
	// inline index clause for dialects without CREATE INDEX IF NOT EXISTS
	inlineIndex bool
}

func (db *DB) dialect() dialect {
	switch db.driver {
	case DriverPostgres:
		return dialect{text: "TEXT", timestamp: "TIMESTAMPTZ"}
	case DriverMySQL:
		return dialect{text: "LONGTEXT", timestamp: "DATETIME(6)", inlineIndex: true}
	}
	return dialect{text: "TEXT", timestamp: "DATETIME"}
}

func (db *DB) migrate() error {
	d := db.dialect()
	revIndex := ""
	if d.inlineIndex {
		revIndex = ",\n\t\t\tINDEX idx_revisions_project (project_id, revision)"
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			description ` + d.text + ` NOT NULL,
			data ` + d.text + ` NOT NULL,
			thumbnail_url ` + d.text + ` NOT NULL,
			thumbnail_public_id VARCHAR(255) NOT NULL DEFAULT '',
			created_at ` + d.timestamp + ` NOT NULL,
			updated_at ` + d.timestamp + ` NOT NULL
		)`,
		// Saved snapshots per project, newest kept, see ProjectStore.prune
		`CREATE TABLE IF NOT EXISTS project_revisions (
			id VARCHAR(64) PRIMARY KEY,
			project_id VARCHAR(64) NOT NULL,
			revision INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			data ` + d.text + ` NOT NULL,
			created_at ` + d.timestamp + ` NOT NULL` + revIndex + `
		)`,
	}
	if !d.inlineIndex {
		migrations = append(migrations,
			`CREATE INDEX IF NOT EXISTS idx_revisions_project ON project_revisions(project_id, revision)`)
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", firstLine(m), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// ConnParams describes a server database for the DSN builders.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// PostgresDSN builds a lib/pq key=value connection string.
func PostgresDSN(p ConnParams) string {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, port, p.User, p.Password, p.Database, sslMode,
	)
}

// MySQLDSN builds a go-sql-driver DSN. parseTime is required to scan
// timestamps into time.Time.
func MySQLDSN(p ConnParams) string {
	port := p.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		p.User, p.Password, p.Host, port, p.Database,
	)
	if p.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}
