package smsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mattn/go-sqlite3"
	"github.com/wesm/smsbackup/internal/address"
)

// driverName is a sqlite3 driver whose connections carry the TRUNC function.
const driverName = "sqlite3_smsbackup"

// ErrUnknownSchema is returned when a database matches neither supported
// schema generation.
var ErrUnknownSchema = errors.New("unrecognized message database schema")

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("TRUNC", sqlTrunc, true)
		},
	})
}

// sqlTrunc is address.Truncate exposed to SQL. NULL stays NULL so that
// TRUNC(address) = ? never matches a missing address.
func sqlTrunc(v any) any {
	switch s := v.(type) {
	case string:
		return address.Truncate(s)
	case []byte:
		if s == nil {
			return nil
		}
		return address.Truncate(string(s))
	case int64:
		return address.Truncate(strconv.FormatInt(s, 10))
	default:
		return nil
	}
}

// DB is a read-only handle on a message database. It holds a single
// connection; callers must Close it.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens the database at path read-only.
func Open(path string) (*DB, error) {
	// Use file: URI to safely handle paths containing '?' or other special characters.
	dsn := (&url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     path,
		RawQuery: "mode=ro&_busy_timeout=5000",
	}).String()
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open message db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open message db %s: %w", path, err)
	}
	return &DB{db: db, path: path}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the file the database was opened from.
func (d *DB) Path() string {
	return d.path
}

// DetectGeneration inspects the schema. A handle table means iOS 6 or later;
// otherwise a message table means iOS 5. The database carries no explicit
// version, so this is a structural probe.
func (d *DB) DetectGeneration(ctx context.Context) (Generation, error) {
	hasHandle, err := d.hasTable(ctx, "handle")
	if err != nil {
		return GenerationUnknown, err
	}
	if hasHandle {
		return GenerationIOS6, nil
	}

	hasMessage, err := d.hasTable(ctx, "message")
	if err != nil {
		return GenerationUnknown, err
	}
	if !hasMessage {
		return GenerationUnknown, ErrUnknownSchema
	}
	return GenerationIOS5, nil
}

func (d *DB) hasTable(ctx context.Context, name string) (bool, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE name = ?`, name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	return count == 1, nil
}
