// Package dbtest builds iPhone message databases in both supported schema
// layouts for tests. Databases are real SQLite files under t.TempDir() so
// they can be opened read-only by the code under test.
package dbtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// ios5Schema is the subset of the iOS 5 sms.db message table that the
// extractor reads, plus a few neighbours so the layout stays realistic.
const ios5Schema = `
CREATE TABLE message (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	address TEXT,
	date INTEGER,
	text TEXT,
	flags INTEGER,
	replace INTEGER,
	svc_center TEXT,
	group_id INTEGER,
	association_id INTEGER,
	read INTEGER,
	madrid_handle TEXT,
	madrid_guid TEXT,
	madrid_service TEXT,
	madrid_flags INTEGER,
	madrid_error INTEGER,
	is_madrid INTEGER DEFAULT 0,
	madrid_date_read INTEGER,
	madrid_date_delivered INTEGER
);
CREATE TABLE msg_group (ROWID INTEGER PRIMARY KEY AUTOINCREMENT, type INTEGER, newest_message INTEGER, unread_count INTEGER, hash INTEGER);
CREATE TABLE group_member (ROWID INTEGER PRIMARY KEY AUTOINCREMENT, group_id INTEGER, address TEXT, country TEXT);
`

// ios6Schema is the subset of the iOS 6+ sms.db schema the extractor reads.
const ios6Schema = `
CREATE TABLE handle (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT UNIQUE,
	id TEXT NOT NULL,
	country TEXT,
	service TEXT NOT NULL,
	uncanonicalized_id TEXT
);
CREATE TABLE message (
	ROWID INTEGER PRIMARY KEY AUTOINCREMENT,
	guid TEXT UNIQUE NOT NULL,
	text TEXT,
	handle_id INTEGER DEFAULT 0,
	service TEXT,
	date INTEGER,
	date_read INTEGER,
	date_delivered INTEGER,
	is_from_me INTEGER DEFAULT 0,
	is_read INTEGER DEFAULT 0
);
CREATE TABLE chat (ROWID INTEGER PRIMARY KEY AUTOINCREMENT, guid TEXT UNIQUE NOT NULL, chat_identifier TEXT);
`

// TestDB is a fixture database plus the path it was written to.
type TestDB struct {
	DB   *sql.DB
	Path string
	T    testing.TB

	nextGUID int64
}

func newTestDB(t testing.TB, schema string) *TestDB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sms.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return &TestDB{DB: db, Path: path, T: t}
}

// NewIOS5 creates an empty database with the iOS 5 single-table layout.
func NewIOS5(t testing.TB) *TestDB {
	t.Helper()
	return newTestDB(t, ios5Schema)
}

// NewIOS6 creates an empty database with the iOS 6 message/handle layout.
func NewIOS6(t testing.TB) *TestDB {
	t.Helper()
	return newTestDB(t, ios6Schema)
}

// NewEmpty creates a database with no message tables at all.
func NewEmpty(t testing.TB) *TestDB {
	t.Helper()
	return newTestDB(t, `CREATE TABLE unrelated (id INTEGER PRIMARY KEY);`)
}

func (tdb *TestDB) insert(query string, args ...any) int64 {
	tdb.T.Helper()
	res, err := tdb.DB.Exec(query, args...)
	if err != nil {
		tdb.T.Fatalf("insert: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tdb.T.Fatalf("last insert id: %v", err)
	}
	return id
}

// ---------------------------------------------------------------------------
// iOS 5 builders
// ---------------------------------------------------------------------------

// SMSOpts configures an iOS 5 SMS row. Nil pointers insert NULL.
type SMSOpts struct {
	Address *string
	Text    *string
	Flags   *int64 // 2 = received, 3 = sent
	Date    int64  // Unix seconds
}

// AddSMS inserts a carrier SMS row and returns its rowid.
func (tdb *TestDB) AddSMS(opts SMSOpts) int64 {
	tdb.T.Helper()
	return tdb.insert(
		`INSERT INTO message (address, date, text, flags, is_madrid) VALUES (?, ?, ?, ?, 0)`,
		opts.Address, opts.Date, opts.Text, opts.Flags,
	)
}

// IMessageOpts configures an iOS 5 iMessage ("madrid") row.
type IMessageOpts struct {
	Handle        *string
	Text          *string
	Flags         int64  // madrid_flags
	Error         *int64 // nil inserts 0
	DateRead      int64  // seconds since 2001-01-01
	DateDelivered int64  // seconds since 2001-01-01
}

// AddIMessage inserts an iMessage row and returns its rowid.
func (tdb *TestDB) AddIMessage(opts IMessageOpts) int64 {
	tdb.T.Helper()
	var madridErr any = int64(0)
	if opts.Error != nil {
		madridErr = *opts.Error
	}
	return tdb.insert(
		`INSERT INTO message (date, text, flags, madrid_handle, madrid_flags, madrid_error,
			is_madrid, madrid_date_read, madrid_date_delivered)
		VALUES (0, ?, 0, ?, ?, ?, 1, ?, ?)`,
		opts.Text, opts.Handle, opts.Flags, madridErr, opts.DateRead, opts.DateDelivered,
	)
}

// ---------------------------------------------------------------------------
// iOS 6 builders
// ---------------------------------------------------------------------------

// AddHandle inserts a handle (phone number or email) and returns its rowid.
func (tdb *TestDB) AddHandle(id string) int64 {
	tdb.T.Helper()
	service := "SMS"
	if strings.Contains(id, "@") {
		service = "iMessage"
	}
	return tdb.insert(`INSERT INTO handle (id, service) VALUES (?, ?)`, id, service)
}

// MessageOpts configures an iOS 6 message row.
type MessageOpts struct {
	HandleID int64
	Text     *string
	FromMe   bool
	Date     int64 // seconds since 2001-01-01
}

// AddMessage inserts an iOS 6 message row and returns its rowid.
func (tdb *TestDB) AddMessage(opts MessageOpts) int64 {
	tdb.T.Helper()
	tdb.nextGUID++
	fromMe := 0
	if opts.FromMe {
		fromMe = 1
	}
	return tdb.insert(
		`INSERT INTO message (guid, text, handle_id, date, is_from_me) VALUES (?, ?, ?, ?, ?)`,
		guid(tdb.nextGUID), opts.Text, opts.HandleID, opts.Date, fromMe,
	)
}

func guid(n int64) string {
	return fmt.Sprintf("A1B2C3D4-0000-0000-0000-%012d", n)
}
