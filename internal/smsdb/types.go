// Package smsdb extracts messages from an iPhone backup's SMS database
// (sms.db, stored in backups as 3d0d7e5fb2ce288813306e4d4636395e047a3d28).
//
// Two schema generations are supported. iOS 5 and earlier keep SMS and
// iMessage ("madrid") rows in a single message table with inline direction
// flags. iOS 6 and later move addresses into a separate handle table and
// record direction in message.is_from_me. Each generation is handled by its
// own extraction strategy, chosen once per database by DetectGeneration.
package smsdb

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/wesm/smsbackup/internal/alias"
)

// DefaultIdentity is the display name used for the device owner.
const DefaultIdentity = "Me"

// DefaultDateFormat is the strftime pattern used for message dates.
const DefaultDateFormat = "%Y-%m-%d %H:%M:%S"

// appleEpochOffset is the number of seconds between the Unix epoch and
// 2001-01-01T00:00:00Z, the reference date for iMessage timestamps.
const appleEpochOffset = int64(978307200)

// Generation identifies a message database schema layout.
type Generation int

const (
	GenerationUnknown Generation = iota
	// GenerationIOS5 is the single-table layout with inline SMS/iMessage flags.
	GenerationIOS5
	// GenerationIOS6 is the message + handle layout used from iOS 6 on.
	GenerationIOS6
)

func (g Generation) String() string {
	switch g {
	case GenerationIOS5:
		return "ios5"
	case GenerationIOS6:
		return "ios6"
	default:
		return "unknown"
	}
}

// Message is one normalized message, ready for rendering.
type Message struct {
	// RowID is the source message.rowid; it is not rendered.
	RowID int64  `json:"-"`
	Date  string `json:"date"`
	From  string `json:"from"`
	Text  string `json:"text"`
	To    string `json:"to"`
}

// Filter limits extraction to messages exchanged with the given phone
// numbers or email handles. An empty Filter selects every message.
type Filter struct {
	Numbers []string
	Emails  []string
}

// IsEmpty reports whether the filter selects everything.
func (f Filter) IsEmpty() bool {
	return len(f.Numbers) == 0 && len(f.Emails) == 0
}

// Options configures an extraction run.
type Options struct {
	// Identity is the device owner's display name. Exactly one of From/To
	// of every Message equals Identity.
	Identity string

	// Aliases maps address keys to display names.
	Aliases alias.Map

	Filter Filter

	// DateFormat is a strftime pattern (default DefaultDateFormat).
	DateFormat string

	// Location is the zone dates are rendered in (default UTC).
	Location *time.Location

	// Logger receives one record per skipped row. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns Options with the documented defaults.
func DefaultOptions() Options {
	return Options{
		Identity:   DefaultIdentity,
		DateFormat: DefaultDateFormat,
		Location:   time.UTC,
	}
}

// Summary holds statistics from a completed extraction.
type Summary struct {
	Generation    Generation
	Duration      time.Duration
	RowsScanned   int64
	MessagesAdded int64
	RowsSkipped   int64
	SkipReasons   map[string]int64
}

func (s *Summary) skip(reason skipReason) {
	s.RowsSkipped++
	if s.SkipReasons == nil {
		s.SkipReasons = make(map[string]int64)
	}
	s.SkipReasons[string(reason)]++
}

// ios5Row is one row of the iOS 5 message table.
type ios5Row struct {
	RowID               int64          // message.rowid
	Date                sql.NullInt64  // message.date (Unix seconds)
	Address             sql.NullString // message.address (SMS only)
	Text                sql.NullString // message.text
	Flags               sql.NullInt64  // message.flags: 2=received, 3=sent
	GroupID             sql.NullInt64  // message.group_id
	MadridHandle        sql.NullString // message.madrid_handle (iMessage phone or email)
	MadridFlags         sql.NullInt64  // message.madrid_flags
	MadridError         sql.NullInt64  // message.madrid_error
	IsMadrid            sql.NullInt64  // message.is_madrid: 1=iMessage
	MadridDateRead      sql.NullInt64  // seconds since 2001-01-01
	MadridDateDelivered sql.NullInt64  // seconds since 2001-01-01
}

// ios6Row is one row of the iOS 6 message table joined with handle.
type ios6Row struct {
	RowID    int64          // message.rowid
	Date     sql.NullInt64  // message.date (seconds since 2001-01-01)
	IsFromMe sql.NullInt64  // message.is_from_me
	HandleID sql.NullString // handle.id (phone or email)
	Text     sql.NullString // message.text
}
