package smsdb

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/wesm/smsbackup/internal/address"
	"github.com/wesm/smsbackup/internal/alias"
	"github.com/wesm/smsbackup/internal/textutil"
)

// skipReason explains why a row produced no Message. The empty reason
// means the row was accepted.
type skipReason string

const (
	skipNotSent      skipReason = "not sent or received"
	skipNoAddress    skipReason = "no address"
	skipNoText       skipReason = "no text"
	skipDeliveryErr  skipReason = "delivery error"
	skipGroupChat    skipReason = "group chat"
	skipUnknownFlags skipReason = "unrecognized flags"
	skipMalformed    skipReason = "malformed row"
)

// converter turns classified rows into Messages.
type converter struct {
	identity string
	aliases  alias.Map
	dates    *strftime.Strftime
	loc      *time.Location
}

// newConverter validates opts and prepares a converter. Errors are
// *address.ConfigError.
func newConverter(opts Options) (*converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dates, err := compileDateFormat(opts.dateFormat())
	if err != nil {
		return nil, err
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &converter{
		identity: opts.identity(),
		aliases:  opts.Aliases,
		dates:    dates,
		loc:      loc,
	}, nil
}

func compileDateFormat(pattern string) (*strftime.Strftime, error) {
	f, err := strftime.New(pattern)
	if err != nil {
		return nil, &address.ConfigError{Option: "--date-format", Value: pattern, Reason: err.Error()}
	}
	return f, nil
}

// Validate checks user-supplied option values without touching a database.
func (o Options) Validate() error {
	if o.identity() == "" {
		return &address.ConfigError{Option: "--myname", Reason: "identity must not be empty"}
	}
	if err := address.ValidatePhones("--phone", o.Filter.Numbers); err != nil {
		return err
	}
	for _, name := range o.Aliases.Names() {
		if name == o.identity() {
			return &address.ConfigError{
				Option: "--alias",
				Value:  name,
				Reason: "alias name must differ from the owner's name",
			}
		}
	}
	if _, err := compileDateFormat(o.dateFormat()); err != nil {
		return err
	}
	return nil
}

func (o Options) identity() string {
	if o.Identity == "" {
		return DefaultIdentity
	}
	return o.Identity
}

func (o Options) dateFormat() string {
	if o.DateFormat == "" {
		return DefaultDateFormat
	}
	return o.DateFormat
}

// formatDate renders Unix seconds with the configured pattern.
func (c *converter) formatDate(unix int64) string {
	return c.dates.FormatString(time.Unix(unix, 0).In(c.loc))
}

// orient places the owner and the counterparty on the from/to sides.
// dir must be DirectionIncoming or DirectionOutgoing.
func (c *converter) orient(dir Direction, other string) (from, to string) {
	if dir == DirectionOutgoing {
		return c.identity, other
	}
	return other, c.identity
}

func (c *converter) message(rowID int64, unix int64, dir Direction, other string, text sql.NullString) Message {
	from, to := c.orient(dir, other)
	return Message{
		RowID: rowID,
		Date:  c.formatDate(unix),
		From:  from,
		To:    to,
		Text:  cleanText(text),
	}
}

// cleanText maps NULL to "" and carriage returns, which some phones use as
// line separators, to newlines.
func cleanText(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return textutil.EnsureUTF8(strings.ReplaceAll(s.String, "\r", "\n"))
}

// appleToUnix converts seconds since 2001-01-01 to Unix seconds.
func appleToUnix(seconds int64) int64 {
	return seconds + appleEpochOffset
}
