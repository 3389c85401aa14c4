package smsdb

import (
	"github.com/wesm/smsbackup/internal/address"
	"github.com/wesm/smsbackup/internal/textutil"
)

func (r ios5Row) rowID() int64 { return r.RowID }

func (r ios5Row) toMessage(c *converter) (Message, skipReason) {
	if r.IsMadrid.Int64 == 1 {
		return r.imessage(c)
	}
	return r.sms(c)
}

// sms converts a carrier SMS row. Only rows flagged as received or sent,
// with an address and text, are kept.
func (r ios5Row) sms(c *converter) (Message, skipReason) {
	dir := smsDirection(r.Flags.Int64)
	switch {
	case !dir.OneToOne():
		return Message{}, skipNotSent
	case r.Address.String == "":
		return Message{}, skipNoAddress
	case r.Text.String == "":
		return Message{}, skipNoText
	}

	raw := textutil.EnsureUTF8(r.Address.String)
	other := c.aliases.Resolve(address.Truncate(raw), address.FormatPhone, raw)
	return c.message(r.RowID, r.Date.Int64, dir, other, r.Text), ""
}

// imessage converts an iMessage row. Rows with a delivery error, group chat
// rows, and rows with flag values outside the known one-to-one set are
// skipped.
func (r ios5Row) imessage(c *converter) (Message, skipReason) {
	dir := madridDirection(r.MadridFlags.Int64)
	switch {
	case !r.MadridError.Valid || r.MadridError.Int64 != 0:
		return Message{}, skipDeliveryErr
	case dir.IsGroup():
		return Message{}, skipGroupChat
	case !dir.OneToOne():
		return Message{}, skipUnknownFlags
	case r.MadridHandle.String == "":
		return Message{}, skipNoAddress
	case r.Text.String == "":
		return Message{}, skipNoText
	}

	raw := textutil.EnsureUTF8(r.MadridHandle.String)
	other := c.aliases.Resolve(address.Key(raw), address.FormatAddress, raw)
	return c.message(r.RowID, r.imessageDate(), dir, other, r.Text), ""
}

// imessageDate returns the row's timestamp as Unix seconds. Only one of
// madrid_date_read and madrid_date_delivered is expected to be set; when
// date_read is zero, date_delivered is used.
// TODO: confirm which value to prefer when a backup has both set.
func (r ios5Row) imessageDate() int64 {
	seconds := r.MadridDateRead.Int64
	if seconds == 0 {
		seconds = r.MadridDateDelivered.Int64
	}
	return appleToUnix(seconds)
}

func (r ios6Row) rowID() int64 { return r.RowID }

// toMessage converts a joined message/handle row. The iOS 6 schema has no
// flag-based filtering; rows are dropped only when they lack a handle or
// text.
func (r ios6Row) toMessage(c *converter) (Message, skipReason) {
	switch {
	case r.HandleID.String == "":
		return Message{}, skipNoAddress
	case r.Text.String == "":
		return Message{}, skipNoText
	}

	dir := DirectionIncoming
	if r.IsFromMe.Int64 != 0 {
		dir = DirectionOutgoing
	}

	raw := textutil.EnsureUTF8(r.HandleID.String)
	other := c.aliases.Resolve(address.Key(raw), unformatted, raw)
	return c.message(r.RowID, appleToUnix(r.Date.Int64), dir, other, r.Text), ""
}

// unformatted is the iOS 6 fallback: unresolved handles are shown as stored.
func unformatted(s string) string { return s }
