package smsdb

import (
	"fmt"
	"strings"

	"github.com/wesm/smsbackup/internal/address"
)

// Query is a parameterized SELECT over the message table.
type Query struct {
	SQL  string
	Args []any
}

// BuildQuery returns the row-selection query for generation g. Filter
// phone numbers are truncated before binding; the stored column goes
// through the TRUNC SQL function so both sides are normalized alike.
func BuildQuery(g Generation, f Filter) (Query, error) {
	switch g {
	case GenerationIOS5:
		return buildIOS5Query(f), nil
	case GenerationIOS6:
		return buildIOS6Query(f), nil
	default:
		return Query{}, fmt.Errorf("build query for %s schema: %w", g, ErrUnknownSchema)
	}
}

// buildIOS5Query selects SMS and iMessage rows. Phone numbers are in
// address for SMS and madrid_handle for iMessage; email handles only in
// madrid_handle. All filter clauses are OR-ed together.
func buildIOS5Query(f Filter) Query {
	query := `
SELECT
    rowid,
    date,
    address,
    text,
    flags,
    group_id,
    madrid_handle,
    madrid_flags,
    madrid_error,
    is_madrid,
    madrid_date_read,
    madrid_date_delivered
FROM message`

	args := []any{}
	var clauses []string
	for _, n := range f.Numbers {
		key := address.Truncate(n)
		clauses = append(clauses, "TRUNC(address) = ?", "TRUNC(madrid_handle) = ?")
		args = append(args, key, key)
	}
	for _, e := range f.Emails {
		clauses = append(clauses, "madrid_handle = ?")
		args = append(args, e)
	}
	if len(clauses) > 0 {
		query += "\nWHERE " + strings.Join(clauses, "\nOR ")
	}
	query += "\nORDER BY rowid"
	return Query{SQL: query, Args: args}
}

// buildIOS6Query selects messages joined with their handle. Phone numbers
// and emails both live in handle.id; the OR-ed filter group is AND-ed with
// the join condition.
func buildIOS6Query(f Filter) Query {
	query := `
SELECT
    m.rowid,
    m.date,
    m.is_from_me,
    h.id,
    m.text
FROM
    message m,
    handle h
WHERE
    m.handle_id = h.rowid`

	args := []any{}
	var clauses []string
	for _, n := range f.Numbers {
		clauses = append(clauses, "TRUNC(h.id) = ?")
		args = append(args, address.Truncate(n))
	}
	for _, e := range f.Emails {
		clauses = append(clauses, "h.id = ?")
		args = append(args, e)
	}
	if len(clauses) > 0 {
		query += "\nAND\n(" + strings.Join(clauses, "\nOR ") + ")"
	}
	query += "\nORDER BY m.rowid"
	return Query{SQL: query, Args: args}
}
