package smsdb

import (
	"database/sql"
	"fmt"
)

// strategy is the per-generation half of an extraction: how to select rows
// and how to read one.
type strategy interface {
	generation() Generation
	buildQuery(f Filter) Query
	scan(rows *sql.Rows) (sourceRow, error)
}

// sourceRow is a scanned row that can classify and convert itself.
type sourceRow interface {
	rowID() int64
	toMessage(c *converter) (Message, skipReason)
}

func strategyFor(g Generation) (strategy, error) {
	switch g {
	case GenerationIOS5:
		return ios5Strategy{}, nil
	case GenerationIOS6:
		return ios6Strategy{}, nil
	default:
		return nil, fmt.Errorf("no extractor for %s schema: %w", g, ErrUnknownSchema)
	}
}

type ios5Strategy struct{}

func (ios5Strategy) generation() Generation {
	return GenerationIOS5
}

func (ios5Strategy) buildQuery(f Filter) Query {
	return buildIOS5Query(f)
}

func (ios5Strategy) scan(rows *sql.Rows) (sourceRow, error) {
	var r ios5Row
	if err := rows.Scan(
		&r.RowID, &r.Date, &r.Address, &r.Text, &r.Flags, &r.GroupID,
		&r.MadridHandle, &r.MadridFlags, &r.MadridError, &r.IsMadrid,
		&r.MadridDateRead, &r.MadridDateDelivered,
	); err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return r, nil
}

type ios6Strategy struct{}

func (ios6Strategy) generation() Generation {
	return GenerationIOS6
}

func (ios6Strategy) buildQuery(f Filter) Query {
	return buildIOS6Query(f)
}

func (ios6Strategy) scan(rows *sql.Rows) (sourceRow, error) {
	var r ios6Row
	if err := rows.Scan(&r.RowID, &r.Date, &r.IsFromMe, &r.HandleID, &r.Text); err != nil {
		return nil, fmt.Errorf("scan message: %w", err)
	}
	return r, nil
}
