package smsdb

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Extract reads every message selected by opts.Filter from db, in rowid
// order, and returns the accepted ones. Rows that cannot be classified are
// skipped and logged; any database error aborts the run and no messages are
// returned.
func Extract(ctx context.Context, db *DB, opts Options) ([]Message, *Summary, error) {
	start := time.Now()

	conv, err := newConverter(opts)
	if err != nil {
		return nil, nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	gen, err := db.DetectGeneration(ctx)
	if err != nil {
		return nil, nil, err
	}
	strat, err := strategyFor(gen)
	if err != nil {
		return nil, nil, err
	}

	q := strat.buildQuery(opts.Filter)
	logger.Debug("run query", "generation", gen.String(), "sql", q.SQL, "args", q.Args)

	rows, err := db.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	summary := &Summary{Generation: gen}
	messages := []Message{}
	for rows.Next() {
		summary.RowsScanned++

		row, err := strat.scan(rows)
		if err != nil {
			logger.Info("skipping message", "reason", string(skipMalformed), "error", err)
			summary.skip(skipMalformed)
			continue
		}

		msg, reason := row.toMessage(conv)
		if reason != "" {
			logger.Info("skipping message", "rowid", row.rowID(), "reason", string(reason))
			summary.skip(reason)
			continue
		}
		messages = append(messages, msg)
		summary.MessagesAdded++
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read messages: %w", err)
	}

	summary.Duration = time.Since(start)
	return messages, summary, nil
}

// ExtractFile opens the database at path, extracts its messages and closes
// it again on every path.
func ExtractFile(ctx context.Context, path string, opts Options) ([]Message, *Summary, error) {
	// Reject bad options before touching the file.
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	db, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	return Extract(ctx, db, opts)
}
