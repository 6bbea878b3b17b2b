// Package sqlite provides a SQLite-backed implementation of oplog.Repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa: the CLI may be reading the journal while an operation handler is
// appending to it.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/comandaapp/comanda/internal/comanda/oplog"

	// Register the pure-Go SQLite driver.
	// We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid CGO
	// requirements, keeping the client a single static binary.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup.
// The table is append-only: each row is an immutable event in an order's
// client-side history.
const schema = `
CREATE TABLE IF NOT EXISTS order_ops (
    -- Surrogate primary key, auto-incremented by SQLite.
    id             INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier: the order ID. Empty for operations rejected
    -- before the server assigned one.
    order_id       TEXT        NOT NULL DEFAULT '',

    -- Operation name (create_order, add_item, send, finish, ...).
    op             TEXT        NOT NULL,

    -- Outcome at the time this row was written (STARTED/CONFIRMED/REJECTED).
    status         TEXT        NOT NULL,

    -- JSON payload of the operation input. Written on STARTED rows.
    detail         TEXT,

    -- Rejection reason on REJECTED rows.
    error_message  TEXT        NOT NULL DEFAULT '',

    -- X-Request-Id the gateway sent; joins this row to server-side logs.
    request_id     TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at     TEXT        NOT NULL
);

-- Index for the common query: "give me the history of order X in order".
CREATE INDEX IF NOT EXISTS idx_order_ops_order_id ON order_ops(order_id, created_at);

-- Index for the correlation query: "find the op for request Y".
CREATE INDEX IF NOT EXISTS idx_order_ops_request_id ON order_ops(request_id);
`

// Repository is the SQLite implementation of oplog.Repository.
type Repository struct {
	db *sql.DB
}

var _ oplog.Repository = (*Repository)(nil)

// Open opens (or creates) the SQLite database at the given path and applies
// the schema. WAL mode is enabled for better concurrent read/write behaviour.
//
//	repo, err := sqlite.Open("~/.comanda/journal.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver uses _pragma query parameters to configure connection state.
	// busy_timeout waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new journal row. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *oplog.Entry) error {
	const q = `
		INSERT INTO order_ops
			(order_id, op, status, detail, error_message, request_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		entry.Op,
		string(entry.Status),
		nullableString(entry.Detail),
		entry.ErrorMessage,
		entry.RequestID,
		entry.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save op for order %q: %w", entry.OrderID, err)
	}
	return nil
}

// ListByOrder returns every journal row for an order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]oplog.Entry, error) {
	const q = `
		SELECT order_id, op, status, COALESCE(detail,''), error_message,
		       request_id, created_at
		FROM   order_ops
		WHERE  order_id = ?
		ORDER  BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list ops for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []oplog.Entry
	for rows.Next() {
		var entry oplog.Entry
		var createdAt string
		if err := rows.Scan(
			&entry.OrderID,
			&entry.Op,
			&entry.Status,
			&entry.Detail,
			&entry.ErrorMessage,
			&entry.RequestID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan op row: %w", err)
		}
		entry.CreatedAt, err = parseRFC3339(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate op rows: %w", err)
	}
	return entries, nil
}

// applySchema runs the DDL statements once. Idempotent due to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString returns nil for empty strings so SQLite stores NULL instead
// of an empty TEXT, keeping the detail column clean on outcome rows.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
