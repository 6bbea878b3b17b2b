// Package oplog defines the operation journal: a durable, append-only record
// of every mutating order operation the client issues and how it ended.
//
// It exists because rejected and failed operations must stay observable after
// the fact (a toast disappears; the journal does not), and because an
// out-of-band look at "what did this client do to order X" is the fastest way
// to debug a disagreement with the backend.
package oplog

import (
	"context"
	"time"

	"github.com/comandaapp/comanda/internal/pkg/requestid"
)

// Status is the outcome recorded for one journal row.
type Status string

const (
	// StatusStarted is written before the gateway call is issued.
	StatusStarted Status = "STARTED"
	// StatusConfirmed is written after the server confirmed the operation.
	StatusConfirmed Status = "CONFIRMED"
	// StatusRejected is written when the server rejected the operation or
	// the transport failed. The local cache was left untouched.
	StatusRejected Status = "REJECTED"
)

// Entry is a single journal row.
type Entry struct {
	// OrderID is the order the operation targeted. Empty for operations
	// rejected before an order id existed (a failed create).
	OrderID string

	// Op names the operation: create_order, add_item, set_amount, send,
	// finish, remove_item.
	Op string

	// Status is the outcome this row records.
	Status Status

	// Detail is the JSON-serialised operation input, written on STARTED
	// rows so a rejected operation can be replayed by hand.
	Detail string

	// ErrorMessage holds the rejection reason on REJECTED rows.
	ErrorMessage string

	// RequestID correlates the row with the X-Request-Id header the
	// gateway sent, and through it with the server's own logs.
	RequestID string

	// CreatedAt is the wall-clock time of this row.
	CreatedAt time.Time
}

// NewEntry builds an Entry stamped with the request id carried by ctx.
func NewEntry(ctx context.Context, orderID, op string, status Status, detail string, opErr error) *Entry {
	e := &Entry{
		OrderID:   orderID,
		Op:        op,
		Status:    status,
		Detail:    detail,
		RequestID: requestid.From(ctx),
		CreatedAt: time.Now().UTC(),
	}
	if opErr != nil {
		e.ErrorMessage = opErr.Error()
	}
	return e
}
