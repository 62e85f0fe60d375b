// Package db is the query layer over Postgres. It follows the sqlc layering
// convention: a DBTX abstraction over *sql.DB and *sql.Tx, a Queries struct
// holding the connection handle, and a Querier interface so handlers and the
// worker can be tested against stubs.
package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, letting
// the same query methods run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries is the concrete Querier. Construct with New.
type Queries struct {
	db DBTX
}

// New returns a Queries bound to the given connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries scoped to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Querier is the interface the rest of the application depends on. Tests
// substitute stubs; production code uses *Queries.
type Querier interface {
	InsertAssessment(ctx context.Context, arg InsertAssessmentParams) error
	InsertHistoryEntry(ctx context.Context, arg InsertHistoryEntryParams) error
	GetAssessmentByID(ctx context.Context, id uuid.UUID) (AssessmentRow, error)
	ListAssessmentsByPatient(ctx context.Context, patientID string) ([]HistoryRow, error)
}

var _ Querier = (*Queries)(nil)
