// Package gateway is the single boundary through which all SQL reaches
// storage. Two interchangeable backends exist: one backed by a real
// connection pool and a deterministic mock that never touches storage.
// Callers pass every variable as a bind argument; statements are never
// assembled from caller-supplied values.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Runner is the capability set available both on a plain gateway and inside
// a transaction scope.
type Runner interface {
	// InsertAndGetID executes an insert that yields the generated row id.
	// Statements against the SQL backend must end with "RETURNING id".
	InsertAndGetID(ctx context.Context, stmt string, args ...any) (int64, error)

	// Exec runs a non-returning statement and reports affected rows, which
	// status-guarded updates use to detect lost races.
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)

	// Select runs a read and returns the result set with column names in
	// query order.
	Select(ctx context.Context, stmt string, args ...any) (*Rows, error)
}

type Gateway interface {
	Runner

	// WithTx runs fn inside a single transaction; any error rolls back.
	WithTx(ctx context.Context, fn func(Runner) error) error

	Ping(ctx context.Context) error
	Close()
}

type Rows struct {
	Columns []string
	Values  [][]any
}

// Error wraps a backend failure. The operation name is safe to surface;
// the underlying driver error is for logs only.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("gateway: %s failed", e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

func IsGatewayError(err error) bool {
	var ge *Error
	return errors.As(err, &ge)
}

// IsUndefinedColumn reports whether err is the database complaining about a
// column that does not exist. Workflow columns are an optional migration;
// their absence degrades features instead of failing requests.
func IsUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42703"
	}
	return false
}
