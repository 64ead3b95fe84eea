package gateway

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQL is the live backend. Each operation runs under its own deadline;
// connections are pool-managed and released as soon as the statement
// finishes.
type SQL struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewSQL(ctx context.Context, databaseURL string, timeout time.Duration) (*SQL, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, &Error{Op: "parse config", Err: err}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &Error{Op: "connect", Err: err}
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &SQL{pool: pool, timeout: timeout}, nil
}

func (s *SQL) Close() {
	s.pool.Close()
}

func (s *SQL) Ping(ctx context.Context) error {
	ctx, cancel := s.deadline(ctx)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

func (s *SQL) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *SQL) InsertAndGetID(ctx context.Context, stmt string, args ...any) (int64, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()
	return insertAndGetID(ctx, s.pool, stmt, args...)
}

func (s *SQL) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()
	return execRows(ctx, s.pool, stmt, args...)
}

func (s *SQL) Select(ctx context.Context, stmt string, args ...any) (*Rows, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()
	return selectRows(ctx, s.pool, stmt, args...)
}

// SelectReadOnly runs a caller-supplied query inside a read-only
// transaction so ad-hoc reporting cannot mutate anything.
func (s *SQL) SelectReadOnly(ctx context.Context, stmt string, args ...any) (*Rows, error) {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, &Error{Op: "begin read-only tx", Err: err}
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rows, err := selectRows(ctx, tx, stmt, args...)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, &Error{Op: "commit read-only tx", Err: err}
	}
	return rows, nil
}

func (s *SQL) WithTx(ctx context.Context, fn func(Runner) error) error {
	ctx, cancel := s.deadline(ctx)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &Error{Op: "begin tx", Err: err}
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(txRunner{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &Error{Op: "commit tx", Err: err}
	}
	return nil
}

type txRunner struct {
	tx pgx.Tx
}

func (r txRunner) InsertAndGetID(ctx context.Context, stmt string, args ...any) (int64, error) {
	return insertAndGetID(ctx, r.tx, stmt, args...)
}

func (r txRunner) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	return execRows(ctx, r.tx, stmt, args...)
}

func (r txRunner) Select(ctx context.Context, stmt string, args ...any) (*Rows, error) {
	return selectRows(ctx, r.tx, stmt, args...)
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertAndGetID(ctx context.Context, q querier, stmt string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, &Error{Op: "insert", Err: err}
	}
	return id, nil
}

func execRows(ctx context.Context, q querier, stmt string, args ...any) (int64, error) {
	tag, err := q.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, &Error{Op: "exec", Err: err}
	}
	return tag.RowsAffected(), nil
}

func selectRows(ctx context.Context, q querier, stmt string, args ...any) (*Rows, error) {
	rows, err := q.Query(ctx, stmt, args...)
	if err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = string(f.Name)
	}

	out := &Rows{Columns: cols}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, &Error{Op: "scan", Err: err}
		}
		out.Values = append(out.Values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Op: "query", Err: err}
	}
	return out, nil
}
