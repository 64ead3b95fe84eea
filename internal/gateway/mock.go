package gateway

import (
	"context"

	"github.com/vdh-servicedesk/backend/internal/utils"
)

// Mock fabricates results without a live connection. Identifiers derive
// from a hash of the statement and its arguments, so identical calls yield
// identical ids within a process run. Exec reports one affected row so that
// status-guarded updates succeed, and Select returns an empty result set.
type Mock struct{}

func NewMock() Mock { return Mock{} }

func (Mock) InsertAndGetID(ctx context.Context, stmt string, args ...any) (int64, error) {
	return 1000 + int64(utils.HashStatement(stmt, args...)%9000), nil
}

func (Mock) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	return 1, nil
}

func (Mock) Select(ctx context.Context, stmt string, args ...any) (*Rows, error) {
	return &Rows{}, nil
}

func (m Mock) WithTx(ctx context.Context, fn func(Runner) error) error {
	return fn(m)
}

func (Mock) Ping(ctx context.Context) error { return nil }

func (Mock) Close() {}
