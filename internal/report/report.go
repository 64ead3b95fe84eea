// Package report runs ad-hoc admin queries and renders result sets as CSV.
// The free-form query capability is gated by an explicit permission flag
// fixed at construction, never inferred from request state, and the routes
// carrying it live behind admin authentication only.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/vdh-servicedesk/backend/internal/gateway"
)

var ErrNotPermitted = errors.New("ad-hoc reporting not permitted")

// ReadOnlyQuerier is what the live gateway offers for reporting: execution
// inside a read-only transaction.
type ReadOnlyQuerier interface {
	SelectReadOnly(ctx context.Context, stmt string, args ...any) (*gateway.Rows, error)
}

type Result struct {
	Columns []string  `json:"columns"`
	Rows    [][]any   `json:"rows"`
	RanAt   time.Time `json:"ran_at"`
}

type Runner struct {
	gw         gateway.Gateway
	allowAdHoc bool
	logger     zerolog.Logger
}

func NewRunner(gw gateway.Gateway, allowAdHoc bool, logger zerolog.Logger) *Runner {
	return &Runner{gw: gw, allowAdHoc: allowAdHoc, logger: logger}
}

// Run executes a caller-supplied query read-only and returns the result set
// with column names in query order.
func (r *Runner) Run(ctx context.Context, query string) (*Result, error) {
	if !r.allowAdHoc {
		return nil, ErrNotPermitted
	}

	var rows *gateway.Rows
	var err error
	if ro, ok := r.gw.(ReadOnlyQuerier); ok {
		rows, err = ro.SelectReadOnly(ctx, query)
	} else {
		rows, err = r.gw.Select(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Info().Int("rows", len(rows.Values)).Msg("report query executed")
	return &Result{Columns: rows.Columns, Rows: rows.Values, RanAt: time.Now().UTC()}, nil
}

// WriteCSV emits the result as comma-separated values, header row first,
// columns in result order.
func (r *Runner) WriteCSV(w io.Writer, res *Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(res.Columns); err != nil {
		return err
	}
	record := make([]string, len(res.Columns))
	for _, row := range res.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) && row[i] != nil {
				record[i] = formatCell(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case time.Time:
		return c.Format(time.RFC3339)
	case []byte:
		return string(c)
	default:
		return fmt.Sprint(c)
	}
}
