// Package sink defines the outbound storage boundary for confirmed expenses
// and its backends.
package sink

import (
	"context"

	"github.com/gsantin/spesebot/internal/expense"
)

// Sink appends finalized expenses to month-partitioned storage.
type Sink interface {
	// Append writes one expense row to the partition named by the month
	// token. The row column order is fixed: name, day, price, primary
	// category, secondary category.
	Append(ctx context.Context, month string, rec expense.Record) error

	// EnsureWorksheet makes sure the partition for the month token exists.
	// It is idempotent and is called whenever the active month changes.
	EnsureWorksheet(ctx context.Context, month string) error
}
