package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Reader issues read-only queries inside one session. Implementations may
// assume period and column arguments were already validated.
type Reader interface {
	SumColumn(ctx context.Context, p Period, c Column) (decimal.Decimal, error)
	DistinctAccountNames(ctx context.Context, p Period) ([]string, error)
	DistinctAccountCodes(ctx context.Context, p Period) ([]string, error)
	Balances(ctx context.Context, p Period) ([]Balance, error)
}

// Source hands out scoped sessions. The session is released when fn returns,
// whatever the outcome.
type Source interface {
	WithSession(ctx context.Context, fn func(Reader) error) error
}
