package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// SelectTotal sums column over every row of period. An empty table totals zero.
// Arguments are checked before the reader is touched.
func SelectTotal(ctx context.Context, r Reader, p Period, c Column) (decimal.Decimal, error) {
	if !c.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidColumn, string(c))
	}
	if !p.Valid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	total, err := r.SumColumn(ctx, p, c)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SelectDistinctAccountNames returns distinct account names in store order.
func SelectDistinctAccountNames(ctx context.Context, r Reader, p Period) ([]string, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	names, err := r.DistinctAccountNames(ctx, p)
	if err != nil {
		return nil, err
	}
	return nonNil(names), nil
}

// SelectDistinctAccountCodes returns distinct GL account codes in store order.
func SelectDistinctAccountCodes(ctx context.Context, r Reader, p Period) ([]string, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	codes, err := r.DistinctAccountCodes(ctx, p)
	if err != nil {
		return nil, err
	}
	return nonNil(codes), nil
}

// BalanceSet is the per-name balance snapshot of one period.
type BalanceSet struct {
	Period  Period
	Amounts map[string]decimal.Decimal
	// Duplicates lists names that appeared more than once in the store. Their
	// amount is the last one read.
	Duplicates []string
}

// SelectAllBalances reads every balance of period and collapses them by account
// name. When a name repeats the last value read wins and the name is reported in
// Duplicates so the caller can warn about it.
func SelectAllBalances(ctx context.Context, r Reader, p Period) (BalanceSet, error) {
	if !p.Valid() {
		return BalanceSet{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
	}
	rows, err := r.Balances(ctx, p)
	if err != nil {
		return BalanceSet{}, err
	}
	set := CollapseBalances(rows)
	set.Period = p
	return set, nil
}

// CollapseBalances folds rows into a name keyed map using last-write-wins.
func CollapseBalances(rows []Balance) BalanceSet {
	set := BalanceSet{Amounts: make(map[string]decimal.Decimal, len(rows))}
	seen := make(map[string]bool)
	for _, row := range rows {
		if _, ok := set.Amounts[row.AccountName]; ok && !seen[row.AccountName] {
			seen[row.AccountName] = true
			set.Duplicates = append(set.Duplicates, row.AccountName)
		}
		set.Amounts[row.AccountName] = row.Amount
	}
	return set
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
