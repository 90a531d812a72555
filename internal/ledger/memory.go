package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
)

// MemorySource serves trial balances from process memory. Sessions read a
// copy taken when the session opens.
type MemorySource struct {
	mu   sync.RWMutex
	rows map[Period][]Row
}

// NewMemorySource builds a source from current and previous period rows.
func NewMemorySource(current, previous []Row) *MemorySource {
	return &MemorySource{rows: map[Period][]Row{
		PeriodCurrent:  slices.Clone(current),
		PeriodPrevious: slices.Clone(previous),
	}}
}

// Fixture is the on-disk shape accepted by LoadFixture.
type Fixture struct {
	Current  []Row `json:"current"`
	Previous []Row `json:"previous"`
}

// LoadFixture reads a JSON fixture file into a MemorySource.
func LoadFixture(path string) (*MemorySource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ledger: read fixture: %w", err)
	}
	var fx Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("ledger: decode fixture %s: %w", path, err)
	}
	return NewMemorySource(fx.Current, fx.Previous), nil
}

// WithSession implements Source.
func (s *MemorySource) WithSession(ctx context.Context, fn func(Reader) error) error {
	s.mu.RLock()
	snapshot := memReader{rows: map[Period][]Row{
		PeriodCurrent:  slices.Clone(s.rows[PeriodCurrent]),
		PeriodPrevious: slices.Clone(s.rows[PeriodPrevious]),
	}}
	s.mu.RUnlock()
	return fn(snapshot)
}

// Ping always succeeds.
func (s *MemorySource) Ping(context.Context) error { return nil }

type memReader struct {
	rows map[Period][]Row
}

func (r memReader) SumColumn(_ context.Context, p Period, c Column) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, row := range r.rows[p] {
		switch c {
		case ColumnDebit:
			total = total.Add(row.Debit)
		case ColumnCredit:
			total = total.Add(row.Credit)
		case ColumnBalance:
			total = total.Add(row.Balance)
		default:
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidColumn, string(c))
		}
	}
	return total, nil
}

func (r memReader) DistinctAccountNames(_ context.Context, p Period) ([]string, error) {
	return distinctBy(r.rows[p], func(row Row) string { return row.AccountName }), nil
}

func (r memReader) DistinctAccountCodes(_ context.Context, p Period) ([]string, error) {
	return distinctBy(r.rows[p], func(row Row) string { return row.AccountCode }), nil
}

func (r memReader) Balances(_ context.Context, p Period) ([]Balance, error) {
	out := make([]Balance, 0, len(r.rows[p]))
	for _, row := range r.rows[p] {
		out = append(out, Balance{AccountName: row.AccountName, Amount: row.Balance})
	}
	return out, nil
}

func distinctBy(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
