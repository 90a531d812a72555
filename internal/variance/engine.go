package variance

import (
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// DefaultThreshold is the percentage cutoff used when the caller gives none.
	DefaultThreshold = decimal.NewFromInt(5)

	hundred = decimal.NewFromInt(100)
)

// Record describes one account whose balance moved between periods.
type Record struct {
	AccountName        string          `json:"account_name"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	PreviousBalance    decimal.Decimal `json:"previous_balance"`
	VarianceAmount     decimal.Decimal `json:"variance_amount"`
	VariancePercentage decimal.Decimal `json:"variance_percentage"`
	ExceedsThreshold   bool            `json:"exceeds_threshold"`
}

// Report is the outcome of one variance run.
type Report struct {
	// TotalAccounts counts the union of account names across both periods,
	// including accounts that did not move.
	TotalAccounts int
	VarianceCount int
	ThresholdUsed decimal.Decimal
	// Variances holds only records at or above the threshold.
	Variances []Record
}

// Percentage returns |(current - previous) / previous| * 100 rounded to two
// places. A zero previous balance yields 100 when current is non-zero and 0
// otherwise. Swapping the arguments generally changes the result.
func Percentage(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return current.Sub(previous).Div(previous).Abs().Mul(hundred).Round(2)
}

// ComputeVariance joins current and previous balances on account name and
// keeps the accounts whose percentage change reaches threshold. Names missing
// from one side count as a zero balance there.
func ComputeVariance(current, previous map[string]decimal.Decimal, threshold decimal.Decimal) Report {
	names := make(map[string]struct{}, len(current)+len(previous))
	for name := range current {
		names[name] = struct{}{}
	}
	for name := range previous {
		names[name] = struct{}{}
	}

	significant := make([]Record, 0)
	for name := range names {
		cur := current[name]
		prev := previous[name]
		pct := Percentage(cur, prev)
		if pct.IsZero() {
			continue
		}
		row := Record{
			AccountName:        name,
			CurrentBalance:     cur,
			PreviousBalance:    prev,
			VarianceAmount:     cur.Sub(prev),
			VariancePercentage: pct,
			ExceedsThreshold:   pct.GreaterThanOrEqual(threshold),
		}
		if row.ExceedsThreshold {
			significant = append(significant, row)
		}
	}
	sort.Slice(significant, func(i, j int) bool {
		ai, aj := significant[i].VarianceAmount.Abs(), significant[j].VarianceAmount.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return significant[i].AccountName < significant[j].AccountName
	})

	return Report{
		TotalAccounts: len(names),
		VarianceCount: len(significant),
		ThresholdUsed: threshold,
		Variances:     significant,
	}
}
