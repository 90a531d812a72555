// Package reconcile verifies that a period's debits and credits agree.
package reconcile

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/auditflow/auditflow/internal/ledger"
)

// Tolerance is the absolute difference below which totals are considered equal.
var Tolerance = decimal.New(1, -2)

// Result reports debit and credit totals for one period.
type Result struct {
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	IsBalanced  bool            `json:"is_balanced"`
}

// Difference returns debit minus credit.
func (r Result) Difference() decimal.Decimal {
	return r.DebitTotal.Sub(r.CreditTotal)
}

// CheckBalanced totals debits and credits of period and compares them.
func CheckBalanced(ctx context.Context, r ledger.Reader, p ledger.Period) (Result, error) {
	debit, err := ledger.SelectTotal(ctx, r, p, ledger.ColumnDebit)
	if err != nil {
		return Result{}, err
	}
	credit, err := ledger.SelectTotal(ctx, r, p, ledger.ColumnCredit)
	if err != nil {
		return Result{}, err
	}
	return Result{
		DebitTotal:  debit,
		CreditTotal: credit,
		IsBalanced:  Balanced(debit, credit),
	}, nil
}

// Balanced reports whether |debit - credit| < Tolerance.
func Balanced(debit, credit decimal.Decimal) bool {
	return debit.Sub(credit).Abs().LessThan(Tolerance)
}
