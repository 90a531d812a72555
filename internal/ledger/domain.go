package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Period names one of the two reporting windows backed by a trial balance table.
type Period string

const (
	// PeriodCurrent is the current reporting year.
	PeriodCurrent Period = "current"
	// PeriodPrevious is the prior reporting year.
	PeriodPrevious Period = "previous"
)

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	return p == PeriodCurrent || p == PeriodPrevious
}

// Column names a summable amount column of a trial balance row.
type Column string

const (
	ColumnDebit   Column = "debit"
	ColumnCredit  Column = "credit"
	ColumnBalance Column = "balance"
)

// Valid reports whether c is one of the summable columns.
func (c Column) Valid() bool {
	switch c {
	case ColumnDebit, ColumnCredit, ColumnBalance:
		return true
	}
	return false
}

// PeriodValues lists accepted period names in display order.
func PeriodValues() []string {
	return []string{string(PeriodCurrent), string(PeriodPrevious)}
}

// ColumnValues lists accepted column names in display order.
func ColumnValues() []string {
	return []string{string(ColumnDebit), string(ColumnCredit), string(ColumnBalance)}
}

// ParsePeriod resolves a period name.
func ParsePeriod(value string) (Period, error) {
	p := Period(value)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, value)
	}
	return p, nil
}

// ParseColumn resolves a column name.
func ParseColumn(value string) (Column, error) {
	c := Column(value)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumn, value)
	}
	return c, nil
}

// Table describes the physical table behind a period.
type Table struct {
	Period Period
	Name   string
}

// TableFor maps a period to its table. The set is closed.
func TableFor(p Period) (Table, error) {
	switch p {
	case PeriodCurrent:
		return Table{Period: p, Name: "trial_balance_current_year"}, nil
	case PeriodPrevious:
		return Table{Period: p, Name: "trial_balance_previous_year"}, nil
	}
	return Table{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
}

// Row is one trial balance line as stored.
type Row struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"`
}

// Balance pairs an account name with its balance, in read order.
type Balance struct {
	AccountName string
	Amount      decimal.Decimal
}

var (
	// ErrUnknownPeriod is returned for period names outside {current, previous}.
	ErrUnknownPeriod = errors.New("ledger: unknown period")
	// ErrInvalidColumn is returned for column names outside {debit, credit, balance}.
	ErrInvalidColumn = errors.New("ledger: invalid column")
	// ErrDataSourceUnavailable wraps connection and query failures.
	ErrDataSourceUnavailable = errors.New("ledger: data source unavailable")
)
