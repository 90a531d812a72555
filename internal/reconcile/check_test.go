package reconcile

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditflow/auditflow/internal/ledger"
)

func TestBalancedTolerance(t *testing.T) {
	cases := []struct {
		name   string
		debit  string
		credit string
		want   bool
	}{
		{name: "equal", debit: "100", credit: "100", want: true},
		{name: "just inside", debit: "100.0099", credit: "100", want: true},
		{name: "exactly tolerance", debit: "100.01", credit: "100", want: false},
		{name: "credit heavy", debit: "100", credit: "100.01", want: false},
		{name: "credit heavy inside", debit: "100", credit: "100.0099", want: true},
		{name: "far apart", debit: "5", credit: "500", want: false},
		{name: "zeros", debit: "0", credit: "0", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Balanced(decimal.RequireFromString(tc.debit), decimal.RequireFromString(tc.credit))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckBalanced(t *testing.T) {
	src := ledger.NewMemorySource(
		[]ledger.Row{
			{AccountName: "Cash", Debit: decimal.RequireFromString("700.10")},
			{AccountName: "Sales", Credit: decimal.RequireFromString("700.10")},
		},
		[]ledger.Row{
			{AccountName: "Cash", Debit: decimal.RequireFromString("50")},
			{AccountName: "Sales", Credit: decimal.RequireFromString("49.99")},
		},
	)
	err := src.WithSession(context.Background(), func(r ledger.Reader) error {
		current, err := CheckBalanced(context.Background(), r, ledger.PeriodCurrent)
		require.NoError(t, err)
		assert.True(t, current.IsBalanced)
		assert.True(t, current.DebitTotal.Equal(decimal.RequireFromString("700.1")))
		assert.True(t, current.Difference().IsZero())

		previous, err := CheckBalanced(context.Background(), r, ledger.PeriodPrevious)
		require.NoError(t, err)
		assert.False(t, previous.IsBalanced)
		assert.Equal(t, "0.01", previous.Difference().String())
		return nil
	})
	require.NoError(t, err)
}

func TestCheckBalancedEmptyPeriod(t *testing.T) {
	src := ledger.NewMemorySource(nil, nil)
	err := src.WithSession(context.Background(), func(r ledger.Reader) error {
		res, err := CheckBalanced(context.Background(), r, ledger.PeriodPrevious)
		require.NoError(t, err)
		assert.True(t, res.IsBalanced)
		assert.True(t, res.DebitTotal.IsZero())
		assert.True(t, res.CreditTotal.IsZero())
		return nil
	})
	require.NoError(t, err)
}

func TestCheckBalancedUnknownPeriod(t *testing.T) {
	src := ledger.NewMemorySource(nil, nil)
	err := src.WithSession(context.Background(), func(r ledger.Reader) error {
		_, err := CheckBalanced(context.Background(), r, ledger.Period("future"))
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrUnknownPeriod)
}
