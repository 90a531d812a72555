package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/reconcile"
)

func TestOpenLedgerFromFixture(t *testing.T) {
	src, closeFn, err := OpenLedger(context.Background(), &Config{LedgerFixture: "testdata/ledger.json"}, quietLogger())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, src.Ping(context.Background()))
	err = src.WithSession(context.Background(), func(r ledger.Reader) error {
		res, err := reconcile.CheckBalanced(context.Background(), r, ledger.PeriodCurrent)
		require.NoError(t, err)
		assert.True(t, res.IsBalanced)
		assert.Equal(t, "1500.5", res.DebitTotal.String())
		return nil
	})
	require.NoError(t, err)
}

func TestOpenLedgerErrors(t *testing.T) {
	_, _, err := OpenLedger(context.Background(), &Config{LedgerFixture: "testdata/missing.json"}, nil)
	assert.ErrorContains(t, err, "ledger: read fixture")

	_, _, err = OpenLedger(context.Background(), &Config{}, nil)
	assert.Error(t, err)
}
