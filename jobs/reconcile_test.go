package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/auditflow/auditflow/internal/jobs"
	"github.com/auditflow/auditflow/internal/ledger"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

type failingSource struct{ err error }

func (s failingSource) WithSession(context.Context, func(ledger.Reader) error) error {
	return s.err
}

func testSource() *ledger.MemorySource {
	return ledger.NewMemorySource(
		[]ledger.Row{
			{AccountName: "Cash", Debit: d("150.25")},
			{AccountName: "Equity", Credit: d("150.25")},
		},
		[]ledger.Row{
			{AccountName: "Cash", Debit: d("100")},
			{AccountName: "Equity", Credit: d("99.98")},
		},
	)
}

func TestNewReconcileTask(t *testing.T) {
	task, err := NewReconcileTask(ledger.PeriodPrevious)
	require.NoError(t, err)
	assert.Equal(t, TaskLedgerReconcile, task.Type())

	var payload ReconcilePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, []string{"previous"}, payload.Periods)

	_, err = NewReconcileTask(ledger.Period("next"))
	assert.ErrorIs(t, err, ledger.ErrUnknownPeriod)
}

func TestReconcileJobReportsBothPeriods(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	job := NewReconcileJob(testSource(), logger, jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewReconcileTask()
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	out := logs.String()
	assert.Contains(t, out, "ledger balanced")
	assert.Contains(t, out, "period=current")
	assert.Contains(t, out, "ledger out of balance")
	assert.Contains(t, out, "difference=0.02")
}

func TestReconcileJobRun(t *testing.T) {
	job := NewReconcileJob(testSource(), nil, nil)

	results, err := job.Run(context.Background(), []ledger.Period{ledger.PeriodCurrent, ledger.PeriodPrevious})
	require.NoError(t, err)
	assert.True(t, results[ledger.PeriodCurrent].IsBalanced)
	assert.False(t, results[ledger.PeriodPrevious].IsBalanced)
	assert.True(t, results[ledger.PeriodPrevious].CreditTotal.Equal(d("99.98")))
}

func TestReconcileJobBadPayloadSkipsRetry(t *testing.T) {
	job := NewReconcileJob(testSource(), nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerReconcile, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskLedgerReconcile, []byte(`{"periods":["last_year"]}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestReconcileJobSurfacesSourceFailure(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	job := NewReconcileJob(failingSource{err: boom}, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerReconcile, nil))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
