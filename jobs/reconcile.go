package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/auditflow/auditflow/internal/jobs"
	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/reconcile"
)

// ReconcileJob runs the balance check for every requested period inside one
// ledger session and publishes the outcome.
type ReconcileJob struct {
	Source  ledger.Source
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReconcileJob initialises the reconciliation handler.
func NewReconcileJob(source ledger.Source, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReconcileJob {
	return &ReconcileJob{Source: source, Logger: logger, Metrics: metrics}
}

// Handle executes the reconciliation. Unbalanced periods are reported, not
// failed; only data access errors make asynq retry.
func (j *ReconcileJob) Handle(ctx context.Context, t *asynq.Task) (err error) {
	if j == nil || j.Source == nil {
		return errors.New("reconcile: handler not configured")
	}
	var payload ReconcilePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("reconcile: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	periods, err := resolvePeriods(payload.Periods)
	if err != nil {
		return fmt.Errorf("reconcile: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskLedgerReconcile)
	defer func() {
		_ = tracker.End(err)
	}()

	results, err := j.Run(ctx, periods)
	if err != nil {
		j.logger().Error("reconciliation failed", slog.Any("error", err))
		return err
	}
	for _, p := range periods {
		res := results[p]
		logger := j.logger().With(
			slog.String("period", string(p)),
			slog.String("debit_total", res.DebitTotal.String()),
			slog.String("credit_total", res.CreditTotal.String()),
		)
		if res.IsBalanced {
			logger.Info("ledger balanced")
		} else {
			logger.Warn("ledger out of balance", slog.String("difference", res.Difference().String()))
		}
		j.Metrics.ObserveReconciliation(string(p), res.DebitTotal, res.CreditTotal, res.IsBalanced)
	}
	return nil
}

// Run checks periods in a single session.
func (j *ReconcileJob) Run(ctx context.Context, periods []ledger.Period) (map[ledger.Period]reconcile.Result, error) {
	results := make(map[ledger.Period]reconcile.Result, len(periods))
	err := j.Source.WithSession(ctx, func(r ledger.Reader) error {
		for _, p := range periods {
			res, err := reconcile.CheckBalanced(ctx, r, p)
			if err != nil {
				return fmt.Errorf("reconcile %s: %w", p, err)
			}
			results[p] = res
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (j *ReconcileJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerReconcile))
	}
	return slog.Default().With(slog.String("job", TaskLedgerReconcile))
}

func resolvePeriods(names []string) ([]ledger.Period, error) {
	if len(names) == 0 {
		return []ledger.Period{ledger.PeriodCurrent, ledger.PeriodPrevious}, nil
	}
	out := make([]ledger.Period, 0, len(names))
	for _, name := range names {
		p, err := ledger.ParsePeriod(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
