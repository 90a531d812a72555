package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/auditflow/auditflow/internal/ledger"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerReconcile checks that debits and credits agree for each period.
	TaskLedgerReconcile = "ledger:reconcile"
)

// ReconcilePayload selects the periods to check. Empty means all periods.
type ReconcilePayload struct {
	Periods []string `json:"periods,omitempty"`
}

// NewReconcileTask constructs an Asynq task for the given periods.
func NewReconcileTask(periods ...ledger.Period) (*asynq.Task, error) {
	payload := ReconcilePayload{}
	for _, p := range periods {
		if !p.Valid() {
			return nil, fmt.Errorf("jobs: reconcile task: %w: %q", ledger.ErrUnknownPeriod, string(p))
		}
		payload.Periods = append(payload.Periods, string(p))
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerReconcile, data), nil
}
