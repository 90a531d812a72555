package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	ledgerTotal *prometheus.GaugeVec
	balanced    *prometheus.GaugeVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker provides lifecycle instrumentation helpers for a single job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track spawns a tracker for the given job name.
func (m *Metrics) Track(job string) *Tracker {
	if m == nil {
		return &Tracker{job: job, start: time.Now()}
	}
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End finalises the tracker, recording duration, success/failure counts and
// returning the provided error untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		t.metrics.failures.WithLabelValues(t.job).Inc()
	}
	t.metrics.runs.WithLabelValues(t.job, status).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

// ObserveReconciliation publishes the debit and credit totals of a period and
// whether they agreed.
func (m *Metrics) ObserveReconciliation(period string, debit, credit decimal.Decimal, balanced bool) {
	if m == nil {
		return
	}
	m.ledgerTotal.WithLabelValues(period, "debit").Set(debit.InexactFloat64())
	m.ledgerTotal.WithLabelValues(period, "credit").Set(credit.InexactFloat64())
	value := 0.0
	if balanced {
		value = 1
	}
	m.balanced.WithLabelValues(period).Set(value)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auditflow_jobs_total",
		Help: "Total job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auditflow_jobs_failures_total",
		Help: "Total failures observed for background jobs.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "auditflow_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	ledgerTotal := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "auditflow_ledger_total",
		Help: "Last reconciled column total per period.",
	}, []string{"period", "column"})
	balanced := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "auditflow_ledger_balanced",
		Help: "1 when the last reconciliation found debits equal to credits within tolerance.",
	}, []string{"period"})
	registerer.MustRegister(runs, failures, duration, ledgerTotal, balanced)
	return &Metrics{runs: runs, failures: failures, duration: duration, ledgerTotal: ledgerTotal, balanced: balanced}
}
