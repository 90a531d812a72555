package variance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/auditflow/auditflow/internal/ledger"
)

// ErrNegativeThreshold is returned when a caller asks for a threshold below zero.
var ErrNegativeThreshold = errors.New("variance: threshold must not be negative")

// Service runs variance analysis against a ledger source.
type Service struct {
	source ledger.Source
	logger *slog.Logger
}

// NewService builds the service.
func NewService(source ledger.Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Analyze reads both periods in one session and computes the report.
func (s *Service) Analyze(ctx context.Context, threshold decimal.Decimal) (Report, error) {
	if threshold.IsNegative() {
		return Report{}, fmt.Errorf("%w: %s", ErrNegativeThreshold, threshold)
	}
	var current, previous ledger.BalanceSet
	err := s.source.WithSession(ctx, func(r ledger.Reader) error {
		var err error
		current, err = ledger.SelectAllBalances(ctx, r, ledger.PeriodCurrent)
		if err != nil {
			return err
		}
		previous, err = ledger.SelectAllBalances(ctx, r, ledger.PeriodPrevious)
		return err
	})
	if err != nil {
		return Report{}, err
	}
	s.warnDuplicates(current)
	s.warnDuplicates(previous)
	return ComputeVariance(current.Amounts, previous.Amounts, threshold), nil
}

// Account names are the join key, so a repeated name silently hides all but
// the last balance read for it.
func (s *Service) warnDuplicates(set ledger.BalanceSet) {
	for _, name := range set.Duplicates {
		s.logger.Warn("duplicate account name collapsed, last balance kept",
			slog.String("period", string(set.Period)),
			slog.String("account_name", name),
		)
	}
}

// ExportRows formats records into CSV-ready strings.
func ExportRows(records []Record) [][]string {
	out := make([][]string, 0, len(records)+1)
	header := []string{"Account", "Current", "Previous", "Variance", "Variance %", "Exceeds Threshold"}
	out = append(out, header)
	for _, row := range records {
		out = append(out, []string{
			row.AccountName,
			row.CurrentBalance.StringFixed(2),
			row.PreviousBalance.StringFixed(2),
			row.VarianceAmount.StringFixed(2),
			row.VariancePercentage.StringFixed(2),
			fmt.Sprintf("%t", row.ExceedsThreshold),
		})
	}
	return out
}
