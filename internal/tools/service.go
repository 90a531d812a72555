package tools

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/reconcile"
	"github.com/auditflow/auditflow/internal/variance"
)

// Service implements the five read-only ledger tools. Every call validates its
// request first and then runs inside exactly one ledger session.
type Service struct {
	source   ledger.Source
	variance *variance.Service
	newID    func() string
}

// NewService wires the tools to a ledger source and variance engine.
func NewService(source ledger.Source, analyzer *variance.Service) *Service {
	return &Service{source: source, variance: analyzer, newID: uuid.NewString}
}

// Total sums one column of one period.
func (s *Service) Total(ctx context.Context, req TotalRequest) (TotalResponse, error) {
	if err := validateRequest(req); err != nil {
		return TotalResponse{}, err
	}
	period, column := ledger.Period(req.Period), ledger.Column(req.Column)
	var total decimal.Decimal
	err := s.source.WithSession(ctx, func(r ledger.Reader) error {
		var err error
		total, err = ledger.SelectTotal(ctx, r, period, column)
		return err
	})
	if err != nil {
		return TotalResponse{}, err
	}
	return TotalResponse{
		Schema:     SchemaTotal,
		ToolCallID: s.callID(req.ToolCallID),
		Period:     period,
		Column:     column,
		Total:      total,
	}, nil
}

// AccountNames lists distinct account names of a period.
func (s *Service) AccountNames(ctx context.Context, req PeriodRequest) (AccountNamesResponse, error) {
	if err := validateRequest(req); err != nil {
		return AccountNamesResponse{}, err
	}
	period := ledger.Period(req.Period)
	var names []string
	err := s.source.WithSession(ctx, func(r ledger.Reader) error {
		var err error
		names, err = ledger.SelectDistinctAccountNames(ctx, r, period)
		return err
	})
	if err != nil {
		return AccountNamesResponse{}, err
	}
	return AccountNamesResponse{
		Schema:       SchemaAccountNames,
		ToolCallID:   s.callID(req.ToolCallID),
		AccountNames: names,
		Period:       period,
	}, nil
}

// GLAccounts lists distinct GL account codes of a period.
func (s *Service) GLAccounts(ctx context.Context, req PeriodRequest) (GLAccountsResponse, error) {
	if err := validateRequest(req); err != nil {
		return GLAccountsResponse{}, err
	}
	period := ledger.Period(req.Period)
	var codes []string
	err := s.source.WithSession(ctx, func(r ledger.Reader) error {
		var err error
		codes, err = ledger.SelectDistinctAccountCodes(ctx, r, period)
		return err
	})
	if err != nil {
		return GLAccountsResponse{}, err
	}
	return GLAccountsResponse{
		Schema:     SchemaGLAccounts,
		ToolCallID: s.callID(req.ToolCallID),
		GLAccounts: codes,
		Period:     period,
	}, nil
}

// TotalMatch reconciles debits against credits for a period.
func (s *Service) TotalMatch(ctx context.Context, req PeriodRequest) (TotalMatchResponse, error) {
	if err := validateRequest(req); err != nil {
		return TotalMatchResponse{}, err
	}
	period := ledger.Period(req.Period)
	var result reconcile.Result
	err := s.source.WithSession(ctx, func(r ledger.Reader) error {
		var err error
		result, err = reconcile.CheckBalanced(ctx, r, period)
		return err
	})
	if err != nil {
		return TotalMatchResponse{}, err
	}
	return TotalMatchResponse{
		Schema:      SchemaTotalMatch,
		ToolCallID:  s.callID(req.ToolCallID),
		DebitTotal:  result.DebitTotal,
		CreditTotal: result.CreditTotal,
		IsBalanced:  result.IsBalanced,
		Period:      period,
	}, nil
}

// VarianceAnalysis compares current and previous balances.
func (s *Service) VarianceAnalysis(ctx context.Context, req VarianceRequest) (VarianceAnalysisResponse, error) {
	if err := validateRequest(req); err != nil {
		return VarianceAnalysisResponse{}, err
	}
	threshold := variance.DefaultThreshold
	if req.Threshold != nil {
		threshold = decimal.NewFromFloat(*req.Threshold)
	}
	report, err := s.variance.Analyze(ctx, threshold)
	if err != nil {
		if errors.Is(err, variance.ErrNegativeThreshold) {
			return VarianceAnalysisResponse{}, &InvalidArgumentError{Field: "threshold", Value: threshold.String(), Allowed: []string{">= 0"}}
		}
		return VarianceAnalysisResponse{}, err
	}
	return VarianceAnalysisResponse{
		Schema:                      SchemaVarianceAnalysis,
		ToolCallID:                  s.callID(req.ToolCallID),
		TotalAccounts:               report.TotalAccounts,
		VarianceCount:               report.VarianceCount,
		ThresholdUsed:               report.ThresholdUsed,
		VariancesExceedingThreshold: report.Variances,
	}, nil
}

func (s *Service) callID(id string) string {
	if id != "" {
		return id
	}
	return s.newID()
}
