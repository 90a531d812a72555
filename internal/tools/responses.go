package tools

import (
	"github.com/shopspring/decimal"

	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/variance"
)

// Schema tags carried by every response.
const (
	SchemaTotal            = "auditflow.total.v1"
	SchemaAccountNames     = "auditflow.account_names.v1"
	SchemaGLAccounts       = "auditflow.gl_accounts.v1"
	SchemaTotalMatch       = "auditflow.total_match.v1"
	SchemaVarianceAnalysis = "auditflow.variance_analysis.v1"
)

func init() {
	// Tool clients read amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Responses are returned by value and own their slices; nothing handed out is
// shared with later calls.

// TotalResponse answers the total tool.
type TotalResponse struct {
	Schema     string          `json:"schema"`
	ToolCallID string          `json:"tool_call_id"`
	Period     ledger.Period   `json:"period"`
	Column     ledger.Column   `json:"column"`
	Total      decimal.Decimal `json:"total"`
}

// AccountNamesResponse answers the accountNames tool.
type AccountNamesResponse struct {
	Schema       string        `json:"schema"`
	ToolCallID   string        `json:"tool_call_id"`
	AccountNames []string      `json:"account_names"`
	Period       ledger.Period `json:"period"`
}

// GLAccountsResponse answers the glAccounts tool.
type GLAccountsResponse struct {
	Schema     string        `json:"schema"`
	ToolCallID string        `json:"tool_call_id"`
	GLAccounts []string      `json:"gl_accounts"`
	Period     ledger.Period `json:"period"`
}

// TotalMatchResponse answers the totalMatch tool.
type TotalMatchResponse struct {
	Schema      string          `json:"schema"`
	ToolCallID  string          `json:"tool_call_id"`
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	IsBalanced  bool            `json:"is_balanced"`
	Period      ledger.Period   `json:"period"`
}

// VarianceAnalysisResponse answers the varianceAnalysis tool.
type VarianceAnalysisResponse struct {
	Schema                      string            `json:"schema"`
	ToolCallID                  string            `json:"tool_call_id"`
	TotalAccounts               int               `json:"total_accounts"`
	VarianceCount               int               `json:"variance_count"`
	ThresholdUsed               decimal.Decimal   `json:"threshold_used"`
	VariancesExceedingThreshold []variance.Record `json:"variances_exceeding_threshold"`
}
