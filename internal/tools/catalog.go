package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/auditflow/auditflow/internal/ledger"
)

// Tool names exposed to callers.
const (
	ToolTotal            = "total"
	ToolAccountNames     = "accountNames"
	ToolGLAccounts       = "glAccounts"
	ToolTotalMatch       = "totalMatch"
	ToolVarianceAnalysis = "varianceAnalysis"
)

// Input documents one request field of a tool.
type Input struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Enum        []string `json:"enum,omitempty"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Tool describes a callable operation.
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Inputs      []Input `json:"inputs"`

	call func(ctx context.Context, s *Service, args json.RawMessage) (any, error)
}

var (
	periodInput = Input{
		Name:        "period",
		Type:        "string",
		Enum:        ledger.PeriodValues(),
		Required:    true,
		Description: "Reporting period to read.",
	}
	toolCallInput = Input{
		Name:        "toolCallId",
		Type:        "string",
		Description: "Caller supplied id echoed as tool_call_id; generated when empty.",
	}
)

var catalog = map[string]Tool{
	ToolTotal: {
		Name:        ToolTotal,
		Description: "Calculates the total value of a column for the given period. Read-only.",
		Inputs: []Input{
			periodInput,
			{Name: "column", Type: "string", Enum: ledger.ColumnValues(), Required: true, Description: "Column to sum."},
			toolCallInput,
		},
		call: func(ctx context.Context, s *Service, args json.RawMessage) (any, error) {
			var req TotalRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return s.Total(ctx, req)
		},
	},
	ToolAccountNames: {
		Name:        ToolAccountNames,
		Description: "Retrieves all distinct account names for the given period. Read-only.",
		Inputs:      []Input{periodInput, toolCallInput},
		call: func(ctx context.Context, s *Service, args json.RawMessage) (any, error) {
			var req PeriodRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return s.AccountNames(ctx, req)
		},
	},
	ToolGLAccounts: {
		Name:        ToolGLAccounts,
		Description: "Retrieves all distinct GL account numbers for the given period. Read-only.",
		Inputs:      []Input{periodInput, toolCallInput},
		call: func(ctx context.Context, s *Service, args json.RawMessage) (any, error) {
			var req PeriodRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return s.GLAccounts(ctx, req)
		},
	},
	ToolTotalMatch: {
		Name:        ToolTotalMatch,
		Description: "Compares total debit and total credit of the given period. Read-only.",
		Inputs:      []Input{periodInput, toolCallInput},
		call: func(ctx context.Context, s *Service, args json.RawMessage) (any, error) {
			var req PeriodRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return s.TotalMatch(ctx, req)
		},
	},
	ToolVarianceAnalysis: {
		Name:        ToolVarianceAnalysis,
		Description: "Performs variance analysis between current and previous period balances. Read-only.",
		Inputs: []Input{
			{Name: "threshold", Type: "number", Default: 5.0, Description: "Percentage cutoff for flagging a variance."},
			toolCallInput,
		},
		call: func(ctx context.Context, s *Service, args json.RawMessage) (any, error) {
			var req VarianceRequest
			if err := decodeArgs(args, &req); err != nil {
				return nil, err
			}
			return s.VarianceAnalysis(ctx, req)
		},
	},
}

// Tools returns the catalogue sorted by name.
func (s *Service) Tools() []Tool {
	out := make([]Tool, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call dispatches a named tool with raw JSON arguments.
func (s *Service) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return tool.call(ctx, s, args)
}

func decodeArgs(args json.RawMessage, dest any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, dest); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &InvalidArgumentError{Field: typeErr.Field, Value: typeErr.Value, Allowed: []string{typeErr.Type.String()}}
		}
		return &InvalidArgumentError{Field: "arguments", Value: err.Error(), Allowed: []string{"JSON object"}}
	}
	return nil
}
