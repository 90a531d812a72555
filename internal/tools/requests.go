package tools

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TotalRequest asks for the sum of one column of one period.
type TotalRequest struct {
	Period     string `json:"period" validate:"oneof=current previous"`
	Column     string `json:"column" validate:"oneof=debit credit balance"`
	ToolCallID string `json:"toolCallId,omitempty"`
}

// PeriodRequest selects a single period.
type PeriodRequest struct {
	Period     string `json:"period" validate:"oneof=current previous"`
	ToolCallID string `json:"toolCallId,omitempty"`
}

// VarianceRequest configures a variance run. A nil Threshold means 5%.
type VarianceRequest struct {
	Threshold  *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0"`
	ToolCallID string   `json:"toolCallId,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateRequest checks req and converts the first failure into an
// InvalidArgumentError.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("tools: validate: %w", err)
	}
	fe := fieldErrs[0]
	return &InvalidArgumentError{
		Field:   fe.Field(),
		Value:   formatValue(fe.Value()),
		Allowed: allowedFor(fe),
	}
}

func allowedFor(fe validator.FieldError) []string {
	switch fe.Tag() {
	case "oneof":
		return strings.Fields(fe.Param())
	case "gte":
		return []string{">= " + fe.Param()}
	}
	return []string{fe.Tag()}
}

func formatValue(v any) string {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	return fmt.Sprint(rv.Interface())
}
