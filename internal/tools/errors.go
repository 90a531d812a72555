package tools

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument marks request values outside their allowed domain.
	ErrInvalidArgument = errors.New("tools: invalid argument")
	// ErrUnknownTool is returned when no tool is registered under a name.
	ErrUnknownTool = errors.New("tools: unknown tool")
)

// InvalidArgumentError names the offending field, its value and what would
// have been accepted.
type InvalidArgumentError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s=%q (allowed: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Is lets errors.Is match ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}
