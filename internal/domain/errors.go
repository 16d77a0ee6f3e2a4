package domain

import (
	"fmt"
	"strconv"
)

// MalformedInputError reports a portfolio record that could not be decoded.
type MalformedInputError struct {
	Line  int    // 1-based line in the source, 0 when unknown
	Field string // column name, empty when the whole record is bad
	Err   error
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Line > 0 && e.Field != "":
		return fmt.Sprintf("malformed input at line %d, field %q: %v", e.Line, e.Field, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
	case e.Field != "":
		return fmt.Sprintf("malformed input, field %q: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("malformed input: %v", e.Err)
	}
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// InvalidParameterError reports a distribution parameter that makes sampling
// undefined, typically a policy with a non-positive term.
type InvalidParameterError struct {
	PolicyID  string // empty for model-level parameters
	Parameter string
	Value     float64
	Reason    string
}

func (e *InvalidParameterError) Error() string {
	value := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if e.PolicyID != "" {
		return fmt.Sprintf("invalid parameter %s=%s for policy %q: %s", e.Parameter, value, e.PolicyID, e.Reason)
	}
	return fmt.Sprintf("invalid parameter %s=%s: %s", e.Parameter, value, e.Reason)
}

// IOError reports an unreadable input or an unwritable output.
type IOError struct {
	Op   string // "read", "write", "upload", "list"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
