package param

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrorKind categorizes parse and declaration failures. The kind drives
// aggregation and suggestion behavior.
type ErrorKind string

const (
	ErrorDuplicateName        ErrorKind = "duplicate_name"
	ErrorCoercion             ErrorKind = "coercion"
	ErrorInvalidChoice        ErrorKind = "invalid_choice"
	ErrorCountOverflow        ErrorKind = "count_overflow"
	ErrorFrozenType           ErrorKind = "frozen_type"
	ErrorMissingRequired      ErrorKind = "missing_required"
	ErrorCallback             ErrorKind = "callback"
	ErrorUnrecognizedArgument ErrorKind = "unrecognized_argument"
	ErrorDeclaration          ErrorKind = "declaration"
)

// Warning-only kinds. These never fail a parse on their own; strict mode
// promotes them through Warning.asError.
const (
	WarnOverwrite  ErrorKind = "overwritten_value"
	WarnTypeChange ErrorKind = "type_changed"
	WarnNoValue    ErrorKind = "no_value"
)

// ParseError is the structured error attached to a parameter or token.
type ParseError struct {
	Kind       ErrorKind
	Param      string
	Token      string
	Message    string
	Suggestion string
}

func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a ParseError with the given kind and message.
func NewParseError(kind ErrorKind, message string) *ParseError {
	return &ParseError{Kind: kind, Message: message}
}

func errorf(kind ErrorKind, param, format string, args ...any) *ParseError {
	msg := fmt.Sprintf(format, args...)
	if param != "" {
		msg = param + ": " + msg
	}
	return &ParseError{Kind: kind, Param: param, Message: msg}
}

func coercionError(param, raw, msg string) *ParseError {
	e := errorf(ErrorCoercion, param, "cannot coerce %q (%s)", raw, msg)
	e.Token = raw
	return e
}

// withParam stamps a parameter name onto an error produced before the name
// was known (coercion helpers run below the matcher).
func withParam(err error, name string) error {
	var pe *ParseError
	if pe, _ = err.(*ParseError); pe == nil {
		return errorf(ErrorCoercion, name, "%s", err.Error())
	}
	if pe.Param == "" {
		pe.Param = name
		pe.Message = name + ": " + pe.Message
	}
	return pe
}

// Warning is a non-fatal diagnostic collected on the result. Under strict
// parsing warnings promote to errors.
type Warning struct {
	Kind       ErrorKind
	Message    string
	Suggestion string
}

func (w Warning) String() string {
	if w.Suggestion != "" {
		return w.Message + " (did you mean " + w.Suggestion + "?)"
	}
	return w.Message
}

func (w Warning) asError() *ParseError {
	return &ParseError{Kind: w.Kind, Message: w.Message, Suggestion: w.Suggestion}
}

// listErrors formats the fail-slow aggregate with one parameter per line.
func listErrors(es []error) string {
	if len(es) == 1 {
		return fmt.Sprintf("1 parsing error:\n  * %s", es[0])
	}
	points := make([]string, len(es))
	for i, err := range es {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d parsing errors:\n  %s", len(es), strings.Join(points, "\n  "))
}

// appendError accumulates err into the aggregate, keeping the custom
// formatter attached.
func appendError(agg *multierror.Error, err error) *multierror.Error {
	agg = multierror.Append(agg, err)
	agg.ErrorFormat = listErrors
	return agg
}
