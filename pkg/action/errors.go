package action

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCanceled signals the dispatch was abandoned because its context was
	// cancelled or its owner moved on. Callers suppress it.
	ErrCanceled = errors.New("action: canceled")
	// ErrUnknownAction is returned when dispatching an unregistered name.
	ErrUnknownAction = errors.New("action: unknown action")
)

// Reason codes used by the dispatcher and executors.
const (
	CodeInvalidArgument = "invalid_argument"
	CodeRejected        = "rejected"
	CodeInternal        = "internal"
	CodeTransport       = "transport"
)

// Reason is one cause of a Failure. Field is set when the reason applies to a
// specific record field.
type Reason struct {
	Code    string `json:"code" yaml:"code"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Failure is the typed error returned when an external operation rejects the
// request. It never means the in-memory record was damaged.
type Failure struct {
	Action  string
	Reasons []Reason
}

// Error implements error.
func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	msgs := make([]string, 0, len(f.Reasons))
	for _, r := range f.Reasons {
		if r.Field != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", r.Field, r.Message))
			continue
		}
		msgs = append(msgs, r.Message)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("action %s failed", f.Action)
	}
	return fmt.Sprintf("action %s failed: %s", f.Action, strings.Join(msgs, "; "))
}

// Fail builds a Failure with a single reason.
func Fail(code, message string) *Failure {
	return &Failure{Reasons: []Reason{{Code: code, Message: message}}}
}

// InvalidArgument mirrors the failure returned when a required input such as
// the current quote is absent.
func InvalidArgument(argument string, value any) *Failure {
	return &Failure{Reasons: []Reason{{
		Code:    CodeInvalidArgument,
		Field:   argument,
		Message: fmt.Sprintf("invalid argument %s: %v", argument, value),
	}}}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsFailure reports whether err carries a *Failure.
func IsFailure(err error) bool {
	_, ok := AsFailure(err)
	return ok
}

func toFailure(name string, err error) *Failure {
	if f, ok := AsFailure(err); ok {
		out := *f
		out.Action = name
		out.Reasons = append([]Reason(nil), f.Reasons...)
		return &out
	}
	return &Failure{Action: name, Reasons: []Reason{{Code: CodeInternal, Message: err.Error()}}}
}
