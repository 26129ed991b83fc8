package field

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validation error codes emitted by the built-in validators. Custom validators
// use their own codes, conventionally prefixed with "custom.".
const (
	CodeRequired = "required"
	CodeType     = "type"
	CodeMin      = "range.min"
	CodeMax      = "range.max"
	CodeEnum     = "enum"
	CodeLength   = "length.max"
	CodeDateMin  = "date.min"
	CodeDateMax  = "date.max"
)

// ValidationError describes why a value was rejected. Message holds the
// formatted text when a Formatter is attached to the field, otherwise the
// validator's default message.
type ValidationError struct {
	Field   string
	Code    string
	Message string
	Details map[string]any
}

// Error implements error.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Errorf builds a ValidationError with a formatted default message.
func Errorf(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsValidationError unwraps err into a ValidationError. Plain errors become a
// ValidationError with the "custom" code so callers always get a structured
// value.
func AsValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return &ValidationError{Code: "custom", Message: err.Error()}
}

// Formatter turns a structured validation error into the message shown to
// the user.
type Formatter func(*ValidationError) string

// Messages returns a Formatter mapping error codes to fixed messages. Codes
// without a mapping fall back to the error's own message.
func Messages(byCode map[string]string) Formatter {
	copied := make(map[string]string, len(byCode))
	for code, msg := range byCode {
		copied[code] = msg
	}
	return func(err *ValidationError) string {
		if err == nil {
			return ""
		}
		if msg, ok := copied[err.Code]; ok {
			return msg
		}
		return err.Message
	}
}

// Errors collects validation errors keyed by field name.
type Errors map[string]*ValidationError

// Empty reports whether no field failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names in sorted order.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Messages flattens the errors into the field -> messages shape used by the
// wizard snapshot.
func (e Errors) Messages() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for name, err := range e {
		if err == nil {
			continue
		}
		out[name] = []string{err.Message}
	}
	return out
}

// Error implements error so a non-empty set can be returned directly.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, name := range e.Fields() {
		parts = append(parts, e[name].Error())
	}
	return "field: validation failed: " + strings.Join(parts, "; ")
}
