package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Validator coerces a raw value or rejects it. rec is the full record so
// cross-field rules can inspect sibling values; validators must not mutate
// it. Rejections should be *ValidationError values.
type Validator interface {
	Validate(value any, rec Record) (any, error)
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(value any, rec Record) (any, error)

// Validate delegates to the underlying function.
func (fn ValidatorFunc) Validate(value any, rec Record) (any, error) {
	return fn(value, rec)
}

// Any accepts every value unchanged.
var Any = ValidatorFunc(func(value any, _ Record) (any, error) {
	return value, nil
})

// BoolRule accepts booleans and their string spellings.
type BoolRule struct {
	Required bool
}

// Validate implements Validator.
func (r BoolRule) Validate(value any, _ Record) (any, error) {
	if isEmpty(value) {
		if r.Required {
			return nil, Errorf(CodeRequired, "is required")
		}
		return false, nil
	}
	b, ok := toBool(value)
	if !ok {
		return nil, Errorf(CodeType, "must be a boolean")
	}
	return b, nil
}

// NumberRule accepts numeric values, optionally bounded or restricted to a
// fixed set of choices such as the limits offered by a select.
type NumberRule struct {
	Required bool
	Min      *float64
	Max      *float64
	Allowed  []float64
}

// Validate implements Validator.
func (r NumberRule) Validate(value any, _ Record) (any, error) {
	if isEmpty(value) {
		if r.Required {
			return nil, Errorf(CodeRequired, "is required")
		}
		return nil, nil
	}
	n, ok := toFloat(value)
	if !ok || math.IsNaN(n) {
		return nil, Errorf(CodeType, "must be a number")
	}
	if r.Min != nil && n < *r.Min {
		err := Errorf(CodeMin, "must be greater than or equal to %s", formatNumber(*r.Min))
		err.Details = map[string]any{"limit": *r.Min}
		return nil, err
	}
	if r.Max != nil && n > *r.Max {
		err := Errorf(CodeMax, "must be less than or equal to %s", formatNumber(*r.Max))
		err.Details = map[string]any{"limit": *r.Max}
		return nil, err
	}
	if len(r.Allowed) > 0 && !containsFloat(r.Allowed, n) {
		return nil, Errorf(CodeEnum, "must be one of %s", joinNumbers(r.Allowed))
	}
	return n, nil
}

// StringRule accepts strings. Enum restricts values to a fixed set (radio
// groups), Sanitize strips markup before the length check.
type StringRule struct {
	Required   bool
	AllowEmpty bool
	Enum       []string
	MaxLength  int
	Sanitize   bool
}

// Validate implements Validator.
func (r StringRule) Validate(value any, _ Record) (any, error) {
	if value == nil {
		if r.Required {
			return nil, Errorf(CodeRequired, "is required")
		}
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, Errorf(CodeType, "must be a string")
	}
	if r.Sanitize {
		s = StripMarkup(s)
	}
	if strings.TrimSpace(s) == "" {
		if r.Required && !r.AllowEmpty {
			return nil, Errorf(CodeRequired, "is required")
		}
		if len(r.Enum) > 0 {
			return nil, nil
		}
		return s, nil
	}
	if len(r.Enum) > 0 && !containsString(r.Enum, s) {
		return nil, Errorf(CodeEnum, "must be one of [%s]", strings.Join(r.Enum, ", "))
	}
	if r.MaxLength > 0 && utf8.RuneCountInString(s) > r.MaxLength {
		return nil, Errorf(CodeLength, "must be at most %d characters", r.MaxLength)
	}
	return s, nil
}

// DateRule accepts dates as time.Time or common string layouts. Bounds are
// day based and relative to Now (midnight of the current day); zero
// MaxFutureDays disables the upper bound.
type DateRule struct {
	Required      bool
	AllowPast     bool
	MaxFutureDays int
	Now           func() time.Time
}

// Validate implements Validator.
func (r DateRule) Validate(value any, _ Record) (any, error) {
	if isEmpty(value) {
		if r.Required {
			return nil, Errorf(CodeRequired, "is required")
		}
		return nil, nil
	}
	t, ok := toTime(value)
	if !ok {
		return nil, Errorf(CodeType, "must be a valid date")
	}
	today := StartOfDay(r.now())
	if !r.AllowPast && StartOfDay(t).Before(today) {
		err := Errorf(CodeDateMin, "must be on or after %s", today.Format("2006-01-02"))
		err.Details = map[string]any{"limit": today}
		return nil, err
	}
	if r.MaxFutureDays > 0 {
		limit := today.AddDate(0, 0, r.MaxFutureDays)
		if StartOfDay(t).After(limit) {
			err := Errorf(CodeDateMax, "must be on or before %s", limit.Format("2006-01-02"))
			err.Details = map[string]any{"limit": limit}
			return nil, err
		}
	}
	return t, nil
}

func (r DateRule) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Custom returns a Validator that rejects values for which ok returns false
// with the given code.
func Custom(code, message string, ok func(value any, rec Record) bool) Validator {
	return ValidatorFunc(func(value any, rec Record) (any, error) {
		if ok(value, rec) {
			return value, nil
		}
		return nil, &ValidationError{Code: code, Message: message}
	})
}

// Chain runs validators in order, feeding each the value coerced by the
// previous one. The first rejection wins.
func Chain(validators ...Validator) Validator {
	return ValidatorFunc(func(value any, rec Record) (any, error) {
		current := value
		for _, v := range validators {
			if v == nil {
				continue
			}
			next, err := v.Validate(current, rec)
			if err != nil {
				return nil, err
			}
			current = next
		}
		return current, nil
	})
}

func containsFloat(values []float64, n float64) bool {
	for _, v := range values {
		if v == n {
			return true
		}
	}
	return false
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
}
