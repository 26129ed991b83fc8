package field

import (
	"reflect"
	"sort"
	"time"

	"github.com/google/go-cmp/cmp"
)

// Record maps field names to values for the whole form.
type Record map[string]any

// Clone returns a deep copy of the record. Nested maps and slices are copied so
// callers can mutate the clone without touching the source.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = deepCopy(v)
	}
	return out
}

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[name]
	return v, ok
}

// Bool reads name as a boolean, coercing strings such as "true".
func (r Record) Bool(name string) bool {
	v, _ := r.Get(name)
	b, _ := toBool(v)
	return b
}

// Float reads name as a float64; ok is false when the value is missing or
// not numeric.
func (r Record) Float(name string) (float64, bool) {
	v, _ := r.Get(name)
	return toFloat(v)
}

// String reads name as a string. Non string values yield "".
func (r Record) String(name string) string {
	v, _ := r.Get(name)
	s, _ := v.(string)
	return s
}

// Time reads name as a time.Time.
func (r Record) Time(name string) (time.Time, bool) {
	v, _ := r.Get(name)
	return toTime(v)
}

// Keys returns the record keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var recordCompare = []cmp.Option{
	cmp.FilterValues(bothNumeric, cmp.Comparer(func(x, y any) bool {
		a, _ := toFloat(x)
		b, _ := toFloat(y)
		return a == b
	})),
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

// Equal reports whether two records hold the same values. Missing keys and
// nil values are equivalent, numbers compare by value regardless of their Go
// type and times compare by instant.
func Equal(a, b Record) bool {
	return cmp.Equal(prune(a), prune(b), recordCompare...)
}

// Diff lists the names of fields whose values differ between a and b.
func Diff(a, b Record) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	check := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		if !Equal(Record{name: a[name]}, Record{name: b[name]}) {
			out = append(out, name)
		}
	}
	for name := range a {
		check(name)
	}
	for name := range b {
		check(name)
	}
	sort.Strings(out)
	return out
}

func prune(r Record) map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

func bothNumeric(x, y any) bool {
	_, okX := numericKind(x)
	_, okY := numericKind(y)
	return okX && okY
}

func numericKind(v any) (float64, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return toFloat(v)
	default:
		return 0, false
	}
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case Record:
		return typed.Clone()
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
