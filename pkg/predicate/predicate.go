// Package predicate describes the business facts that drive conditional page
// sets (whether a quote is still bindable, whether the user is a broker) and
// the evaluator contract used to test rule strings against them.
package predicate

import (
	"sort"

	"github.com/goliatone/go-formwizard/pkg/field"
)

// Set holds named business facts.
type Set map[string]any

// Clone returns a shallow copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Bool reads a fact as a boolean. Missing or non boolean facts are false.
func (s Set) Bool(name string) bool {
	b, _ := s[name].(bool)
	return b
}

// Keys returns fact names in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scope is the input to an Evaluator: business facts plus the current record.
type Scope struct {
	Facts  Set
	Values field.Record
}

// Evaluator decides whether a rule holds in a scope. Empty rules hold.
type Evaluator interface {
	Eval(rule string, scope Scope) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, scope Scope) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, scope Scope) (bool, error) {
	return fn(rule, scope)
}
