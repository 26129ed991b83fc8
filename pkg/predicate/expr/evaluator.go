package expr

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/predicate"
)

// Evaluator is a small, dependency-free rule evaluator.
//
// Supported syntax:
//   - truthiness: `bindable`, `!broker`
//   - comparisons: `daysToExpire >= 0`, `status != "referred"`, `admin == true`
//   - composition: `a && (b || !c)`
//
// Bare identifiers resolve against predicate facts; the `values.` prefix
// reads the current record. Compiled rules are cached per evaluator.
type Evaluator struct {
	cache sync.Map // rule -> node
}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

var _ predicate.Evaluator = (*Evaluator)(nil)

// Eval implements predicate.Evaluator.
func (e *Evaluator) Eval(rule string, scope predicate.Scope) (bool, error) {
	n, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	if n == nil {
		return true, nil
	}
	return n.eval(scope)
}

// Check compiles rule without evaluating it, surfacing syntax errors early.
func (e *Evaluator) Check(rule string) error {
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil, nil
	}
	if cached, ok := e.cache.Load(trimmed); ok {
		return cached.(node), nil
	}
	tokens, err := lex(trimmed)
	if err != nil {
		return nil, err
	}
	n, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	e.cache.Store(trimmed, n)
	return n, nil
}

const valuesPrefix = "values."

func resolve(scope predicate.Scope, name string) (any, bool) {
	if strings.HasPrefix(strings.ToLower(name), valuesPrefix) {
		v, ok := scope.Values[name[len(valuesPrefix):]]
		return v, ok
	}
	if v, ok := scope.Facts[name]; ok {
		return v, true
	}
	return lookupPath(scope.Facts, name)
}

func lookupPath(root map[string]any, path string) (any, bool) {
	if len(root) == 0 || !strings.Contains(path, ".") {
		return nil, false
	}
	var current any = root
	for _, part := range strings.Split(path, ".") {
		switch typed := current.(type) {
		case predicate.Set:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n, ok := number(value); ok {
		return n != 0
	}
	return true
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
