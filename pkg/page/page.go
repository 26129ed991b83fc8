// Package page resolves the ordered list of wizard pages that applies to the
// current business context. Page definitions are static; each may carry an
// inclusion rule and field-set variants selected by rule (for example broker
// versus customer signature fields). Resolution is a pure function of the
// predicates and record it is given.
package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/predicate"
	"github.com/goliatone/go-formwizard/pkg/predicate/expr"
)

// Variant overrides a page's field list when its rule holds.
type Variant struct {
	When   string
	Fields []string
}

// Definition is the static description of a page.
type Definition struct {
	Name     string
	Title    string
	Fields   []string
	When     string
	Variants []Variant
}

// Page is a resolved page: the definition name plus the fields that apply in
// the current context.
type Page struct {
	Name   string
	Title  string
	Fields []string
}

// Has reports whether the page governs the named field.
func (p Page) Has(name string) bool {
	for _, f := range p.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Validate checks that names are unique, that every field list (including
// variants) is non-empty and that every referenced field is declared.
// Rules are compiled when eval supports it.
func Validate(defs []Definition, fields *field.Set, eval predicate.Evaluator) error {
	if len(defs) == 0 {
		return errors.New("page: at least one page is required")
	}
	checker, _ := eval.(interface{ Check(string) error })
	seen := make(map[string]struct{}, len(defs))
	for i, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return fmt.Errorf("page: page %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("page: duplicate page %q", name)
		}
		seen[name] = struct{}{}

		if err := checkFields(name, def.Fields, fields); err != nil {
			return err
		}
		rules := []string{def.When}
		for j, variant := range def.Variants {
			if err := checkFields(fmt.Sprintf("%s variant %d", name, j), variant.Fields, fields); err != nil {
				return err
			}
			rules = append(rules, variant.When)
		}
		if checker != nil {
			for _, rule := range rules {
				if err := checker.Check(rule); err != nil {
					return fmt.Errorf("page: %s: %w", name, err)
				}
			}
		}
	}
	return nil
}

func checkFields(owner string, names []string, fields *field.Set) error {
	if len(names) == 0 {
		return fmt.Errorf("page: %s has no fields", owner)
	}
	for _, name := range names {
		if !fields.Has(name) {
			return fmt.Errorf("page: %s references undeclared field %q", owner, name)
		}
	}
	return nil
}

// Resolver selects the active pages for a scope.
type Resolver struct {
	defs []Definition
	eval predicate.Evaluator
}

// NewResolver returns a Resolver over defs. A nil evaluator selects the
// built-in expression evaluator.
func NewResolver(defs []Definition, eval predicate.Evaluator) *Resolver {
	if eval == nil {
		eval = expr.New()
	}
	copied := make([]Definition, len(defs))
	copy(copied, defs)
	return &Resolver{defs: copied, eval: eval}
}

// Definitions returns the static definitions in order.
func (r *Resolver) Definitions() []Definition {
	return append([]Definition(nil), r.defs...)
}

// Resolve returns the ordered pages whose rules hold. For each included page
// the first variant whose rule holds supplies the field list.
func (r *Resolver) Resolve(scope predicate.Scope) ([]Page, error) {
	out := make([]Page, 0, len(r.defs))
	for _, def := range r.defs {
		include, err := r.eval.Eval(def.When, scope)
		if err != nil {
			return nil, fmt.Errorf("page: %s: %w", def.Name, err)
		}
		if !include {
			continue
		}
		fields := def.Fields
		for _, variant := range def.Variants {
			ok, err := r.eval.Eval(variant.When, scope)
			if err != nil {
				return nil, fmt.Errorf("page: %s: %w", def.Name, err)
			}
			if ok {
				fields = variant.Fields
				break
			}
		}
		out = append(out, Page{
			Name:   def.Name,
			Title:  def.Title,
			Fields: append([]string(nil), fields...),
		})
	}
	return out, nil
}

// IndexOf returns the position of the named page, or -1.
func IndexOf(pages []Page, name string) int {
	for i, p := range pages {
		if p.Name == name {
			return i
		}
	}
	return -1
}
