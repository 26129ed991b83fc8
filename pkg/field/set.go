package field

import (
	"errors"
	"fmt"
	"strings"
)

// Set is an ordered, name-indexed collection of fields.
type Set struct {
	order  []string
	fields map[string]Field
}

// NewSet builds a Set, rejecting empty or duplicate names.
func NewSet(fields ...Field) (*Set, error) {
	s := &Set{fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return nil, errors.New("field: name is required")
		}
		if _, exists := s.fields[name]; exists {
			return nil, fmt.Errorf("field: duplicate field %q", name)
		}
		f.Name = name
		s.fields[name] = f
		s.order = append(s.order, name)
	}
	return s, nil
}

// Len returns the number of fields.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Names returns field names in declaration order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Get returns the named field.
func (s *Set) Get(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	f, ok := s.fields[name]
	return f, ok
}

// Has reports whether name is declared.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Validate runs the validator of a single field against its value in rec.
// Unknown names are reported as an error with the "unknown" code.
func (s *Set) Validate(name string, rec Record) (any, *ValidationError) {
	f, ok := s.Get(name)
	if !ok {
		return nil, &ValidationError{Field: name, Code: "unknown", Message: "is not a declared field"}
	}
	return f.Validate(rec[name], rec)
}

// ValidateFields validates the listed fields, or every field when names is
// empty, and returns the failures. An empty result means all passed.
func (s *Set) ValidateFields(rec Record, names ...string) Errors {
	if len(names) == 0 {
		names = s.Names()
	}
	out := make(Errors)
	for _, name := range names {
		if _, err := s.Validate(name, rec); err != nil {
			out[name] = err
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
