package definition

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/predicate"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Value types understood by FieldSpec.Type.
const (
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeDate    = "date"
)

// Codes emitted by the declarative rules.
const (
	CodeMustBeTrue = "custom.mustBeTrue"
	CodeRequireAny = "custom.requireAny"
)

// BuildOptions tune Build.
type BuildOptions struct {
	Now func() time.Time
}

// FieldSet builds the validated field set of w.
func (w Wizard) FieldSet(opts BuildOptions) (*field.Set, error) {
	fields := make([]field.Field, 0, len(w.Fields))
	for _, spec := range w.Fields {
		f, err := spec.Field(opts)
		if err != nil {
			return nil, fmt.Errorf("definition: wizard %q: %w", w.ID, err)
		}
		fields = append(fields, f)
	}
	set, err := field.NewSet(fields...)
	if err != nil {
		return nil, fmt.Errorf("definition: wizard %q: %w", w.ID, err)
	}
	return set, nil
}

// PageDefinitions converts the page declarations of w.
func (w Wizard) PageDefinitions() []page.Definition {
	out := make([]page.Definition, len(w.Pages))
	for i, p := range w.Pages {
		def := page.Definition{
			Name:   p.Name,
			Title:  p.Title,
			When:   p.When,
			Fields: append([]string(nil), p.Fields...),
		}
		for _, v := range p.Variants {
			def.Variants = append(def.Variants, page.Variant{When: v.When, Fields: append([]string(nil), v.Fields...)})
		}
		out[i] = def
	}
	return out
}

// InitialRecord returns the field defaults overlaid with the declared
// initial values.
func (w Wizard) InitialRecord() field.Record {
	rec := field.Record{}
	for _, f := range w.Fields {
		if f.Default != nil {
			rec[f.Name] = f.Default
		}
	}
	for k, v := range w.Initial {
		rec[k] = v
	}
	return rec.Clone()
}

// Build assembles a wizard configuration whose actions call exec.
func (w Wizard) Build(exec action.Executor, opts BuildOptions) (wizard.Config, error) {
	if exec == nil && len(w.Actions) > 0 {
		return wizard.Config{}, errors.New("definition: executor is required for actions")
	}
	fields, err := w.FieldSet(opts)
	if err != nil {
		return wizard.Config{}, err
	}
	actions := make([]action.Action, 0, len(w.Actions))
	for _, spec := range w.Actions {
		op := strings.TrimSpace(spec.Operation)
		if op == "" {
			op = spec.Name
		}
		decode := action.PayloadOnly
		if spec.Replace {
			decode = action.PayloadRecord
		}
		actions = append(actions, action.Action{
			Name:   spec.Name,
			Fields: append([]string(nil), spec.Fields...),
			Run:    action.Bind(exec, op, action.RecordArgs(spec.Args...), decode),
		})
	}
	return wizard.Config{
		Fields:  fields,
		Pages:   w.PageDefinitions(),
		Actions: actions,
		Initial: w.InitialRecord(),
		Facts:   predicate.Set(w.Facts).Clone(),
	}, nil
}

// Field converts the declaration into a field.
func (s FieldSpec) Field(opts BuildOptions) (field.Field, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return field.Field{}, errors.New("field name is required")
	}
	kind := field.KindText
	if s.Kind != "" {
		parsed, ok := field.ParseKind(s.Kind)
		if !ok {
			return field.Field{}, fmt.Errorf("field %q: unknown kind %q", name, s.Kind)
		}
		kind = parsed
	}

	f := field.Field{
		Name:  name,
		Kind:  kind,
		Label: s.Label,
		Help:  s.Help,
	}
	for _, o := range s.Options {
		f.Options = append(f.Options, field.Option{Label: o.Label, Value: o.Value})
	}

	validator, err := s.validator(kind, opts)
	if err != nil {
		return field.Field{}, fmt.Errorf("field %q: %w", name, err)
	}
	f.Validator = validator
	if len(s.Messages) > 0 {
		f.Format = field.Messages(s.Messages)
	}
	return f, nil
}

func (s FieldSpec) valueType(kind field.Kind) string {
	if s.Type != "" {
		return s.Type
	}
	switch kind {
	case field.KindCheckbox:
		return TypeBoolean
	case field.KindNumber:
		return TypeNumber
	case field.KindDate:
		return TypeDate
	case field.KindSelect, field.KindRadioGroup:
		if len(s.Options) > 0 {
			if _, isString := s.Options[0].Value.(string); !isString {
				return TypeNumber
			}
		}
	}
	return TypeString
}

func (s FieldSpec) validator(kind field.Kind, opts BuildOptions) (field.Validator, error) {
	var base field.Validator
	switch t := s.valueType(kind); t {
	case TypeBoolean:
		base = field.BoolRule{Required: s.Required}
	case TypeNumber, "integer":
		rule := field.NumberRule{Required: s.Required, Min: s.Min, Max: s.Max}
		for _, o := range s.Options {
			if n, ok := numeric(o.Value); ok {
				rule.Allowed = append(rule.Allowed, n)
			}
		}
		base = rule
	case TypeDate:
		base = field.DateRule{Required: s.Required, AllowPast: s.AllowPast, MaxFutureDays: s.MaxFutureDays, Now: opts.Now}
	case TypeString:
		enum := append([]string(nil), s.Enum...)
		if len(enum) == 0 {
			for _, o := range s.Options {
				if v, ok := o.Value.(string); ok {
					enum = append(enum, v)
				}
			}
		}
		base = field.StringRule{
			Required:   s.Required,
			AllowEmpty: s.AllowEmpty,
			Enum:       enum,
			MaxLength:  s.MaxLength,
			Sanitize:   s.Sanitize,
		}
	default:
		return nil, fmt.Errorf("unknown type %q", t)
	}

	chain := []field.Validator{base}
	if s.MustBeTrue {
		chain = append(chain, field.Custom(CodeMustBeTrue, "must be checked", func(value any, _ field.Record) bool {
			b, _ := value.(bool)
			return b
		}))
	}
	if len(s.RequireAny) > 0 {
		names := append([]string(nil), s.RequireAny...)
		msg := fmt.Sprintf("select at least one of %s", strings.Join(names, ", "))
		chain = append(chain, field.Custom(CodeRequireAny, msg, func(_ any, rec field.Record) bool {
			for _, name := range names {
				if rec.Bool(name) {
					return true
				}
			}
			return false
		}))
	}
	if len(chain) == 1 {
		return base, nil
	}
	return field.Chain(chain...), nil
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
