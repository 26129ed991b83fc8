// Package openapi derives wizard field descriptions from OpenAPI component
// schemas.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ExtensionKey is the vendor extension carrying wizard hints on a property,
// for example {"kind": "select", "label": "D&O limit", "order": 3}.
const ExtensionKey = "x-formwizard"

// Property is one top-level property of a component schema.
type Property struct {
	Name        string
	Type        string
	Format      string
	Title       string
	Description string
	Required    bool
	Enum        []any
	Minimum     *float64
	Maximum     *float64
	MaxLength   *int
	Default     any
	Extension   map[string]any
}

// Options controls document loading.
type Options struct {
	ResolveExternalRefs bool
	Validate            bool
}

// Component loads an OpenAPI document and returns the properties of the
// named component schema. Properties are ordered by their "order" extension
// hint, then by name.
func Component(ctx context.Context, data []byte, name string, opts Options) ([]Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ResolveExternalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document has no component schemas")
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component schema %q not found", name)
	}
	return properties(ref.Value), nil
}

func properties(schema *openapi3.Schema) []Property {
	required := make(map[string]struct{}, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = struct{}{}
	}

	out := make([]Property, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		src := ref.Value
		prop := Property{
			Name:        name,
			Type:        firstType(src.Type),
			Format:      src.Format,
			Title:       src.Title,
			Description: src.Description,
			Default:     src.Default,
			Extension:   extension(src),
		}
		if _, ok := required[name]; ok {
			prop.Required = true
		}
		if len(src.Enum) > 0 {
			prop.Enum = append([]any(nil), src.Enum...)
		}
		if src.Min != nil {
			value := *src.Min
			prop.Minimum = &value
		}
		if src.Max != nil {
			value := *src.Max
			prop.Maximum = &value
		}
		if src.MaxLength != nil {
			value := int(*src.MaxLength)
			prop.MaxLength = &value
		}
		inherit(&prop, src.AllOf)
		out = append(out, prop)
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := order(out[i]), order(out[j])
		if oi != oj {
			return oi < oj
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// inherit fills the type and enum of a property declared only through allOf
// references, the usual shape of a reused enum.
func inherit(prop *Property, refs openapi3.SchemaRefs) {
	for _, ref := range refs {
		if ref == nil || ref.Value == nil {
			continue
		}
		if prop.Type == "" {
			prop.Type = firstType(ref.Value.Type)
			if prop.Format == "" {
				prop.Format = ref.Value.Format
			}
		}
		if len(prop.Enum) == 0 && len(ref.Value.Enum) > 0 {
			prop.Enum = append([]any(nil), ref.Value.Enum...)
		}
		inherit(prop, ref.Value.AllOf)
	}
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, t := range types.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

// extension returns the wizard hints of a schema, merging hints found on
// allOf members first so the property's own hints win.
func extension(schema *openapi3.Schema) map[string]any {
	var out map[string]any
	for _, ref := range schema.AllOf {
		if ref == nil || ref.Value == nil {
			continue
		}
		out = merge(out, extension(ref.Value))
	}
	if raw, ok := schema.Extensions[ExtensionKey].(map[string]any); ok {
		out = merge(out, raw)
	}
	return out
}

func merge(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

const unordered = int(^uint(0) >> 1)

func order(p Property) int {
	switch v := p.Extension["order"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return unordered
	}
}

// String renders a property for diagnostics.
func (p Property) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Type != "" {
		b.WriteString(":")
		b.WriteString(p.Type)
	}
	if p.Format != "" {
		b.WriteString("(" + p.Format + ")")
	}
	if p.Required {
		b.WriteString("!")
	}
	return b.String()
}
