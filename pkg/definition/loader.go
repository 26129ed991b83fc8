package definition

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/internal/openapi"
)

// LoadFS walks fsys and parses every JSON/YAML file declaring wizards. Files
// without a wizards section, such as OpenAPI documents referenced by a
// wizard, are skipped. A nil fsys yields an empty store.
func LoadFS(ctx context.Context, fsys fs.FS) (*Store, error) {
	store := &Store{wizards: make(map[string]Wizard)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", p, err)
		}
		wizards, err := Parse(data, p)
		if err != nil {
			return err
		}
		for _, id := range sortedKeys(wizards) {
			if _, exists := store.wizards[id]; exists {
				return fmt.Errorf("definition: duplicate wizard %q (file %s)", id, p)
			}
			w := wizards[id]
			if w.Schema != nil {
				if w, err = resolveSchema(ctx, fsys, w); err != nil {
					return err
				}
			}
			store.wizards[id] = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Wizards map[string]Wizard `json:"wizards" yaml:"wizards"`
}

// Parse decodes one definition file. Wizard ids are trimmed and must be
// unique and non-empty.
func Parse(data []byte, source string) (map[string]Wizard, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("definition: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("definition: parse %s: invalid JSON or YAML: %w", source, err)
		}
	}

	out := make(map[string]Wizard, len(doc.Wizards))
	for rawID, w := range doc.Wizards {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("definition: file %s defines an empty wizard id", source)
		}
		if _, exists := out[id]; exists {
			return nil, fmt.Errorf("definition: file %s defines wizard %q twice", source, id)
		}
		w.ID = id
		w.Source = source
		out[id] = w
	}
	return out, nil
}

func resolveSchema(ctx context.Context, fsys fs.FS, w Wizard) (Wizard, error) {
	ref := w.Schema
	if strings.TrimSpace(ref.Document) == "" || strings.TrimSpace(ref.Component) == "" {
		return w, fmt.Errorf("definition: wizard %q (file %s) schema needs a document and a component", w.ID, w.Source)
	}
	docPath := path.Clean(path.Join(path.Dir(w.Source), ref.Document))
	data, err := fs.ReadFile(fsys, docPath)
	if err != nil {
		return w, fmt.Errorf("definition: wizard %q: read schema %s: %w", w.ID, docPath, err)
	}
	props, err := openapi.Component(ctx, data, ref.Component, openapi.Options{})
	if err != nil {
		return w, fmt.Errorf("definition: wizard %q: %w", w.ID, err)
	}
	derived := make([]FieldSpec, 0, len(props))
	for _, prop := range props {
		derived = append(derived, fieldFromProperty(prop))
	}
	w.Fields = mergeFields(derived, w.Fields)
	return w, nil
}

// mergeFields overlays explicit declarations on derived ones by name. Explicit
// fields unknown to the schema are appended in their declared order.
func mergeFields(derived, explicit []FieldSpec) []FieldSpec {
	index := make(map[string]int, len(derived))
	out := append([]FieldSpec(nil), derived...)
	for i, f := range out {
		index[f.Name] = i
	}
	for _, f := range explicit {
		if i, ok := index[f.Name]; ok {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	return out
}

func fieldFromProperty(p openapi.Property) FieldSpec {
	spec := FieldSpec{
		Name:     p.Name,
		Label:    p.Title,
		Help:     p.Description,
		Required: p.Required,
		Min:      p.Minimum,
		Max:      p.Maximum,
		Default:  p.Default,
	}
	if p.MaxLength != nil {
		spec.MaxLength = *p.MaxLength
	}
	for _, v := range p.Enum {
		if s, ok := v.(string); ok {
			spec.Enum = append(spec.Enum, s)
		}
	}

	switch {
	case p.Type == "boolean":
		spec.Type, spec.Kind = TypeBoolean, "checkbox"
	case p.Type == "number" || p.Type == "integer":
		spec.Type, spec.Kind = TypeNumber, "number"
	case p.Format == "date" || p.Format == "date-time":
		spec.Type, spec.Kind = TypeDate, "date"
	case len(spec.Enum) > 0:
		spec.Type, spec.Kind = TypeString, "select"
	default:
		spec.Type, spec.Kind = TypeString, "text"
	}

	ext := p.Extension
	if kind, ok := ext["kind"].(string); ok && kind != "" {
		spec.Kind = kind
	}
	if label, ok := ext["label"].(string); ok && label != "" {
		spec.Label = label
	}
	if days, ok := ext["maxFutureDays"].(float64); ok {
		spec.MaxFutureDays = int(days)
	}
	if allow, ok := ext["allowPast"].(bool); ok {
		spec.AllowPast = allow
	}
	if sanitize, ok := ext["sanitize"].(bool); ok {
		spec.Sanitize = sanitize
	}
	if msgs, ok := ext["messages"].(map[string]any); ok {
		spec.Messages = make(map[string]string, len(msgs))
		for code, msg := range msgs {
			if s, ok := msg.(string); ok {
				spec.Messages[code] = s
			}
		}
	}
	return spec
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func sortedKeys(m map[string]Wizard) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStrings(keys)
	return keys
}

func sortStrings(values []string) {
	sort.Strings(values)
}
