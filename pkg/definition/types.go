package definition

// Wizard is one wizard declared in a definition file.
type Wizard struct {
	ID      string         `json:"-" yaml:"-"`
	Source  string         `json:"-" yaml:"-"`
	Title   string         `json:"title" yaml:"title"`
	Schema  *SchemaRef     `json:"schema,omitempty" yaml:"schema,omitempty"`
	Fields  []FieldSpec    `json:"fields" yaml:"fields"`
	Pages   []PageSpec     `json:"pages" yaml:"pages"`
	Actions []ActionSpec   `json:"actions" yaml:"actions"`
	Facts   map[string]any `json:"facts,omitempty" yaml:"facts,omitempty"`
	Initial map[string]any `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// SchemaRef points at an OpenAPI component schema whose properties become
// fields. Document is resolved relative to the definition file.
type SchemaRef struct {
	Document  string `json:"document" yaml:"document"`
	Component string `json:"component" yaml:"component"`
}

// FieldSpec declares a field and the rule validating it.
type FieldSpec struct {
	Name          string            `json:"name" yaml:"name"`
	Kind          string            `json:"kind,omitempty" yaml:"kind,omitempty"`
	Type          string            `json:"type,omitempty" yaml:"type,omitempty"`
	Label         string            `json:"label,omitempty" yaml:"label,omitempty"`
	Help          string            `json:"help,omitempty" yaml:"help,omitempty"`
	Required      bool              `json:"required,omitempty" yaml:"required,omitempty"`
	AllowEmpty    bool              `json:"allowEmpty,omitempty" yaml:"allowEmpty,omitempty"`
	Enum          []string          `json:"enum,omitempty" yaml:"enum,omitempty"`
	Min           *float64          `json:"min,omitempty" yaml:"min,omitempty"`
	Max           *float64          `json:"max,omitempty" yaml:"max,omitempty"`
	MaxLength     int               `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Sanitize      bool              `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
	AllowPast     bool              `json:"allowPast,omitempty" yaml:"allowPast,omitempty"`
	MaxFutureDays int               `json:"maxFutureDays,omitempty" yaml:"maxFutureDays,omitempty"`
	MustBeTrue    bool              `json:"mustBeTrue,omitempty" yaml:"mustBeTrue,omitempty"`
	RequireAny    []string          `json:"requireAny,omitempty" yaml:"requireAny,omitempty"`
	Options       []OptionSpec      `json:"options,omitempty" yaml:"options,omitempty"`
	Messages      map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`
	Default       any               `json:"default,omitempty" yaml:"default,omitempty"`
}

// OptionSpec is a select or radio choice.
type OptionSpec struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// PageSpec declares a page.
type PageSpec struct {
	Name     string        `json:"name" yaml:"name"`
	Title    string        `json:"title,omitempty" yaml:"title,omitempty"`
	When     string        `json:"when,omitempty" yaml:"when,omitempty"`
	Fields   []string      `json:"fields" yaml:"fields"`
	Variants []VariantSpec `json:"variants,omitempty" yaml:"variants,omitempty"`
}

// VariantSpec swaps the fields of a page when its rule holds.
type VariantSpec struct {
	When   string   `json:"when" yaml:"when"`
	Fields []string `json:"fields" yaml:"fields"`
}

// ActionSpec binds an action to an executor operation. Args lists the fields
// sent as arguments (all fields when empty). With Replace the operation
// payload becomes the new baseline record.
type ActionSpec struct {
	Name      string   `json:"name" yaml:"name"`
	Operation string   `json:"operation,omitempty" yaml:"operation,omitempty"`
	Fields    []string `json:"fields,omitempty" yaml:"fields,omitempty"`
	Args      []string `json:"args,omitempty" yaml:"args,omitempty"`
	Replace   bool     `json:"replace,omitempty" yaml:"replace,omitempty"`
}

// Store holds the wizards loaded from a file system.
type Store struct {
	wizards map[string]Wizard
}

// Wizard returns the wizard with the given id.
func (s *Store) Wizard(id string) (Wizard, bool) {
	if s == nil {
		return Wizard{}, false
	}
	w, ok := s.wizards[id]
	return w, ok
}

// IDs returns the loaded wizard ids, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.wizards))
	for id := range s.wizards {
		ids = append(ids, id)
	}
	sortStrings(ids)
	return ids
}

// Empty reports whether the store holds any wizard.
func (s *Store) Empty() bool {
	return s == nil || len(s.wizards) == 0
}
