package field

import "strings"

// Kind identifies how a field is presented and which prompt a driver uses.
type Kind string

const (
	KindHidden     Kind = "hidden"
	KindSelect     Kind = "select"
	KindRadioGroup Kind = "radioGroup"
	KindCheckbox   Kind = "checkbox"
	KindText       Kind = "text"
	KindDate       Kind = "date"
	KindNumber     Kind = "number"
)

// ParseKind maps a loosely spelled kind ("radio-group", "Checkbox") onto the
// canonical constant.
func ParseKind(raw string) (Kind, bool) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(raw))) {
	case "hidden":
		return KindHidden, true
	case "select":
		return KindSelect, true
	case "radiogroup", "radio":
		return KindRadioGroup, true
	case "checkbox", "bool", "boolean":
		return KindCheckbox, true
	case "text", "string":
		return KindText, true
	case "date":
		return KindDate, true
	case "number", "integer":
		return KindNumber, true
	default:
		return "", false
	}
}

// Option is a selectable choice for select and radio group fields.
type Option struct {
	Label string
	Value any
}

// Field describes one entry of a Record.
type Field struct {
	Name      string
	Kind      Kind
	Label     string
	Help      string
	Options   []Option
	Validator Validator
	Format    Formatter
}

// Validate runs the field validator against value. The returned error carries
// the field name and the formatted message.
func (f Field) Validate(value any, rec Record) (any, *ValidationError) {
	validator := f.Validator
	if validator == nil {
		validator = Any
	}
	coerced, err := validator.Validate(value, rec)
	if err == nil {
		return coerced, nil
	}
	verr := AsValidationError(err)
	out := *verr
	out.Field = f.Name
	if f.Format != nil {
		if msg := f.Format(&out); msg != "" {
			out.Message = msg
		}
	}
	return nil, &out
}

// DisplayLabel returns Label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}
