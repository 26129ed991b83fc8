package wizard

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
)

// ErrorMapping splits failure reasons into field-level and form-level
// messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeMessages concatenates message slices, trimming whitespace and dropping
// duplicates while preserving order.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapFailure attaches each reason to the declared field it names. Reasons
// naming JSON pointers or wrapped paths ("#/data/startDate",
// "body.coverages[0]") are matched on their last declared segment; reasons
// without a recognisable field become form-level messages so nothing is lost.
func MapFailure(fields *field.Set, failure *action.Failure) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if failure == nil {
		mapping.Fields = nil
		return mapping
	}

	for _, reason := range failure.Reasons {
		msg := strings.TrimSpace(reason.Message)
		if msg == "" {
			msg = reason.Code
		}
		if msg == "" {
			continue
		}
		name := matchField(fields, reason.Field)
		if name == "" {
			mapping.Form = append(mapping.Form, msg)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], msg)
	}

	for name, msgs := range mapping.Fields {
		mapping.Fields[name] = normalizeMessages(msgs)
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func matchField(fields *field.Set, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return ""
	}
	if fields.Has(trimmed) {
		return trimmed
	}
	segments := pathSegments(trimmed)
	for i := len(segments) - 1; i >= 0; i-- {
		if fields.Has(segments[i]) {
			return segments[i]
		}
	}
	return ""
}

func pathSegments(path string) []string {
	clean := strings.NewReplacer("[", ".", "]", "", "#", "", "$", "").Replace(path)
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(key) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
