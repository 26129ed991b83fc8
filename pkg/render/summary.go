package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Template names used by Snapshot and Outcome.
const (
	SnapshotTemplate = "snapshot"
	OutcomeTemplate  = "outcome"
)

// Snapshot renders the current page of snap: status, the visible fields of
// the page with their values and errors, and the form level errors.
func (e *Engine) Snapshot(snap wizard.Snapshot, fields *field.Set, out ...io.Writer) (string, error) {
	return e.RenderTemplate(SnapshotTemplate, SnapshotView(snap, fields), out...)
}

// Outcome renders the result of a successful action.
func (e *Engine) Outcome(outcome action.Outcome, out ...io.Writer) (string, error) {
	return e.RenderTemplate(OutcomeTemplate, OutcomeView(outcome), out...)
}

// SnapshotView builds the template data for a snapshot.
func SnapshotView(snap wizard.Snapshot, fields *field.Set) map[string]any {
	view := map[string]any{
		"status":      string(snap.Status),
		"dirty":       snap.Dirty,
		"page":        snap.Page,
		"page_number": snap.PageIndex + 1,
		"page_count":  len(snap.Pages),
		"page_title":  snap.Page,
		"form_errors": snap.FormErrors,
		"in_flight":   snap.InFlight,
	}
	if snap.PageIndex < 0 || snap.PageIndex >= len(snap.Pages) {
		view["fields"] = []any{}
		return view
	}
	current := snap.Pages[snap.PageIndex]
	if strings.TrimSpace(current.Title) != "" {
		view["page_title"] = current.Title
	}

	rows := make([]any, 0, len(current.Fields))
	for _, name := range current.Fields {
		label := name
		if fields != nil {
			f, ok := fields.Get(name)
			if ok && f.Kind == field.KindHidden {
				continue
			}
			if ok {
				label = f.DisplayLabel()
			}
		}
		rows = append(rows, map[string]any{
			"name":   name,
			"label":  label,
			"value":  FormatValue(snap.Record[name]),
			"errors": snap.ErrorsFor(name),
		})
	}
	view["fields"] = rows
	return view
}

// OutcomeView builds the template data for an outcome. The new baseline
// record, when present, is listed in key order.
func OutcomeView(outcome action.Outcome) map[string]any {
	view := map[string]any{
		"action":  outcome.Action,
		"payload": formatPayload(outcome.Payload),
	}
	rows := make([]any, 0, len(outcome.Record))
	for _, name := range outcome.Record.Keys() {
		rows = append(rows, map[string]any{
			"name":  name,
			"value": FormatValue(outcome.Record[name]),
		})
	}
	view["record"] = rows
	return view
}

// FormatValue renders a record value for display: dates without time,
// numbers without exponent, booleans as yes/no and empty values as "-".
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "-"
	case string:
		if strings.TrimSpace(t) == "" {
			return "-"
		}
		return t
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int64, int32:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func formatPayload(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
