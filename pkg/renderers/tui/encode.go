package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formwizard/pkg/field"
)

// Encode serializes rec in the given format. Keys are emitted in sorted
// order for the form and pretty formats.
func Encode(rec field.Record, format OutputFormat) ([]byte, error) {
	values := map[string]any(rec.Clone())
	if values == nil {
		values = map[string]any{}
	}
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	case OutputFormatJSON, "":
		return json.Marshal(values)
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", format)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", scalar(val))
		}
	default:
		out.Set(prefix, scalar(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%s\n", prefix, scalar(v))
		}
	}
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
