package field

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// StripMarkup removes every HTML element from s and trims surrounding
// whitespace. Entities escaped by the policy are decoded back so plain text
// such as "A & B" survives unchanged.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
