package tui

import "go.uber.org/zap"

// OutputFormat controls how a record is serialized by Encode.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), true
	case "":
		return OutputFormatJSON, true
	default:
		return "", false
	}
}

// Theme captures optional prefixes the runner applies when printing
// messages.
type Theme struct {
	PagePrefix  string
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{PagePrefix: "==", InfoPrefix: "", ErrorPrefix: "!"}

// Option configures a Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme overrides the message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger sets the logger used for runner diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithActions restricts the menu to the listed actions, in that order.
func WithActions(names ...string) Option {
	return func(r *Runner) {
		r.actions = append([]string(nil), names...)
	}
}
