// Package field defines the record and field primitives shared by the wizard.
// A Record holds every value of a multi-page form keyed by field name. Each
// Field pairs a kind (hidden, select, radioGroup, checkbox, text, date,
// number) with a Validator that either coerces the raw input or returns a
// structured ValidationError, plus an optional Formatter that turns the error
// into a human readable message. Validators are pure; cross-field rules read
// the full record passed alongside the value.
package field
