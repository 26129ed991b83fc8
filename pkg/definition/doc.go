// Package definition loads wizard definitions from JSON or YAML files and
// builds wizard configurations from them. Fields may be declared inline or
// derived from an OpenAPI component schema; actions are bound to operations
// of an action.Executor.
package definition
