package wizard

import "errors"

var (
	// ErrClosed is returned by every mutating call after Close.
	ErrClosed = errors.New("wizard: controller closed")
	// ErrActionInFlight rejects a dispatch while another action is running.
	ErrActionInFlight = errors.New("wizard: action already in flight")
	// ErrNoNextPage rejects advancing past the last resolved page.
	ErrNoNextPage = errors.New("wizard: no next page")
	// ErrNoPreviousPage rejects retreating before the first page.
	ErrNoPreviousPage = errors.New("wizard: no previous page")
	// ErrNoPages is returned when the facts resolve to an empty page list.
	ErrNoPages = errors.New("wizard: no pages resolved")
	// ErrUnknownField is returned when setting an undeclared field.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrUnknownPage is returned by GoTo for a page that is not resolved.
	ErrUnknownPage = errors.New("wizard: unknown page")
)
