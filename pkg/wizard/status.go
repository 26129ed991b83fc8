package wizard

// Status is the controller state.
type Status string

const (
	StatusClean      Status = "clean"
	StatusDirty      Status = "dirty"
	StatusSubmitting Status = "submitting"
	StatusError      Status = "error"
)

// CanDispatch reports whether a new action may start from s.
func (s Status) CanDispatch() bool {
	return s != StatusSubmitting
}
