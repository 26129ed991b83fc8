package wizard

import (
	"sort"

	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/predicate"
)

// Snapshot is an immutable view of the controller handed to renderers and
// subscribers.
type Snapshot struct {
	Page       string
	PageIndex  int
	Pages      []page.Page
	Status     Status
	Dirty      bool
	Record     field.Record
	Facts      predicate.Set
	Errors     map[string][]string
	FormErrors []string
	InFlight   string
}

// First reports whether the current page is the first one.
func (s Snapshot) First() bool {
	return s.PageIndex == 0
}

// Last reports whether the current page is the last one.
func (s Snapshot) Last() bool {
	return s.PageIndex == len(s.Pages)-1
}

// ErrorsFor returns the messages attached to a field.
func (s Snapshot) ErrorsFor(name string) []string {
	return s.Errors[name]
}

// InvalidFields lists fields carrying messages, sorted.
func (s Snapshot) InvalidFields() []string {
	names := make([]string, 0, len(s.Errors))
	for name := range s.Errors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Page:       c.pages[c.index].Name,
		PageIndex:  c.index,
		Pages:      clonePages(c.pages),
		Status:     c.status,
		Dirty:      !c.pristineLocked(),
		Record:     c.record.Clone(),
		Facts:      c.facts.Clone(),
		FormErrors: append([]string(nil), c.formErrors...),
	}
	if c.inflight != nil {
		snap.InFlight = c.inflight.action
	}

	errs := make(map[string][]string, len(c.invalid)+len(c.remote))
	for name, verr := range c.invalid {
		errs[name] = append(errs[name], verr.Message)
	}
	for name, msgs := range c.remote {
		errs[name] = MergeMessages(errs[name], msgs...)
	}
	if len(errs) > 0 {
		snap.Errors = errs
	}
	return snap
}
