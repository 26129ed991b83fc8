package action

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/field"
)

// Outcome is the success result of an action. A non-nil Record replaces the
// wizard baseline (for example the fields derived from an updated quote).
type Outcome struct {
	Action  string
	Payload any
	Record  field.Record
}

// RunFunc performs the external effect of an action.
type RunFunc func(ctx context.Context, rec field.Record) (Outcome, error)

// Action is a named operation bound to the record fields it requires.
type Action struct {
	Name   string
	Fields []string
	Run    RunFunc
}

// Dispatcher holds a registry of actions and runs them against a record.
type Dispatcher struct {
	fields  *field.Set
	actions map[string]Action
	order   []string
}

// NewDispatcher validates and registers actions. Every required field must
// be declared in fields.
func NewDispatcher(fields *field.Set, actions ...Action) (*Dispatcher, error) {
	d := &Dispatcher{fields: fields, actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		if err := d.register(a); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dispatcher) register(a Action) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return errors.New("action: name is required")
	}
	if a.Run == nil {
		return fmt.Errorf("action: %s has no run function", name)
	}
	if _, dup := d.actions[name]; dup {
		return fmt.Errorf("action: duplicate action %q", name)
	}
	for _, f := range a.Fields {
		if !d.fields.Has(f) {
			return fmt.Errorf("action: %s requires undeclared field %q", name, f)
		}
	}
	a.Name = name
	a.Fields = append([]string(nil), a.Fields...)
	d.actions[name] = a
	d.order = append(d.order, name)
	return nil
}

// Names returns the registered action names in registration order.
func (d *Dispatcher) Names() []string {
	return append([]string(nil), d.order...)
}

// Get returns the named action.
func (d *Dispatcher) Get(name string) (Action, bool) {
	a, ok := d.actions[name]
	return a, ok
}

// Check validates the fields required by the named action against rec.
func (d *Dispatcher) Check(name string, rec field.Record) (field.Errors, error) {
	a, ok := d.actions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if len(a.Fields) == 0 {
		return nil, nil
	}
	return d.fields.ValidateFields(rec, a.Fields...), nil
}

// Dispatch validates the action's required fields and runs it. Validation
// failures are returned as field.Errors without invoking Run. Errors from Run
// are normalised to *Failure; cancellation yields ErrCanceled.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rec field.Record) (Outcome, error) {
	errs, err := d.Check(name, rec)
	if err != nil {
		return Outcome{}, err
	}
	if !errs.Empty() {
		return Outcome{}, errs
	}
	if ctx.Err() != nil {
		return Outcome{}, ErrCanceled
	}

	a := d.actions[name]
	out, err := a.Run(ctx, rec.Clone())
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrCanceled) {
		return Outcome{}, ErrCanceled
	}
	if err != nil {
		return Outcome{}, toFailure(name, err)
	}
	out.Action = name
	return out, nil
}
