package wizard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
)

// Dispatch runs the named action against the current record and blocks until
// it completes.
//
// When a required field is invalid the failures are annotated and returned as
// field.Errors; the status does not change and the action never runs. On
// success the outcome record (or the submitted record when the action returns
// none) becomes the new baseline, edits made while the action ran are carried
// over, and the status settles to clean or dirty. On failure the status moves
// to error, the reasons are mapped to fields, and the entered values are
// kept. A cancelled or abandoned action returns action.ErrCanceled and leaves
// the state as it was before submitting.
func (c *Controller) Dispatch(ctx context.Context, name string) (action.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return action.Outcome{}, ErrClosed
	}
	if c.inflight != nil {
		c.mu.Unlock()
		return action.Outcome{}, ErrActionInFlight
	}
	errs, err := c.dispatcher.Check(name, c.record)
	if err != nil {
		c.mu.Unlock()
		return action.Outcome{}, err
	}
	if !errs.Empty() {
		for fieldName, verr := range errs {
			c.setInvalid(fieldName, verr)
		}
		c.logger.Debug("wizard action blocked",
			zap.String("action", name),
			zap.Strings("invalid", errs.Fields()))
		notify := c.prepareNotify()
		c.mu.Unlock()
		notify()
		return action.Outcome{}, errs
	}

	runCtx, cancel := context.WithCancel(ctx)
	fl := &flight{
		action:     name,
		generation: c.generation,
		prior:      c.status,
		submitted:  c.record.Clone(),
		cancel:     cancel,
	}
	c.inflight = fl
	c.status = StatusSubmitting
	c.logger.Debug("wizard action started",
		zap.String("action", name),
		zap.String("prior", string(fl.prior)))
	notify := c.prepareNotify()
	c.mu.Unlock()
	notify()

	out, runErr := c.dispatcher.Dispatch(runCtx, name, fl.submitted)
	cancel()

	c.mu.Lock()
	if c.inflight != fl || c.generation != fl.generation {
		// Reset or Close already restored the state.
		c.mu.Unlock()
		return action.Outcome{}, action.ErrCanceled
	}
	c.inflight = nil

	if errors.Is(runErr, action.ErrCanceled) {
		c.restoreLocked(fl)
		c.logger.Debug("wizard action canceled", zap.String("action", name))
		notify := c.prepareNotify()
		c.mu.Unlock()
		notify()
		return action.Outcome{}, action.ErrCanceled
	}

	if runErr != nil {
		c.applyFailureLocked(fl, runErr)
		notify := c.prepareNotify()
		c.mu.Unlock()
		notify()
		return action.Outcome{}, runErr
	}

	c.applySuccessLocked(fl, out)
	onSuccess := c.onSuccess
	notify = c.prepareNotify()
	c.mu.Unlock()

	notify()
	if onSuccess != nil {
		onSuccess(out)
	}
	return out, nil
}

// Cancel aborts the in-flight action, if any. The blocked Dispatch call
// returns action.ErrCanceled.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != nil {
		c.inflight.cancel()
	}
}

// InFlight returns the name of the running action, or "" when idle.
func (c *Controller) InFlight() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == nil {
		return ""
	}
	return c.inflight.action
}

// restoreLocked puts back the status held before fl started. Edits made
// while the action ran still count.
func (c *Controller) restoreLocked(fl *flight) {
	c.status = fl.prior
	if !field.Equal(c.record, fl.submitted) {
		c.status = c.restingStatus()
	}
}

func (c *Controller) applyFailureLocked(fl *flight, err error) {
	failure, ok := action.AsFailure(err)
	if !ok {
		failure = &action.Failure{Action: fl.action, Reasons: []action.Reason{{
			Code:    action.CodeInternal,
			Message: err.Error(),
		}}}
	}
	mapping := MapFailure(c.fields, failure)

	edited := editedDuring(fl, c.record)
	remote := make(map[string][]string, len(mapping.Fields))
	for name, msgs := range mapping.Fields {
		if _, ok := edited[name]; ok {
			continue
		}
		remote[name] = msgs
	}
	if len(remote) == 0 {
		remote = nil
	}
	c.remote = remote
	c.formErrors = mapping.Form
	c.status = StatusError
	c.logger.Debug("wizard action failed",
		zap.String("action", fl.action),
		zap.Int("reasons", len(failure.Reasons)),
		zap.Error(err))
}

func (c *Controller) applySuccessLocked(fl *flight, out action.Outcome) {
	baseline := out.Record
	if baseline == nil {
		baseline = fl.submitted
	}
	baseline = baseline.Clone()

	edited := editedDuring(fl, c.record)
	rec := baseline.Clone()
	for name := range edited {
		if v, ok := c.record[name]; ok {
			rec[name] = v
		} else {
			delete(rec, name)
		}
	}

	invalid := make(field.Errors)
	for name := range edited {
		if verr, ok := c.invalid[name]; ok {
			invalid[name] = verr
		}
	}
	if invalid.Empty() {
		invalid = nil
	}

	c.baseline = baseline
	c.record = rec
	c.invalid = invalid
	c.remote = nil
	c.formErrors = nil
	c.status = StatusClean
	if !c.pristineLocked() {
		c.status = StatusDirty
	}
	c.refreshPagesLocked()
	c.logger.Debug("wizard action succeeded",
		zap.String("action", fl.action),
		zap.String("status", string(c.status)))
}

// editedDuring lists the fields whose values changed after fl was submitted.
func editedDuring(fl *flight, current field.Record) map[string]struct{} {
	names := field.Diff(fl.submitted, current)
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}
