package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/predicate"
	"github.com/goliatone/go-formwizard/pkg/predicate/expr"
)

// Config is the static input of a Controller.
type Config struct {
	Fields  *field.Set
	Pages   []page.Definition
	Actions []action.Action
	Initial field.Record
	Facts   predicate.Set
}

type flight struct {
	action     string
	generation uint64
	prior      Status
	submitted  field.Record
	cancel     context.CancelFunc
}

// Controller owns the state of one wizard instance. Methods are safe for
// concurrent use; action run functions execute outside the lock.
type Controller struct {
	mu sync.Mutex

	fields     *field.Set
	resolver   *page.Resolver
	dispatcher *action.Dispatcher
	eval       predicate.Evaluator
	logger     *zap.Logger
	onSuccess  func(action.Outcome)

	facts      predicate.Set
	pages      []page.Page
	index      int
	baseline   field.Record
	record     field.Record
	status     Status
	invalid    field.Errors
	remote     map[string][]string
	formErrors []string
	inflight   *flight
	generation uint64
	closed     bool

	listeners    map[int]func(Snapshot)
	nextListener int
}

// New validates cfg and returns a clean controller positioned on the first
// resolved page.
func New(cfg Config, options ...Option) (*Controller, error) {
	if cfg.Fields == nil || cfg.Fields.Len() == 0 {
		return nil, errors.New("wizard: fields are required")
	}

	c := &Controller{
		fields:    cfg.Fields,
		logger:    zap.NewNop(),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.eval == nil {
		c.eval = expr.New()
	}

	if err := page.Validate(cfg.Pages, cfg.Fields, c.eval); err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	dispatcher, err := action.NewDispatcher(cfg.Fields, cfg.Actions...)
	if err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	c.dispatcher = dispatcher
	c.resolver = page.NewResolver(cfg.Pages, c.eval)

	c.facts = cfg.Facts.Clone()
	c.baseline = cfg.Initial.Clone()
	c.record = c.baseline.Clone()
	c.status = StatusClean

	pages, err := c.resolve(c.facts, c.record)
	if err != nil {
		return nil, err
	}
	c.pages = pages
	return c, nil
}

func (c *Controller) resolve(facts predicate.Set, rec field.Record) ([]page.Page, error) {
	pages, err := c.resolver.Resolve(predicate.Scope{Facts: facts, Values: rec})
	if err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages, nil
}

// Fields returns the declared field set.
func (c *Controller) Fields() *field.Set {
	return c.fields
}

// Actions returns the registered action names.
func (c *Controller) Actions() []string {
	return c.dispatcher.Names()
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Record returns a copy of the current record.
func (c *Controller) Record() field.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record.Clone()
}

// Value returns the current value of a field.
func (c *Controller) Value(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.record[name]
	return v, ok
}

// Set updates one field. Valid values are stored coerced, invalid ones are
// stored raw and annotated. Fields that previously failed are re-validated so
// cross-field errors clear as soon as their condition holds. The returned
// error is a *field.ValidationError for invalid input; it does not abort the
// update.
func (c *Controller) Set(name string, value any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	f, ok := c.fields.Get(name)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	c.record[name] = value
	coerced, verr := f.Validate(value, c.record)
	if verr == nil {
		c.record[name] = coerced
	}
	c.setInvalid(name, verr)
	delete(c.remote, name)

	for _, other := range c.invalid.Fields() {
		if other == name {
			continue
		}
		_, otherErr := c.fields.Validate(other, c.record)
		c.setInvalid(other, otherErr)
	}

	c.refreshPagesLocked()
	if c.status != StatusSubmitting {
		c.formErrors = nil
		c.status = c.restingStatus()
	}
	c.logger.Debug("wizard field set",
		zap.String("field", name),
		zap.Bool("valid", verr == nil),
		zap.String("status", string(c.status)))
	notify := c.prepareNotify()
	c.mu.Unlock()

	notify()
	if verr != nil {
		return verr
	}
	return nil
}

// SetValues applies several fields in one notification. Validation failures
// are collected and returned as field.Errors.
func (c *Controller) SetValues(values field.Record) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	for _, name := range values.Keys() {
		if !c.fields.Has(name) {
			c.mu.Unlock()
			return fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
	}
	for name, value := range values {
		c.record[name] = value
		delete(c.remote, name)
	}
	failed := make(field.Errors)
	for _, name := range c.fields.Names() {
		_, touched := values[name]
		_, wasInvalid := c.invalid[name]
		if !touched && !wasInvalid {
			continue
		}
		coerced, verr := c.fields.Validate(name, c.record)
		if verr == nil && touched {
			c.record[name] = coerced
		}
		c.setInvalid(name, verr)
		if verr != nil && touched {
			failed[name] = verr
		}
	}
	c.refreshPagesLocked()
	if c.status != StatusSubmitting {
		c.formErrors = nil
		c.status = c.restingStatus()
	}
	notify := c.prepareNotify()
	c.mu.Unlock()

	notify()
	if failed.Empty() {
		return nil
	}
	return failed
}

// SetFacts re-resolves pages for new business facts. The current page is
// kept when it is still resolved; otherwise the index is clamped to the last
// valid page. An empty resolution is rejected and leaves the state unchanged.
func (c *Controller) SetFacts(facts predicate.Set) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	pages, err := c.resolve(facts, c.record)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.facts = facts.Clone()
	c.applyPages(pages)
	c.logger.Debug("wizard facts changed",
		zap.Strings("facts", c.facts.Keys()),
		zap.Int("pages", len(c.pages)),
		zap.String("page", c.pages[c.index].Name))
	notify := c.prepareNotify()
	c.mu.Unlock()

	notify()
	return nil
}

// Reset installs a new baseline, for example after the underlying quote was
// replaced externally. Any in-flight action is abandoned and its result is
// discarded. A nil facts set keeps the current facts.
func (c *Controller) Reset(initial field.Record, facts predicate.Set) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if facts == nil {
		facts = c.facts
	}
	rec := initial.Clone()
	pages, err := c.resolve(facts, rec)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.abandonLocked()
	c.facts = facts.Clone()
	c.baseline = rec
	c.record = rec.Clone()
	c.status = StatusClean
	c.invalid = nil
	c.remote = nil
	c.formErrors = nil
	c.applyPages(pages)
	c.logger.Debug("wizard reset", zap.Uint64("generation", c.generation))
	notify := c.prepareNotify()
	c.mu.Unlock()

	notify()
	return nil
}

// Close abandons any in-flight action and releases subscribers. It is safe to
// call more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.abandonLocked()
	c.closed = true
	c.listeners = nil
}

// Subscribe registers fn to receive a snapshot after every state change. The
// returned function unsubscribes.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || fn == nil {
		return func() {}
	}
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// abandonLocked cancels the in-flight action and bumps the generation so its
// completion is discarded.
func (c *Controller) abandonLocked() {
	c.generation++
	if c.inflight == nil {
		return
	}
	c.logger.Debug("wizard action abandoned", zap.String("action", c.inflight.action))
	c.inflight.cancel()
	if c.status == StatusSubmitting {
		c.restoreLocked(c.inflight)
	}
	c.inflight = nil
}

// refreshPagesLocked re-resolves the pages after the record changed so rules
// reading values follow the edits. A failed or empty resolution keeps the
// current pages.
func (c *Controller) refreshPagesLocked() {
	pages, err := c.resolve(c.facts, c.record)
	if err != nil {
		c.logger.Warn("wizard page resolution failed", zap.Error(err))
		return
	}
	c.applyPages(pages)
}

func (c *Controller) applyPages(pages []page.Page) {
	current := ""
	if c.index >= 0 && c.index < len(c.pages) {
		current = c.pages[c.index].Name
	}
	c.pages = pages
	if idx := page.IndexOf(pages, current); idx >= 0 {
		c.index = idx
		return
	}
	if c.index >= len(pages) {
		c.index = len(pages) - 1
	}
	if c.index < 0 {
		c.index = 0
	}
}

// restingStatus derives clean/dirty/error for a controller that is not
// submitting. Field failures reported by an action keep the error status
// until every referenced field is edited or the record returns to the
// baseline.
func (c *Controller) restingStatus() Status {
	if c.pristineLocked() {
		c.remote = nil
		return StatusClean
	}
	if c.status == StatusError && len(c.remote) > 0 {
		return StatusError
	}
	return StatusDirty
}

// pristineLocked reports whether the record matches the baseline once both
// are passed through the field validators, so raw input and coerced values
// of the same value compare equal.
func (c *Controller) pristineLocked() bool {
	return field.Equal(c.normalize(c.record), c.normalize(c.baseline))
}

// normalize replaces every declared field of rec with its coerced value.
// Values that fail validation are kept as entered.
func (c *Controller) normalize(rec field.Record) field.Record {
	out := rec.Clone()
	for _, name := range c.fields.Names() {
		if v, verr := c.fields.Validate(name, rec); verr == nil {
			out[name] = v
		}
	}
	return out
}

func (c *Controller) setInvalid(name string, verr *field.ValidationError) {
	if verr == nil {
		delete(c.invalid, name)
		return
	}
	if c.invalid == nil {
		c.invalid = make(field.Errors)
	}
	c.invalid[name] = verr
}

func (c *Controller) prepareNotify() func() {
	if len(c.listeners) == 0 {
		return func() {}
	}
	snap := c.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for i := 0; i < c.nextListener; i++ {
		if fn, ok := c.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
