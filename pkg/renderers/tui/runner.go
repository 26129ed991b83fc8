package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Wizard is the subset of *wizard.Controller driven by the runner.
type Wizard interface {
	Snapshot() wizard.Snapshot
	Fields() *field.Set
	Actions() []string
	Set(name string, value any) error
	Advance() error
	Retreat() error
	Dispatch(ctx context.Context, name string) (action.Outcome, error)
}

var _ Wizard = (*wizard.Controller)(nil)

var errInvalidChoice = errors.New("tui: invalid choice")

type menuKind int

const (
	menuNext menuKind = iota
	menuBack
	menuAction
	menuQuit
)

type menuItem struct {
	label  string
	kind   menuKind
	action string
}

// Runner walks a wizard in the terminal: it prompts the fields of the current
// page, then offers a menu to move between pages, run an action or quit.
type Runner struct {
	w       Wizard
	driver  PromptDriver
	theme   Theme
	logger  *zap.Logger
	actions []string
}

// New constructs a runner for w with the survey driver by default.
func New(w Wizard, options ...Option) (*Runner, error) {
	if w == nil {
		return nil, ErrNoWizard
	}
	r := &Runner{
		w:      w,
		theme:  DefaultTheme,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.actions == nil {
		r.actions = w.Actions()
	}
	return r, nil
}

// Run loops until an action succeeds, returning its outcome. Quitting from
// the menu or interrupting a prompt yields ErrAborted. Field errors on the
// current page are printed next to their prompt, others when reported.
func (r *Runner) Run(ctx context.Context) (action.Outcome, error) {
	if ctx == nil {
		return action.Outcome{}, errors.New("tui: context is required")
	}
	for {
		if err := ctx.Err(); err != nil {
			return action.Outcome{}, err
		}
		snap := r.w.Snapshot()
		current := snap.Pages[snap.PageIndex]
		r.info(ctx, fmt.Sprintf("%s %s (%d/%d)", r.theme.PagePrefix, pageTitle(current), snap.PageIndex+1, len(snap.Pages)))
		for _, msg := range snap.FormErrors {
			r.fail(ctx, msg)
		}

		for _, name := range current.Fields {
			f, ok := r.w.Fields().Get(name)
			if !ok || f.Kind == field.KindHidden {
				continue
			}
			if err := r.promptField(ctx, f, snap); err != nil {
				return action.Outcome{}, err
			}
		}

		item, err := r.menu(ctx)
		if err != nil {
			return action.Outcome{}, err
		}
		switch item.kind {
		case menuQuit:
			return action.Outcome{}, ErrAborted
		case menuNext:
			r.report(ctx, r.w.Advance())
		case menuBack:
			r.report(ctx, r.w.Retreat())
		case menuAction:
			out, err := r.w.Dispatch(ctx, item.action)
			if err == nil {
				r.logger.Debug("tui action succeeded", zap.String("action", item.action))
				r.info(ctx, fmt.Sprintf("%s%s completed", r.theme.InfoPrefix, item.action))
				return out, nil
			}
			if errors.Is(err, action.ErrCanceled) || errors.Is(err, wizard.ErrClosed) {
				return action.Outcome{}, err
			}
			r.logger.Debug("tui action failed", zap.String("action", item.action), zap.Error(err))
			if action.IsFailure(err) {
				r.fail(ctx, item.action+" failed")
				continue
			}
			r.report(ctx, err)
		}
	}
}

func (r *Runner) promptField(ctx context.Context, f field.Field, snap wizard.Snapshot) error {
	for _, msg := range snap.ErrorsFor(f.Name) {
		r.fail(ctx, fmt.Sprintf("%s: %s", f.DisplayLabel(), msg))
	}
	current := snap.Record[f.Name]
	for {
		value, err := r.ask(ctx, f, current)
		if errors.Is(err, errInvalidChoice) {
			r.fail(ctx, fmt.Sprintf("Invalid %s selection", f.DisplayLabel()))
			continue
		}
		if err != nil {
			return err
		}
		err = r.w.Set(f.Name, value)
		if err == nil {
			return nil
		}
		var verr *field.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		r.fail(ctx, fmt.Sprintf("%s: %s", f.DisplayLabel(), verr.Message))
		current = value
	}
}

func (r *Runner) ask(ctx context.Context, f field.Field, current any) (any, error) {
	label := f.DisplayLabel()
	switch {
	case f.Kind == field.KindCheckbox:
		b, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: b, Help: f.Help})
	case (f.Kind == field.KindSelect || f.Kind == field.KindRadioGroup) && len(f.Options) > 0:
		labels := make([]string, len(f.Options))
		selected := -1
		for i, o := range f.Options {
			labels[i] = optionLabel(o)
			if current != nil && field.Equal(field.Record{"v": current}, field.Record{"v": o.Value}) {
				selected = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: label, Options: labels, DefaultIndex: selected, Help: f.Help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(f.Options) {
			return nil, errInvalidChoice
		}
		return f.Options[idx].Value, nil
	default:
		input, err := r.driver.Input(ctx, InputConfig{Message: label, Default: inputDefault(current), Help: f.Help})
		if err != nil {
			return nil, err
		}
		if f.Kind == field.KindText {
			return input, nil
		}
		if strings.TrimSpace(input) == "" {
			return nil, nil
		}
		return strings.TrimSpace(input), nil
	}
}

func (r *Runner) menu(ctx context.Context) (menuItem, error) {
	snap := r.w.Snapshot()
	var items []menuItem
	if !snap.Last() {
		items = append(items, menuItem{label: "Next page", kind: menuNext})
	}
	if !snap.First() {
		items = append(items, menuItem{label: "Previous page", kind: menuBack})
	}
	for _, name := range r.actions {
		items = append(items, menuItem{label: "Run " + name, kind: menuAction, action: name})
	}
	items = append(items, menuItem{label: "Quit", kind: menuQuit})

	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.label
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: labels, DefaultIndex: 0})
		if err != nil {
			return menuItem{}, err
		}
		if idx >= 0 && idx < len(items) {
			return items[idx], nil
		}
		r.fail(ctx, "Invalid menu selection")
	}
}

func (r *Runner) report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	var errs field.Errors
	if errors.As(err, &errs) {
		snap := r.w.Snapshot()
		current := snap.Pages[snap.PageIndex]
		for _, name := range errs.Fields() {
			if current.Has(name) {
				continue
			}
			label := name
			if f, ok := r.w.Fields().Get(name); ok {
				label = f.DisplayLabel()
			}
			r.fail(ctx, fmt.Sprintf("%s: %s", label, errs[name].Message))
		}
		return
	}
	r.fail(ctx, err.Error())
}

func (r *Runner) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Debug("tui info failed", zap.Error(err))
	}
}

func (r *Runner) fail(ctx context.Context, msg string) {
	prefix := r.theme.ErrorPrefix
	if prefix != "" {
		prefix += " "
	}
	r.info(ctx, prefix+msg)
}

func pageTitle(p page.Page) string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	return p.Name
}

func optionLabel(o field.Option) string {
	if strings.TrimSpace(o.Label) != "" {
		return o.Label
	}
	return fmt.Sprint(o.Value)
}

func inputDefault(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.Format("2006-01-02")
	case string:
		return t
	default:
		return scalar(t)
	}
}
