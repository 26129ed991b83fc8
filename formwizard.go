package formwizard

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/quote"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Controller aliases wizard.Controller for callers that only import the
// module root.
type Controller = wizard.Controller

// Config aliases wizard.Config.
type Config = wizard.Config

// Snapshot aliases wizard.Snapshot.
type Snapshot = wizard.Snapshot

// Status aliases wizard.Status.
type Status = wizard.Status

// Outcome aliases action.Outcome.
type Outcome = action.Outcome

// New constructs a controller from a static configuration.
func New(cfg Config, options ...wizard.Option) (*Controller, error) {
	return wizard.New(cfg, options...)
}

// LoadDefinitions parses every wizard definition found in fsys.
func LoadDefinitions(ctx context.Context, fsys fs.FS) (*definition.Store, error) {
	return definition.LoadFS(ctx, fsys)
}

// NewFromDefinition loads the definitions in fsys and builds a controller
// for the wizard id whose actions call exec.
func NewFromDefinition(ctx context.Context, fsys fs.FS, id string, exec action.Executor, options ...wizard.Option) (*Controller, error) {
	store, err := definition.LoadFS(ctx, fsys)
	if err != nil {
		return nil, err
	}
	w, ok := store.Wizard(id)
	if !ok {
		return nil, fmt.Errorf("formwizard: unknown wizard %q", id)
	}
	cfg, err := w.Build(exec, definition.BuildOptions{})
	if err != nil {
		return nil, err
	}
	return wizard.New(cfg, options...)
}

// NewQuoteLandingPage exposes the quote landing page constructor.
func NewQuoteLandingPage(cfg quote.LandingConfig, options ...wizard.Option) (*quote.LandingPage, error) {
	return quote.NewLandingPage(cfg, options...)
}
