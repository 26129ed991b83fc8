package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/predicate"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// app carries the state shared by every command once the persistent
// pre-run has loaded the configuration.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	prompts    tui.PromptDriver
	store      *definition.Store
}

func (a *app) load(ctx context.Context) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	store, err := definition.LoadFS(ctx, os.DirFS(cfg.Definitions))
	if err != nil {
		return fmt.Errorf("load definitions from %s: %w", cfg.Definitions, err)
	}
	logger.Debug("definitions loaded",
		zap.String("dir", cfg.Definitions),
		zap.Strings("wizards", store.IDs()))

	a.cfg = cfg
	a.logger = logger
	a.store = store
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) wizard(id string) (definition.Wizard, error) {
	w, ok := a.store.Wizard(id)
	if !ok {
		return definition.Wizard{}, fmt.Errorf("unknown wizard %q (available: %s)", id, strings.Join(a.store.IDs(), ", "))
	}
	return w, nil
}

// executor posts actions to the configured endpoint. Without an endpoint
// every action fails, which keeps offline commands usable.
func (a *app) executor() (action.Executor, error) {
	if strings.TrimSpace(a.cfg.Endpoint) == "" {
		return action.ExecutorFunc(func(context.Context, string, map[string]any) (any, error) {
			return nil, action.Fail(action.CodeTransport, "no endpoint configured")
		}), nil
	}
	opts := []action.HTTPOption{
		action.WithHTTPClient(&http.Client{Timeout: a.cfg.Timeout}),
		action.WithHTTPLogger(a.logger),
	}
	if a.cfg.Token != "" {
		opts = append(opts, action.WithHeader("Authorization", "Bearer "+a.cfg.Token))
	}
	return action.NewHTTPExecutor(a.cfg.Endpoint, opts...)
}

func (a *app) controller(w definition.Wizard, facts map[string]string) (*wizard.Controller, error) {
	exec, err := a.executor()
	if err != nil {
		return nil, err
	}
	cfg, err := w.Build(exec, definition.BuildOptions{})
	if err != nil {
		return nil, err
	}
	if cfg.Facts == nil {
		cfg.Facts = predicate.Set{}
	}
	for name, raw := range facts {
		cfg.Facts[name] = parseFact(raw)
	}
	return wizard.New(cfg, wizard.WithLogger(a.logger.Named("wizard")))
}

func parseFact(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if b, err := strconv.ParseBool(trimmed); err == nil {
		return b
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return trimmed
}

func (a *app) bindFlags(cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	for key, flag := range map[string]string{
		"definitions": "definitions",
		"endpoint":    "endpoint",
		"log_level":   "log-level",
		"templates":   "templates",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

func sortedNames(errs map[string][]string) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var errInvalid = errors.New("validation failed")
