package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/definition"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func newRootCmd() *cobra.Command {
	return newAppCmd(&app{})
}

func newAppCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formwizard-cli",
		Short:         "Run multi-page form wizards from YAML/JSON definitions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `formwizard-cli loads wizard definitions (YAML, JSON or OpenAPI backed) and
drives them in the terminal. Actions are posted as JSON to the configured
endpoint at {endpoint}/{operation}.

Configuration precedence:
  CLI flags > FORMWIZARD_* environment variables > ./formwizard.yml > defaults`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New()
			if err != nil {
				return err
			}
			a.v = v
			if err := a.bindFlags(cmd.Root()); err != nil {
				return err
			}
			return a.load(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./formwizard.yml when present)")
	flags.String("definitions", "", "directory holding wizard definitions")
	flags.String("endpoint", "", "base URL actions are posted to")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("templates", "", "directory with summary templates overriding the defaults")

	root.AddCommand(newListCmd(a), newPagesCmd(a), newValidateCmd(a), newRunCmd(a))
	return root
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the loaded wizards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, id := range a.store.IDs() {
				w, _ := a.store.Wizard(id)
				fmt.Fprintf(out, "%s\t%s\t%s\n", id, w.Title, w.Source)
			}
			return nil
		},
	}
}

func newPagesCmd(a *app) *cobra.Command {
	var facts map[string]string
	cmd := &cobra.Command{
		Use:   "pages <wizard>",
		Short: "Show the pages a wizard resolves to for the given facts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.wizard(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.controller(w, facts)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			out := cmd.OutOrStdout()
			for i, p := range ctrl.Pages() {
				title := ""
				if p.Title != "" {
					title = " (" + p.Title + ")"
				}
				fmt.Fprintf(out, "%d. %s%s: %s\n", i+1, p.Name, title, strings.Join(p.Fields, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&facts, "fact", nil, "business fact overrides, e.g. --fact bindable=false")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		facts      map[string]string
		valuesPath string
		actionName string
	)
	cmd := &cobra.Command{
		Use:   "validate <wizard>",
		Short: "Validate a values file against a wizard",
		Long: `Validate a YAML or JSON values file against a wizard. Every field is checked
unless --action narrows the check to the fields the action requires. The
summary of the first page is printed followed by every error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.wizard(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			ctrl, err := a.controller(w, facts)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := ctrl.SetValues(values); err != nil && !isFieldErrors(err) {
				return err
			}
			names := ctrl.Fields().Names()
			if actionName != "" {
				names = nil
				for _, spec := range w.Actions {
					if spec.Name == actionName {
						names = append(names, spec.Fields...)
					}
				}
				if names == nil {
					return fmt.Errorf("wizard %q has no action %q", w.ID, actionName)
				}
			}
			errs := ctrl.Fields().ValidateFields(ctrl.Record(), names...)

			engine, err := a.engine(w)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := engine.Snapshot(ctrl.Snapshot(), ctrl.Fields(), out); err != nil {
				return err
			}
			if errs.Empty() {
				fmt.Fprintln(out, "valid")
				return nil
			}
			messages := errs.Messages()
			for _, name := range sortedNames(messages) {
				fmt.Fprintf(out, "%s: %s\n", name, strings.Join(messages[name], "; "))
			}
			return errInvalid
		},
	}
	cmd.Flags().StringToStringVar(&facts, "fact", nil, "business fact overrides")
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML or JSON file with field values")
	cmd.Flags().StringVar(&actionName, "action", "", "validate only the fields required by this action")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var (
		facts  map[string]string
		output string
	)
	cmd := &cobra.Command{
		Use:   "run <wizard>",
		Short: "Fill a wizard interactively and run one of its actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = a.cfg.Output
			}
			format, ok := tui.ParseOutputFormat(output)
			if !ok {
				return fmt.Errorf("unknown output format %q", output)
			}
			w, err := a.wizard(args[0])
			if err != nil {
				return err
			}
			ctrl, err := a.controller(w, facts)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			out := cmd.OutOrStdout()
			driver := a.prompts
			if driver == nil {
				driver = tui.NewSurveyDriver(out)
			}
			runner, err := tui.New(ctrl,
				tui.WithPromptDriver(driver),
				tui.WithLogger(a.logger.Named("tui")))
			if err != nil {
				return err
			}
			outcome, err := runner.Run(cmd.Context())
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(out, "aborted")
				return nil
			}
			if err != nil {
				return err
			}

			engine, err := a.engine(w)
			if err != nil {
				return err
			}
			if _, err := engine.Outcome(outcome, out); err != nil {
				return err
			}
			encoded, err := tui.Encode(ctrl.Record(), format)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(encoded))
			return nil
		},
	}
	cmd.Flags().StringToStringVar(&facts, "fact", nil, "business fact overrides")
	cmd.Flags().StringVar(&output, "output", "", "record output format (json, form, pretty)")
	return cmd
}

func (a *app) engine(w definition.Wizard) (*render.Engine, error) {
	opts := []render.Option{render.WithGlobalData(map[string]any{"title": w.Title})}
	if a.cfg.Templates != "" {
		opts = append(opts, render.WithBaseDir(a.cfg.Templates))
	}
	return render.New(opts...)
}

func readValues(path string) (field.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return field.Record(values), nil
}

func isFieldErrors(err error) bool {
	var errs field.Errors
	return errors.As(err, &errs)
}
