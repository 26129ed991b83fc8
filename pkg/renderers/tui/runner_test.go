package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) said(fragment string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

func signupController(t *testing.T, run action.RunFunc) *wizard.Controller {
	t.Helper()
	fields, err := field.NewSet(
		field.Field{Name: "name", Kind: field.KindText, Label: "Name", Validator: field.StringRule{Required: true}},
		field.Field{
			Name:      "plan",
			Kind:      field.KindSelect,
			Label:     "Plan",
			Options:   []field.Option{{Label: "Basic", Value: "basic"}, {Label: "Pro", Value: "pro"}},
			Validator: field.StringRule{Required: true, Enum: []string{"basic", "pro"}},
		},
		field.Field{
			Name:  "agree",
			Kind:  field.KindCheckbox,
			Label: "Agree",
			Validator: field.Chain(field.BoolRule{}, field.Custom("custom.agree", "must be checked", func(v any, _ field.Record) bool {
				b, _ := v.(bool)
				return b
			})),
		},
	)
	if err != nil {
		t.Fatalf("fields: %v", err)
	}
	ctrl, err := wizard.New(wizard.Config{
		Fields: fields,
		Pages: []page.Definition{
			{Name: "details", Title: "Details", Fields: []string{"name", "plan"}},
			{Name: "confirm", Fields: []string{"agree"}},
		},
		Actions: []action.Action{{Name: "submit", Fields: []string{"name", "plan", "agree"}, Run: run}},
	})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl
}

func okRun(_ context.Context, rec field.Record) (action.Outcome, error) {
	return action.Outcome{Payload: rec.String("name")}, nil
}

func TestRunCompletesAction(t *testing.T) {
	t.Parallel()

	ctrl := signupController(t, okRun)
	driver := &stubDriver{
		inputs:    []string{"", "Ada"},
		selectIdx: []int{1, 0, 1},
		confirm:   []bool{true},
	}
	r, err := New(ctrl, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	out, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Payload != "Ada" || out.Action != "submit" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !driver.said("Name: is required") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
	if !driver.said("== Details (1/2)") || !driver.said("== confirm (2/2)") {
		t.Fatalf("expected page headers, got %v", driver.infoMessages)
	}

	want := field.Record{"name": "Ada", "plan": "pro", "agree": true}
	if diff := cmp.Diff(want, ctrl.Record()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if got := ctrl.Status(); got != wizard.StatusClean {
		t.Fatalf("expected clean after success, got %s", got)
	}
}

func TestRunReportsBlockedActionAndQuits(t *testing.T) {
	t.Parallel()

	ctrl := signupController(t, okRun)
	driver := &stubDriver{
		inputs:    []string{"Ada", "Ada"},
		selectIdx: []int{0, 1, 0, 2},
	}
	r, err := New(ctrl, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := r.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !driver.said("! Agree: must be checked") {
		t.Fatalf("expected agree message, got %v", driver.infoMessages)
	}
	if got := ctrl.Status(); got != wizard.StatusDirty {
		t.Fatalf("expected dirty, got %s", got)
	}
}

func TestRunReportsFailures(t *testing.T) {
	t.Parallel()

	failing := func(context.Context, field.Record) (action.Outcome, error) {
		return action.Outcome{}, action.Fail("rejected", "Plan unavailable")
	}
	ctrl := signupController(t, failing)
	if err := ctrl.SetValues(field.Record{"name": "Ada", "plan": "basic", "agree": true}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	driver := &stubDriver{
		inputs:    []string{"Ada", "Ada"},
		selectIdx: []int{0, 1, 0, 2},
	}
	r, err := New(ctrl, WithPromptDriver(driver), WithTheme(Theme{PagePrefix: "#", ErrorPrefix: "x"}))
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	if _, err := r.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !driver.said("x submit failed") || !driver.said("x Plan unavailable") {
		t.Fatalf("expected failure messages, got %v", driver.infoMessages)
	}
}

func TestNewRequiresWizard(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); !errors.Is(err, ErrNoWizard) {
		t.Fatalf("expected ErrNoWizard, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	rec := field.Record{"b": 1.0, "a": "x", "tags": []any{"p", "q"}}
	cases := []struct {
		format OutputFormat
		want   string
	}{
		{format: OutputFormatJSON, want: `{"a":"x","b":1,"tags":["p","q"]}`},
		{format: OutputFormatFormURLEncoded, want: "a=x&b=1&tags%5B%5D=p&tags%5B%5D=q"},
		{format: OutputFormatPrettyText, want: "a=x\nb=1\ntags[0]=p\ntags[1]=q\n"},
	}
	for _, tc := range cases {
		got, err := Encode(rec, tc.format)
		if err != nil {
			t.Fatalf("%s: %v", tc.format, err)
		}
		if diff := cmp.Diff(tc.want, string(got)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", tc.format, diff)
		}
	}
	if _, err := Encode(rec, "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}
