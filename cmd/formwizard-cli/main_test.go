package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--definitions", "testdata/wizards", "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "contact\tContact\tcontact.yaml\n", out)
}

func TestPagesCommandFollowsFacts(t *testing.T) {
	out, err := execute(t, "pages", "contact")
	require.NoError(t, err)
	assert.Equal(t, "1. details (Details): email, topic\n", out)

	out, err = execute(t, "pages", "contact", "--fact", "vip=true")
	require.NoError(t, err)
	assert.Equal(t, "1. details (Details): email, topic\n2. extras: seats, priority\n", out)
}

func TestPagesCommandUnknownWizard(t *testing.T) {
	_, err := execute(t, "pages", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: contact")
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "contact", "--values", "testdata/values/ok.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact [dirty] page 1/1: Details")
	assert.Contains(t, out, "  Email: ada@example.test")
	assert.Contains(t, out, "valid\n")

	out, err = execute(t, "validate", "contact", "--values", "testdata/values/bad.json", "--action", "send")
	require.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "email: is required\n")
	assert.Contains(t, out, "topic: must be one of [sales, support]\n")
	assert.Contains(t, out, "  Topic: billing (! must be one of [sales, support])")

	_, err = execute(t, "validate", "contact", "--values", "testdata/values/ok.yaml", "--action", "nope")
	require.Error(t, err)
}

func TestParseFact(t *testing.T) {
	assert.Equal(t, true, parseFact("true"))
	assert.Equal(t, 3.0, parseFact(" 3 "))
	assert.Equal(t, "gold", parseFact("gold"))
}

type scriptedPrompts struct {
	inputs  []string
	selects []int
	infos   []string
}

func (s *scriptedPrompts) Input(context.Context, tui.InputConfig) (string, error) {
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, nil
}

func (s *scriptedPrompts) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, errors.New("no confirm scripted")
}

func (s *scriptedPrompts) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(s.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	v := s.selects[0]
	s.selects = s.selects[1:]
	return v, nil
}

func (s *scriptedPrompts) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func executeRun(t *testing.T, prompts tui.PromptDriver, args ...string) (string, error) {
	t.Helper()
	root := newAppCmd(&app{prompts: prompts})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--definitions", "testdata/wizards", "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunCommandPostsAction(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contact.send", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ticket":"T-1"}`))
	}))
	defer srv.Close()

	// email, topic=support, then "Run send" from the menu
	prompts := &scriptedPrompts{inputs: []string{"ada@example.test"}, selects: []int{1, 0}}
	out, err := executeRun(t, prompts, "run", "contact", "--endpoint", srv.URL, "--output", "json")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.test", got["email"])
	assert.Equal(t, "support", got["topic"])
	assert.Contains(t, out, "send completed")
	assert.Contains(t, out, "T-1")
	assert.Contains(t, out, `{"email":"ada@example.test","topic":"support"}`)
}

func TestRunCommandRejectsUnknownOutput(t *testing.T) {
	_, err := executeRun(t, &scriptedPrompts{}, "run", "contact", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestRunCommandQuit(t *testing.T) {
	// "Quit" follows "Run send" on a single page wizard
	prompts := &scriptedPrompts{inputs: []string{"ada@example.test"}, selects: []int{0, 1}}
	out, err := executeRun(t, prompts, "run", "contact")
	require.NoError(t, err)
	assert.Equal(t, "aborted\n", out)
}
