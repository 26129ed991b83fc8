package definition

import (
	"context"
	"errors"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

func loadStore(t *testing.T) *Store {
	t.Helper()
	store, err := LoadFS(context.Background(), os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}

func TestLoadFSMergesSchemaFields(t *testing.T) {
	t.Parallel()

	store := loadStore(t)
	if diff := cmp.Diff([]string{"contact", "quote-options"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	w, ok := store.Wizard("quote-options")
	if !ok {
		t.Fatalf("quote-options not loaded")
	}
	names := make([]string, len(w.Fields))
	for i, f := range w.Fields {
		names[i] = f.Name + ":" + f.Kind
	}
	want := []string{
		"startDate:date",
		"isDnoSelected:hidden",
		"dnoLimit:select",
		"dnoLevel:radioGroup",
		"partnerCode:text",
		"isEplSelected:checkbox",
		"agreementToConductSignature:checkbox",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if w.Source != "quote.wizard.yaml" {
		t.Fatalf("unexpected source %q", w.Source)
	}
}

func TestBuildRunsActionsThroughExecutor(t *testing.T) {
	t.Parallel()

	w, _ := loadStore(t).Wizard("quote-options")
	var gotOp string
	exec := action.ExecutorFunc(func(_ context.Context, op string, args map[string]any) (any, error) {
		gotOp = op
		out := make(map[string]any, len(args))
		for k, v := range args {
			out[k] = v
		}
		out["dnoLimit"] = 2000000
		return out, nil
	})

	cfg, err := w.Build(exec, BuildOptions{Now: fixedNow})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ctrl, err := wizard.New(cfg)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	defer ctrl.Close()

	if diff := cmp.Diff([]string{"update", "sign"}, ctrl.Actions()); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if err := ctrl.Set("isDnoSelected", true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := ctrl.Dispatch(context.Background(), "update"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotOp != "quote.requote" {
		t.Fatalf("unexpected operation %q", gotOp)
	}
	if n, _ := ctrl.Record().Float("dnoLimit"); n != 2000000 {
		t.Fatalf("expected replaced baseline, got %v", n)
	}
	if got := ctrl.Status(); got != wizard.StatusClean {
		t.Fatalf("expected clean, got %s", got)
	}

	_, err = ctrl.Dispatch(context.Background(), "sign")
	var errs field.Errors
	if !errors.As(err, &errs) || errs["agreementToConductSignature"] == nil {
		t.Fatalf("expected signature error, got %v", err)
	}
}

func TestBuiltValidatorsFollowDeclarations(t *testing.T) {
	t.Parallel()

	store := loadStore(t)
	quote, _ := store.Wizard("quote-options")
	fields, err := quote.FieldSet(BuildOptions{Now: fixedNow})
	if err != nil {
		t.Fatalf("field set: %v", err)
	}

	cases := []struct {
		name  string
		field string
		rec   field.Record
		want  string
	}{
		{name: "past date", field: "startDate", rec: field.Record{"startDate": "2026-10-01"},
			want: "Effective date cannot be in the past."},
		{name: "far date", field: "startDate", rec: field.Record{"startDate": "2027-03-01"}, want: field.CodeDateMax},
		{name: "limit below minimum", field: "dnoLimit", rec: field.Record{"dnoLimit": 10}, want: field.CodeMin},
		{name: "level enum", field: "dnoLevel", rec: field.Record{"dnoLevel": "gold"}, want: field.CodeEnum},
		{name: "no coverage", field: "isEplSelected", rec: field.Record{"isEplSelected": false, "isDnoSelected": false},
			want: "Please select your coverage."},
		{name: "one coverage", field: "isEplSelected", rec: field.Record{"isEplSelected": false, "isDnoSelected": true}},
		{name: "unchecked agreement", field: "agreementToConductSignature", rec: field.Record{}, want: CodeMustBeTrue},
	}
	for _, tc := range cases {
		_, verr := fields.Validate(tc.field, tc.rec)
		if tc.want == "" {
			if verr != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, verr)
			}
			continue
		}
		if verr == nil || (verr.Code != tc.want && verr.Message != tc.want) {
			t.Fatalf("%s: expected %q, got %v", tc.name, tc.want, verr)
		}
	}

	contact, _ := store.Wizard("contact")
	cfields, err := contact.FieldSet(BuildOptions{})
	if err != nil {
		t.Fatalf("contact field set: %v", err)
	}
	if _, verr := cfields.Validate("seats", field.Record{"seats": 7}); verr == nil || verr.Code != field.CodeEnum {
		t.Fatalf("expected seats enum error, got %v", verr)
	}
	if _, verr := cfields.Validate("topic", field.Record{"topic": "billing"}); verr == nil || verr.Code != field.CodeEnum {
		t.Fatalf("expected topic enum error, got %v", verr)
	}
	if v, verr := cfields.Validate("email", field.Record{"email": "<b>a@b.test</b>"}); verr != nil || v != "a@b.test" {
		t.Fatalf("expected sanitized email, got %v %v", v, verr)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
	}{
		{name: "empty", data: "  "},
		{name: "invalid", data: "wizards: [unterminated"},
		{name: "blank id", data: "wizards:\n  ' ':\n    title: x\n"},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.data), tc.name+".yaml"); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadFSRejectsDuplicates(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("wizards:\n  w:\n    title: A\n")},
		"b.json": {Data: []byte(`{"wizards": {"w": {"title": "B"}}}`)},
	}
	if _, err := LoadFS(context.Background(), fsys); err == nil {
		t.Fatalf("expected duplicate error")
	}

	empty, err := LoadFS(context.Background(), nil)
	if err != nil || !empty.Empty() {
		t.Fatalf("expected empty store, got %v %v", empty, err)
	}
}

func TestFieldSpecRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	if _, err := (FieldSpec{Name: "x", Kind: "slider"}).Field(BuildOptions{}); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if _, err := (FieldSpec{Name: "x", Type: "blob"}).Field(BuildOptions{}); err == nil {
		t.Fatalf("expected unknown type error")
	}
}
