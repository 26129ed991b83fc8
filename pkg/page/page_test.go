package page

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/predicate"
)

func testFields(t *testing.T) *field.Set {
	t.Helper()
	set, err := field.NewSet(
		field.Field{Name: "dnoLimit"},
		field.Field{Name: "startDate"},
		field.Field{Name: "brokerSignature"},
		field.Field{Name: "agreementToConductSignature"},
		field.Field{Name: "warrantyAndFraudSignature"},
	)
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	return set
}

func quoteDefinitions() []Definition {
	return []Definition{
		{Name: "coverage", Fields: []string{"dnoLimit", "startDate"}},
		{
			Name:   "signature",
			When:   "bindable",
			Fields: []string{"agreementToConductSignature", "warrantyAndFraudSignature"},
			Variants: []Variant{
				{When: "broker", Fields: []string{"brokerSignature"}},
			},
		},
	}
}

func TestResolveSelectsPagesAndVariants(t *testing.T) {
	t.Parallel()

	r := NewResolver(quoteDefinitions(), nil)

	cases := []struct {
		name  string
		facts predicate.Set
		want  []Page
	}{
		{
			name:  "customer bindable",
			facts: predicate.Set{"bindable": true},
			want: []Page{
				{Name: "coverage", Fields: []string{"dnoLimit", "startDate"}},
				{Name: "signature", Fields: []string{"agreementToConductSignature", "warrantyAndFraudSignature"}},
			},
		},
		{
			name:  "broker bindable",
			facts: predicate.Set{"bindable": true, "broker": true},
			want: []Page{
				{Name: "coverage", Fields: []string{"dnoLimit", "startDate"}},
				{Name: "signature", Fields: []string{"brokerSignature"}},
			},
		},
		{
			name:  "expired",
			facts: predicate.Set{"bindable": false},
			want: []Page{
				{Name: "coverage", Fields: []string{"dnoLimit", "startDate"}},
			},
		},
	}

	for _, tc := range cases {
		got, err := r.Resolve(predicate.Scope{Facts: tc.facts})
		if err != nil {
			t.Fatalf("%s: resolve: %v", tc.name, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: pages mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	r := NewResolver(quoteDefinitions(), nil)
	scope := predicate.Scope{Facts: predicate.Set{"bindable": true, "broker": true}}
	first, err := r.Resolve(scope)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := r.Resolve(scope)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("resolution changed on run %d:\n%s", i, diff)
		}
	}
}

func TestResolveDoesNotAliasDefinitions(t *testing.T) {
	t.Parallel()

	defs := quoteDefinitions()
	r := NewResolver(defs, nil)
	pages, err := r.Resolve(predicate.Scope{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	pages[0].Fields[0] = "mutated"
	if r.Definitions()[0].Fields[0] != "dnoLimit" {
		t.Fatalf("resolved page aliases definition fields")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	fields := testFields(t)
	if err := Validate(quoteDefinitions(), fields, nil); err != nil {
		t.Fatalf("valid definitions rejected: %v", err)
	}

	cases := []struct {
		name string
		defs []Definition
		want string
	}{
		{name: "none", defs: nil, want: "at least one page"},
		{name: "empty fields", defs: []Definition{{Name: "a"}}, want: "has no fields"},
		{name: "undeclared", defs: []Definition{{Name: "a", Fields: []string{"nope"}}}, want: "undeclared field"},
		{name: "duplicate", defs: []Definition{{Name: "a", Fields: []string{"dnoLimit"}}, {Name: "a", Fields: []string{"dnoLimit"}}}, want: "duplicate page"},
		{name: "empty variant", defs: []Definition{{Name: "a", Fields: []string{"dnoLimit"}, Variants: []Variant{{When: "x"}}}}, want: "has no fields"},
	}
	for _, tc := range cases {
		err := Validate(tc.defs, fields, nil)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: error = %v, want containing %q", tc.name, err, tc.want)
		}
	}
}

func TestValidateCompilesRules(t *testing.T) {
	t.Parallel()

	defs := []Definition{{Name: "a", When: "a = b", Fields: []string{"dnoLimit"}}}
	r := NewResolver(defs, nil)
	if err := Validate(defs, testFields(t), r.eval); err == nil {
		t.Fatalf("expected syntax error")
	}
}
