package wizard

import (
	"sync"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/page"
	"github.com/goliatone/go-formwizard/pkg/predicate"
)

func mustBeTrue(message string) field.Validator {
	return field.Chain(
		field.BoolRule{},
		field.Custom("custom.accepted", message, func(value any, _ field.Record) bool {
			b, _ := value.(bool)
			return b
		}),
	)
}

func quoteFields(t *testing.T) *field.Set {
	t.Helper()
	set, err := field.NewSet(
		field.Field{Name: "isDnoSelected", Kind: field.KindCheckbox, Validator: field.BoolRule{}},
		field.Field{Name: "isEplSelected", Kind: field.KindCheckbox, Validator: field.Chain(
			field.BoolRule{},
			field.Custom("custom.coverage", "Please select your coverage.", func(value any, rec field.Record) bool {
				b, _ := value.(bool)
				return b || rec.Bool("isDnoSelected")
			}),
		)},
		field.Field{Name: "dnoLimit", Kind: field.KindSelect, Validator: field.NumberRule{Allowed: []float64{1000000, 2000000, 3000000}}},
		field.Field{Name: "startDate", Kind: field.KindText, Validator: field.StringRule{Required: true}},
		field.Field{Name: "agreementToConductSignature", Kind: field.KindCheckbox, Validator: mustBeTrue("Please accept the agreement.")},
		field.Field{Name: "brokerSignature", Kind: field.KindCheckbox, Validator: mustBeTrue("Please sign as broker.")},
	)
	if err != nil {
		t.Fatalf("new set: %v", err)
	}
	return set
}

func quotePages() []page.Definition {
	return []page.Definition{
		{Name: "coverage", Fields: []string{"isDnoSelected", "isEplSelected", "dnoLimit", "startDate"}},
		{
			Name:     "signature",
			When:     "bindable",
			Fields:   []string{"agreementToConductSignature"},
			Variants: []page.Variant{{When: "broker", Fields: []string{"brokerSignature"}}},
		},
	}
}

func baselineRecord() field.Record {
	return field.Record{
		"isDnoSelected":               false,
		"isEplSelected":               true,
		"dnoLimit":                    1000000.0,
		"startDate":                   "2026-11-01",
		"agreementToConductSignature": false,
		"brokerSignature":             false,
	}
}

type harness struct {
	t     *testing.T
	c     *Controller
	mu    sync.Mutex
	snaps []Snapshot
}

func newHarness(t *testing.T, facts predicate.Set, actions ...action.Action) *harness {
	t.Helper()
	c, err := New(Config{
		Fields:  quoteFields(t),
		Pages:   quotePages(),
		Actions: actions,
		Initial: baselineRecord(),
		Facts:   facts,
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	h := &harness{t: t, c: c}
	c.Subscribe(func(s Snapshot) {
		h.mu.Lock()
		h.snaps = append(h.snaps, s)
		h.mu.Unlock()
	})
	t.Cleanup(c.Close)
	return h
}

func (h *harness) statuses() []Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Status, len(h.snaps))
	for i, s := range h.snaps {
		out[i] = s.Status
	}
	return out
}

func (h *harness) set(name string, value any) {
	h.t.Helper()
	if err := h.c.Set(name, value); err != nil {
		h.t.Fatalf("set %s: %v", name, err)
	}
}
