package wizard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/field"
	"github.com/goliatone/go-formwizard/pkg/predicate"
)

func TestAdvanceAndRetreatStopAtTheEnds(t *testing.T) {
	t.Parallel()

	h := newHarness(t, predicate.Set{"bindable": true})

	if err := h.c.Retreat(); !errors.Is(err, ErrNoPreviousPage) {
		t.Fatalf("expected ErrNoPreviousPage, got %v", err)
	}
	if err := h.c.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	h.set("agreementToConductSignature", true)
	if err := h.c.Advance(); !errors.Is(err, ErrNoNextPage) {
		t.Fatalf("expected ErrNoNextPage, got %v", err)
	}
	if !h.c.Snapshot().Last() {
		t.Fatalf("expected to stay on the last page")
	}
	if err := h.c.Retreat(); err != nil {
		t.Fatalf("retreat: %v", err)
	}
	if _, idx := h.c.Current(); idx != 0 {
		t.Fatalf("expected first page, got %d", idx)
	}
}

func TestAdvanceRequiresValidPage(t *testing.T) {
	t.Parallel()

	h := newHarness(t, predicate.Set{"bindable": true})
	if err := h.c.SetValues(field.Record{"isEplSelected": false, "startDate": ""}); err == nil {
		t.Fatalf("expected validation failures")
	}
	before := h.c.Status()

	err := h.c.Advance()
	var errs field.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected field.Errors, got %v", err)
	}
	if diff := cmp.Diff([]string{"isEplSelected", "startDate"}, errs.Fields()); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	snap := h.c.Snapshot()
	if snap.PageIndex != 0 {
		t.Fatalf("expected to stay on coverage, got %d", snap.PageIndex)
	}
	if snap.Status != before {
		t.Fatalf("navigation changed status from %s to %s", before, snap.Status)
	}
}

func TestNavigationKeepsDirtyState(t *testing.T) {
	t.Parallel()

	h := newHarness(t, predicate.Set{"bindable": true})
	h.set("isDnoSelected", true)
	if err := h.c.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if got := h.c.Status(); got != StatusDirty {
		t.Fatalf("expected dirty after advance, got %s", got)
	}
}

func TestGoToValidatesSkippedPages(t *testing.T) {
	t.Parallel()

	h := newHarness(t, predicate.Set{"bindable": true})
	if err := h.c.Set("startDate", ""); err == nil {
		t.Fatalf("expected required error")
	}

	err := h.c.GoTo("signature")
	var errs field.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected field.Errors, got %v", err)
	}
	if _, idx := h.c.Current(); idx != 0 {
		t.Fatalf("expected to stay on coverage, got %d", idx)
	}

	h.set("startDate", "2026-11-02")
	if err := h.c.GoTo("signature"); err != nil {
		t.Fatalf("goto signature: %v", err)
	}
	if err := h.c.GoTo("missing"); !errors.Is(err, ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
}

func TestValidatePageAnnotatesErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(t, predicate.Set{"bindable": true})
	if err := h.c.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	errs := h.c.ValidatePage()
	if diff := cmp.Diff([]string{"agreementToConductSignature"}, errs.Fields()); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	snap := h.c.Snapshot()
	if diff := cmp.Diff([]string{"Please accept the agreement."}, snap.ErrorsFor("agreementToConductSignature")); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}
