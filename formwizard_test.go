package formwizard

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/action"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const contactDefinition = `
wizards:
  contact:
    fields:
      - name: email
        required: true
      - name: optIn
        kind: checkbox
    pages:
      - name: details
        fields: [email, optIn]
    actions:
      - name: send
        operation: contact.send
        fields: [email]
`

func TestNewFromDefinition(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"contact.yaml": {Data: []byte(contactDefinition)}}
	var got map[string]any
	exec := action.ExecutorFunc(func(_ context.Context, op string, args map[string]any) (any, error) {
		got = args
		return op, nil
	})

	ctrl, err := NewFromDefinition(context.Background(), fsys, "contact", exec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer ctrl.Close()

	if err := ctrl.Set("email", "ada@example.test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, err := ctrl.Dispatch(context.Background(), "send")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if out.Payload != "contact.send" {
		t.Fatalf("unexpected payload %v", out.Payload)
	}
	if diff := cmp.Diff(map[string]any{"email": "ada@example.test"}, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if ctrl.Status() != wizard.StatusClean {
		t.Fatalf("expected clean, got %s", ctrl.Status())
	}

	if _, err := NewFromDefinition(context.Background(), fsys, "missing", exec); err == nil {
		t.Fatalf("expected unknown wizard error")
	}
}
