package inference

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

func TestWriteRulesRoundTrip(t *testing.T) {
	src := New()
	if err := src.LoadRules(`
Reach(?x,?y) :- Edge(?x,?y).
Reach(?x,?z) :- Reach(?x,?y), Edge(?y,?z).
Done :- Reach(a,c).
Edge(a,b).
Edge(b,c).
`); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	if err := src.WriteRules(&b); err != nil {
		t.Fatalf("WriteRules: %v", err)
	}
	out := b.String()

	if strings.Contains(out, "Reach(a,b).") {
		t.Errorf("derived fact exported:\n%s", out)
	}
	if !strings.Contains(out, "Edge(a,b).") || !strings.Contains(out, "Done :- Reach(a,c).") {
		t.Errorf("missing statements:\n%s", out)
	}

	dst := New()
	if err := dst.LoadRules(out); err != nil {
		t.Fatalf("reload: %v\n%s", err, out)
	}
	if diff := cmp.Diff(keys(src.Facts()), keys(dst.Facts())); diff != "" {
		t.Errorf("facts differ after reload (-want +got):\n%s", diff)
	}
	if len(dst.Rules()) != 3 {
		t.Errorf("rules = %d, want 3", len(dst.Rules()))
	}
}

func TestWriteRulesEmpty(t *testing.T) {
	var b strings.Builder
	if err := New().WriteRules(&b); err != nil {
		t.Fatal(err)
	}
	if b.String() != "" {
		t.Errorf("empty kb wrote %q", b.String())
	}
}

func TestWriteRulesKeepsToldFactsAfterClearRules(t *testing.T) {
	src := New()
	if err := src.LoadRules("Safe(?x) :- Free(?x).\nFree(1).\n"); err != nil {
		t.Fatal(err)
	}
	src.Tell(NewFact("Safe", "1"))
	src.ClearRules()

	var b strings.Builder
	if err := src.WriteRules(&b); err != nil {
		t.Fatal(err)
	}
	dst := New()
	if err := dst.LoadRules(b.String()); err != nil {
		t.Fatalf("reload: %v\n%s", err, b.String())
	}
	if diff := cmp.Diff(keys(src.Facts()), keys(dst.Facts())); diff != "" {
		t.Errorf("facts differ after reload (-want +got):\n%s", diff)
	}
}

func TestWriteRulesRejectsUnwritableConstants(t *testing.T) {
	for _, arg := range []string{"a b", "a,b", "f(x)", "?x", ""} {
		kb := New()
		kb.Tell(NewFact("Free", "1"))
		kb.Tell(NewFact("Name", arg))

		var b strings.Builder
		err := kb.WriteRules(&b)
		if !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("constant %q: expected ErrInvalidInput, got %v", arg, err)
		}
		if b.Len() != 0 {
			t.Errorf("constant %q: partial output %q", arg, b.String())
		}
	}
}
