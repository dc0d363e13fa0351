package inference

import (
	"fmt"
	"strings"
)

// Derivation returns the record of how f was derived. ok is false for
// told facts and unknown facts.
func (kb *KnowledgeBase) Derivation(f Fact) (Derivation, bool) {
	d, ok := kb.derivations[f.identity()]
	return d, ok
}

// Explain generates a human-readable proof tree for f
func (kb *KnowledgeBase) Explain(f Fact) string {
	if !kb.Ask(f) {
		return fmt.Sprintf("Cannot prove %s", f)
	}
	if _, ok := kb.derivations[f.identity()]; !ok {
		return fmt.Sprintf("%s is directly known", f)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Inference chain for %s:\n", f)
	kb.explain(&b, f, 1, make(map[string]bool))
	return b.String()
}

func (kb *KnowledgeBase) explain(b *strings.Builder, f Fact, depth int, seen map[string]bool) {
	indent := strings.Repeat("  ", depth)
	d, ok := kb.derivations[f.identity()]
	if !ok {
		fmt.Fprintf(b, "%s%s (told)\n", indent, f)
		return
	}
	if seen[f.identity()] {
		fmt.Fprintf(b, "%s%s (see above)\n", indent, f)
		return
	}
	seen[f.identity()] = true

	fmt.Fprintf(b, "%s%s by rule %d: %s %s\n", indent, f, d.RuleIdx+1, d.Rule, d.Bindings)
	for _, p := range d.Premises {
		kb.explain(b, p, depth+1, seen)
	}
}
