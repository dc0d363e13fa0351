package inference

import (
	"fmt"
	"io"
	"strings"
)

// WriteRules renders the rules and told facts in the format LoadRules
// reads. Derived facts are left out; loading the output derives them again.
// Nothing is written when a name or constant has no rule-text form.
func (kb *KnowledgeBase) WriteRules(w io.Writer) error {
	var b strings.Builder

	if len(kb.rules) > 0 {
		b.WriteString("# rules\n")
	}
	for _, r := range kb.rules {
		for _, p := range append([]Pattern{r.Conclusion}, r.Premises...) {
			if err := checkWritable(p.Predicate, p.Args); err != nil {
				return fmt.Errorf("rule %s: %w", r, err)
			}
		}
		fmt.Fprintf(&b, "%s.\n", r)
	}

	first := true
	for _, f := range kb.Facts() {
		if _, derived := kb.derivations[f.identity()]; derived {
			continue
		}
		terms := make([]Term, len(f.Args))
		for i, a := range f.Args {
			terms[i] = Const(a)
		}
		if err := checkWritable(f.Predicate, terms); err != nil {
			return fmt.Errorf("fact %s: %w", f, err)
		}
		if first {
			b.WriteString("# facts\n")
			first = false
		}
		fmt.Fprintf(&b, "%s.\n", f)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func checkWritable(predicate string, args []Term) error {
	if err := checkName(predicate); err != nil {
		return err
	}
	for _, a := range args {
		if a.Variable {
			continue
		}
		if err := checkConstant(a.Name); err != nil {
			return err
		}
	}
	return nil
}
