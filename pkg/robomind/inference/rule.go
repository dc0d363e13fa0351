package inference

import (
	"fmt"
	"strings"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// Rule derives Conclusion whenever all Premises hold under one substitution
type Rule struct {
	Premises   []Pattern
	Conclusion Pattern
}

// NewRule builds a rule. It is validated when registered.
func NewRule(conclusion Pattern, premises ...Pattern) Rule {
	return Rule{Premises: premises, Conclusion: conclusion}
}

// String renders the rule in rule-file syntax
func (r Rule) String() string {
	prems := make([]string, len(r.Premises))
	for i, p := range r.Premises {
		prems[i] = p.String()
	}
	return r.Conclusion.String() + " :- " + strings.Join(prems, ", ")
}

func (r Rule) clone() Rule {
	out := Rule{Conclusion: r.Conclusion.clone(), Premises: make([]Pattern, len(r.Premises))}
	for i, p := range r.Premises {
		out.Premises[i] = p.clone()
	}
	return out
}

// validate checks premise count and that every conclusion variable is
// bound by some premise
func (r Rule) validate(maxPremises int) error {
	if len(r.Premises) == 0 {
		return fmt.Errorf("rule %s: no premises: %w", r, internalerr.ErrInvalidInput)
	}
	if maxPremises > 0 && len(r.Premises) > maxPremises {
		return fmt.Errorf("rule %s: %d premises exceeds limit %d: %w",
			r, len(r.Premises), maxPremises, internalerr.ErrInvalidInput)
	}
	for _, p := range append([]Pattern{r.Conclusion}, r.Premises...) {
		if err := checkName(p.Predicate); err != nil {
			return fmt.Errorf("rule %s: %w", r, err)
		}
	}

	bound := make(map[string]bool)
	for _, p := range r.Premises {
		for _, v := range p.Variables() {
			bound[v] = true
		}
	}
	for _, v := range r.Conclusion.Variables() {
		if !bound[v] {
			return fmt.Errorf("rule %s: conclusion variable %s%s not bound by any premise: %w",
				r, VariablePrefix, v, internalerr.ErrInvalidInput)
		}
	}
	return nil
}

// ParseRule parses "Conclusion :- Premise1, Premise2". Premises may also
// be separated by &. A trailing period is ignored.
func ParseRule(s string) (Rule, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	head, body, ok := strings.Cut(s, ":-")
	if !ok {
		return Rule{}, fmt.Errorf("missing ':-' in %q: %w", s, internalerr.ErrInvalidInput)
	}

	conclusion, err := ParsePattern(head)
	if err != nil {
		return Rule{}, fmt.Errorf("conclusion: %w", err)
	}

	var premises []Pattern
	for _, part := range splitPremises(body) {
		p, err := ParsePattern(part)
		if err != nil {
			return Rule{}, fmt.Errorf("premise: %w", err)
		}
		premises = append(premises, p)
	}
	return Rule{Premises: premises, Conclusion: conclusion}, nil
}

// splitPremises splits on commas and & outside parentheses
func splitPremises(body string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range body {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',', '&':
			if depth == 0 {
				out = append(out, body[start:i])
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(body[start:]); rest != "" || len(out) > 0 {
		out = append(out, body[start:])
	}
	return out
}
