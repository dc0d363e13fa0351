package inference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// Substitution maps variable names to constants
type Substitution map[string]string

func (s Substitution) clone() Substitution {
	out := make(Substitution, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String renders bindings sorted by variable, e.g. {?x=1, ?y=2}
func (s Substitution) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = VariablePrefix + k + "=" + s[k]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Unify matches pattern arguments against ground fact arguments, extending
// sub. The input substitution is never modified. ok is false when the
// arities differ, a constant mismatches or a bound variable disagrees.
func Unify(pattern []Term, fact []string, sub Substitution) (Substitution, bool) {
	if len(pattern) != len(fact) {
		return nil, false
	}

	out := sub
	copied := false
	for i, t := range pattern {
		val := fact[i]
		if !t.Variable {
			if t.Name != val {
				return nil, false
			}
			continue
		}
		if bound, ok := out[t.Name]; ok {
			if bound != val {
				return nil, false
			}
			continue
		}
		if !copied {
			out = sub.clone()
			copied = true
		}
		out[t.Name] = val
	}

	if out == nil {
		out = Substitution{}
	}
	return out, true
}

// Instantiate grounds a pattern with sub
func Instantiate(p Pattern, sub Substitution) (Fact, error) {
	args := make([]string, len(p.Args))
	for i, t := range p.Args {
		if !t.Variable {
			args[i] = t.Name
			continue
		}
		val, ok := sub[t.Name]
		if !ok {
			return Fact{}, fmt.Errorf("unbound variable %s in %s: %w", t, p, internalerr.ErrInvalidInput)
		}
		args[i] = val
	}
	return NewFact(p.Predicate, args...), nil
}
