package inference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// VariablePrefix marks a variable token in rule text: ?x, ?cell.
// Letter case carries no meaning.
const VariablePrefix = "?"

// Term is one argument of a pattern, either a variable or a constant
type Term struct {
	Name     string
	Variable bool
}

// Var returns a variable term
func Var(name string) Term { return Term{Name: name, Variable: true} }

// Const returns a constant term
func Const(value string) Term { return Term{Name: value} }

func (t Term) String() string {
	if t.Variable {
		return VariablePrefix + t.Name
	}
	return t.Name
}

// Fact is a ground atom: predicate name plus constant arguments.
// Equality is structural: predicate, arity and each argument.
type Fact struct {
	Predicate string
	Args      []string
	key       string
	id        string
}

// NewFact builds a fact and computes its keys once
func NewFact(predicate string, args ...string) Fact {
	f := Fact{Predicate: predicate, Args: append([]string(nil), args...)}
	f.key = render(predicate, args)
	f.id = identity(predicate, args)
	return f
}

// Key is the canonical text form, e.g. Safe(1,2). Constants holding rule
// syntax can make two facts render alike; use Equal to compare.
func (f Fact) Key() string {
	if f.key == "" {
		return render(f.Predicate, f.Args)
	}
	return f.key
}

func (f Fact) String() string { return f.Key() }

// Equal reports structural equality
func (f Fact) Equal(o Fact) bool { return f.identity() == o.identity() }

// identity is the set key: predicate and arguments length-prefixed, so no
// argument text can stand in for a separator
func (f Fact) identity() string {
	if f.id == "" {
		return identity(f.Predicate, f.Args)
	}
	return f.id
}

func identity(predicate string, args []string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(predicate)))
	b.WriteByte(':')
	b.WriteString(predicate)
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(len(args)))
	for _, a := range args {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(len(a)))
		b.WriteByte(':')
		b.WriteString(a)
	}
	return b.String()
}

func (f Fact) signature() string { return signature(f.Predicate, len(f.Args)) }

// Pattern is an atom whose arguments may be variables
type Pattern struct {
	Predicate string
	Args      []Term
}

// NewPattern builds a pattern
func NewPattern(predicate string, args ...Term) Pattern {
	return Pattern{Predicate: predicate, Args: append([]Term(nil), args...)}
}

func (p Pattern) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return render(p.Predicate, args)
}

// Variables returns the distinct variable names in order of appearance
func (p Pattern) Variables() []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range p.Args {
		if a.Variable && !seen[a.Name] {
			seen[a.Name] = true
			out = append(out, a.Name)
		}
	}
	return out
}

// Ground reports whether the pattern has no variables
func (p Pattern) Ground() bool {
	for _, a := range p.Args {
		if a.Variable {
			return false
		}
	}
	return true
}

func (p Pattern) signature() string { return signature(p.Predicate, len(p.Args)) }

func (p Pattern) clone() Pattern {
	return Pattern{Predicate: p.Predicate, Args: append([]Term(nil), p.Args...)}
}

func signature(predicate string, arity int) string {
	return fmt.Sprintf("%s/%d", predicate, arity)
}

func render(predicate string, args []string) string {
	if len(args) == 0 {
		return predicate
	}
	return predicate + "(" + strings.Join(args, ",") + ")"
}

// ParsePattern parses "Name(arg, ...)" or a bare "Name".
// Arguments starting with ? are variables.
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "(")
	if open == -1 {
		if err := checkName(s); err != nil {
			return Pattern{}, err
		}
		return Pattern{Predicate: s}, nil
	}

	if !strings.HasSuffix(s, ")") {
		return Pattern{}, fmt.Errorf("missing ')': %q: %w", s, internalerr.ErrInvalidInput)
	}
	name := strings.TrimSpace(s[:open])
	if err := checkName(name); err != nil {
		return Pattern{}, err
	}

	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return Pattern{Predicate: name}, nil
	}

	parts := strings.Split(inner, ",")
	args := make([]Term, len(parts))
	for i, part := range parts {
		tok := strings.TrimSpace(part)
		if tok == "" || strings.ContainsAny(tok, "() \t") {
			return Pattern{}, fmt.Errorf("bad argument %d in %q: %w", i+1, s, internalerr.ErrInvalidInput)
		}
		if strings.HasPrefix(tok, VariablePrefix) {
			v := strings.TrimPrefix(tok, VariablePrefix)
			if v == "" {
				return Pattern{}, fmt.Errorf("unnamed variable in %q: %w", s, internalerr.ErrInvalidInput)
			}
			args[i] = Var(v)
			continue
		}
		args[i] = Const(tok)
	}
	return Pattern{Predicate: name, Args: args}, nil
}

// ParseFact parses a ground atom such as Free(1,2) or AtGoal
func ParseFact(s string) (Fact, error) {
	p, err := ParsePattern(s)
	if err != nil {
		return Fact{}, err
	}
	if !p.Ground() {
		return Fact{}, fmt.Errorf("fact %q contains variables: %w", s, internalerr.ErrInvalidInput)
	}
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.Name
	}
	return NewFact(p.Predicate, args...), nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("empty predicate name: %w", internalerr.ErrInvalidInput)
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("bad predicate name %q: %w", name, internalerr.ErrInvalidInput)
		}
	}
	return nil
}

// checkConstant rejects constants that rule text could not read back
func checkConstant(c string) error {
	if c == "" || strings.ContainsAny(c, ",() \t\r\n") || strings.Contains(c, ":-") || strings.HasPrefix(c, VariablePrefix) {
		return fmt.Errorf("constant %q cannot be written as rule text: %w", c, internalerr.ErrInvalidInput)
	}
	return nil
}
