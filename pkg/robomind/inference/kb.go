package inference

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMaxPremises bounds rule size. A pass costs roughly
// facts^premises per rule, so wide rules get expensive fast.
const DefaultMaxPremises = 8

// Derivation records how a fact was produced by a rule
type Derivation struct {
	Fact     Fact
	Rule     Rule
	RuleIdx  int
	Bindings Substitution
	Premises []Fact
}

// KnowledgeBase holds ground facts and rules and keeps the fact set closed
// under the rules. Every mutating call except AddRule returns only after
// forward chaining has reached a fixpoint.
type KnowledgeBase struct {
	facts       map[string]Fact
	index       map[string][]Fact // predicate/arity -> facts in insertion order
	rules       []Rule
	derivations map[string]Derivation
	settled     bool
	maxPremises int
	trace       func(Derivation)
}

// Option configures a KnowledgeBase
type Option func(*KnowledgeBase)

// WithMaxPremises overrides DefaultMaxPremises. Zero or less disables the cap.
func WithMaxPremises(n int) Option {
	return func(kb *KnowledgeBase) { kb.maxPremises = n }
}

// WithTrace installs a hook called for every derived fact, in derivation order
func WithTrace(fn func(Derivation)) Option {
	return func(kb *KnowledgeBase) { kb.trace = fn }
}

// New creates an empty knowledge base
func New(opts ...Option) *KnowledgeBase {
	kb := &KnowledgeBase{
		facts:       make(map[string]Fact),
		index:       make(map[string][]Fact),
		derivations: make(map[string]Derivation),
		settled:     true,
		maxPremises: DefaultMaxPremises,
	}
	for _, opt := range opts {
		opt(kb)
	}
	return kb
}

// Tell adds a fact and chains to a fixpoint. Telling a known fact is a
// no-op unless rules were added since the last pass.
func (kb *KnowledgeBase) Tell(f Fact) {
	if !kb.add(f) {
		// told facts carry no derivation, even if a rule produced them first
		delete(kb.derivations, f.identity())
	}
	if !kb.settled {
		kb.Infer()
	}
}

// TellString parses and tells a ground fact such as Free(1,2)
func (kb *KnowledgeBase) TellString(s string) error {
	f, err := ParseFact(s)
	if err != nil {
		return err
	}
	kb.Tell(f)
	return nil
}

// Ask reports whether f is in the fact set
func (kb *KnowledgeBase) Ask(f Fact) bool {
	_, ok := kb.facts[f.identity()]
	return ok
}

// AskString parses a ground fact and asks for it
func (kb *KnowledgeBase) AskString(s string) (bool, error) {
	f, err := ParseFact(s)
	if err != nil {
		return false, err
	}
	return kb.Ask(f), nil
}

// AddRule registers a rule. It takes effect on the next Tell or Infer.
func (kb *KnowledgeBase) AddRule(r Rule) error {
	if err := r.validate(kb.maxPremises); err != nil {
		return err
	}
	kb.rules = append(kb.rules, r.clone())
	kb.settled = false
	return nil
}

// AddRuleString parses premises and conclusion and registers the rule
func (kb *KnowledgeBase) AddRuleString(premises []string, conclusion string) error {
	c, err := ParsePattern(conclusion)
	if err != nil {
		return fmt.Errorf("conclusion: %w", err)
	}
	r := Rule{Conclusion: c}
	for _, s := range premises {
		p, err := ParsePattern(s)
		if err != nil {
			return fmt.Errorf("premise: %w", err)
		}
		r.Premises = append(r.Premises, p)
	}
	return kb.AddRule(r)
}

// ClearFacts drops every fact, told or derived. Rules are kept.
func (kb *KnowledgeBase) ClearFacts() {
	kb.facts = make(map[string]Fact)
	kb.index = make(map[string][]Fact)
	kb.derivations = make(map[string]Derivation)
	// every rule has a premise, so nothing follows from no facts
	kb.settled = true
}

// ClearRules drops every rule. Facts already derived stay.
func (kb *KnowledgeBase) ClearRules() {
	kb.rules = nil
}

// Infer runs forward chaining until a pass adds nothing and returns the
// number of facts derived.
func (kb *KnowledgeBase) Infer() int {
	derived := 0
	for changed := true; changed; {
		changed = false
		for i, r := range kb.rules {
			for _, sub := range kb.match(r.Premises) {
				f, err := Instantiate(r.Conclusion, sub)
				if err != nil {
					// unreachable: rules are range restricted
					continue
				}
				if !kb.add(f) {
					continue
				}
				derived++
				changed = true
				kb.record(f, i, r, sub)
			}
		}
	}
	kb.settled = true
	return derived
}

// match joins the premises against the fact set, premise by premise, and
// returns every substitution satisfying all of them
func (kb *KnowledgeBase) match(premises []Pattern) []Substitution {
	subs := []Substitution{{}}
	for _, p := range premises {
		candidates := kb.index[p.signature()]
		if len(candidates) == 0 {
			return nil
		}
		var next []Substitution
		for _, sub := range subs {
			for _, f := range candidates {
				if s, ok := Unify(p.Args, f.Args, sub); ok {
					next = append(next, s)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		subs = next
	}
	return subs
}

func (kb *KnowledgeBase) add(f Fact) bool {
	key := f.identity()
	if _, ok := kb.facts[key]; ok {
		return false
	}
	if f.key == "" || f.id == "" {
		f = NewFact(f.Predicate, f.Args...)
	}
	kb.facts[key] = f
	sig := f.signature()
	kb.index[sig] = append(kb.index[sig], f)
	kb.settled = false
	return true
}

func (kb *KnowledgeBase) record(f Fact, idx int, r Rule, sub Substitution) {
	d := Derivation{Fact: f, Rule: r, RuleIdx: idx, Bindings: sub}
	for _, p := range r.Premises {
		pf, _ := Instantiate(p, sub)
		d.Premises = append(d.Premises, pf)
	}
	kb.derivations[f.identity()] = d
	if kb.trace != nil {
		kb.trace(d)
	}
}

// Settled reports whether no rule can add a fact to the current set
func (kb *KnowledgeBase) Settled() bool { return kb.settled }

// Len returns the number of facts
func (kb *KnowledgeBase) Len() int { return len(kb.facts) }

// Facts returns a copy of the fact set sorted by key
func (kb *KnowledgeBase) Facts() []Fact {
	out := make([]Fact, 0, len(kb.facts))
	for _, f := range kb.facts {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key() != out[j].Key() {
			return out[i].Key() < out[j].Key()
		}
		return out[i].identity() < out[j].identity()
	})
	return out
}

// Query returns facts with the given predicate and arity, in insertion order
func (kb *KnowledgeBase) Query(predicate string, arity int) []Fact {
	return append([]Fact(nil), kb.index[signature(predicate, arity)]...)
}

// Rules returns a copy of the rule list
func (kb *KnowledgeBase) Rules() []Rule {
	out := make([]Rule, len(kb.rules))
	for i, r := range kb.rules {
		out[i] = r.clone()
	}
	return out
}

func (kb *KnowledgeBase) String() string {
	var b strings.Builder
	facts := kb.Facts()
	fmt.Fprintf(&b, "Knowledge Base:\nFacts (%d):\n", len(facts))
	for _, f := range facts {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	fmt.Fprintf(&b, "Rules (%d):\n", len(kb.rules))
	for _, r := range kb.rules {
		fmt.Fprintf(&b, "  %s\n", r)
	}
	return b.String()
}
