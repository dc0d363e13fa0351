package inference

import (
	"bufio"
	"fmt"
	"strings"
)

// LoadRules loads rules and facts from rule-file text.
// Format:
//
//	# comments
//	Safe(?x,?y) :- Free(?x,?y).
//	CanMoveTo(?nx,?ny) :- At(?cx,?cy), Safe(?nx,?ny), Adjacent(?cx,?cy,?nx,?ny).
//	Free(1,1).
//
// All rules are registered before any fact is told, so statement order in
// the file does not matter.
func (kb *KnowledgeBase) LoadRules(text string) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNum := 0
	var (
		rules []Rule
		facts []Fact
	)

	// Parse everything first so a bad line leaves the knowledge base untouched
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimSuffix(line, "."))

		if strings.Contains(line, ":-") {
			r, err := ParseRule(line)
			if err == nil {
				err = r.validate(kb.maxPremises)
			}
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNum, err)
			}
			rules = append(rules, r)
			continue
		}

		f, err := ParseFact(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		facts = append(facts, f)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	for _, r := range rules {
		if err := kb.AddRule(r); err != nil {
			return err
		}
	}
	for _, f := range facts {
		kb.Tell(f)
	}
	return nil
}

// ParseRules parses rule-file text into rules only; facts are rejected
func ParseRules(text string) ([]Rule, error) {
	var out []Rule
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r, err := ParseRule(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}
