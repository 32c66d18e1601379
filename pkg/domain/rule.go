package domain

import "fmt"

// Rule is a production: every occurrence of Predecessor is replaced by Successor.
// An empty Successor deletes the symbol.
type Rule struct {
	Predecessor Symbol   `json:"predecessor"`
	Successor   Sequence `json:"successor"`
}

// NewRule builds a Rule from its textual parts.
func NewRule(predecessor rune, successor string) Rule {
	return Rule{
		Predecessor: Symbol(predecessor),
		Successor:   ParseSequence(successor),
	}
}

// String renders the rule as "A -> B".
func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s", r.Predecessor, r.Successor)
}

// RuleSet is an ordered list of rules.
// Only the first rule whose predecessor matches a symbol ever applies.
type RuleSet []Rule

// Match returns the successor of the first rule matching sym.
func (rs RuleSet) Match(sym Symbol) (Sequence, bool) {
	for _, r := range rs {
		if r.Predecessor == sym {
			return r.Successor, true
		}
	}
	return nil, false
}
