package runtime

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
)

// Rewrite applies a single context-free rewriting pass.
// Each symbol is replaced by the successor of the first matching rule, or
// copied unchanged when no rule matches. The input is never modified.
func Rewrite(seq domain.Sequence, rules domain.RuleSet) domain.Sequence {
	out := make(domain.Sequence, 0, len(seq))
	for _, sym := range seq {
		if succ, ok := rules.Match(sym); ok {
			out = append(out, succ...)
			continue
		}
		out = append(out, sym)
	}
	return out
}

// Expand folds Rewrite n times starting from axiom.
// Expand(axiom, rules, 0) returns a copy of the axiom.
func Expand(axiom domain.Sequence, rules domain.RuleSet, n int) domain.Sequence {
	seq, _ := ExpandContext(context.Background(), axiom, rules, n)
	return seq
}

// ExpandContext is Expand with cancellation checked between passes.
// Output length can grow geometrically with n, so large n is the only
// unbounded cost of generation.
func ExpandContext(ctx context.Context, axiom domain.Sequence, rules domain.RuleSet, n int) (domain.Sequence, error) {
	seq := make(domain.Sequence, len(axiom))
	copy(seq, axiom)

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seq = Rewrite(seq, rules)
	}
	return seq, nil
}
