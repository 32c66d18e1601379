package dsl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
)

// Builder manages the construction of a grammar library.
type Builder struct {
	grammars map[string]*GrammarBuilder
}

// New creates a new library builder.
func New() *Builder {
	return &Builder{
		grammars: make(map[string]*GrammarBuilder),
	}
}

// Add creates a new grammar in the library.
// If the grammar already exists, it returns the existing builder.
func (b *Builder) Add(name string) *GrammarBuilder {
	if gb, ok := b.grammars[name]; ok {
		return gb
	}
	gb := &GrammarBuilder{
		grammar: domain.Grammar{
			Name: name,
		},
	}
	b.grammars[name] = gb
	return gb
}

// Build compiles the library into a memory Loader.
// Every malformed rule of every grammar is reported at once.
func (b *Builder) Build() (*memory.Loader, error) {
	names := make([]string, 0, len(b.grammars))
	for name := range b.grammars {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	grammars := make([]domain.Grammar, 0, len(b.grammars))
	for _, name := range names {
		gb := b.grammars[name]
		if len(gb.errs) > 0 {
			errs = append(errs, fmt.Errorf("grammar %q: %w", name, errors.Join(gb.errs...)))
			continue
		}
		grammars = append(grammars, gb.grammar)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	loader, err := memory.NewFromGrammars(grammars...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// GrammarBuilder provides a fluent API for configuring a grammar.
type GrammarBuilder struct {
	grammar domain.Grammar
	errs    []error
}

// Describe sets the human readable description.
func (g *GrammarBuilder) Describe(text string) *GrammarBuilder {
	g.grammar.Description = text
	return g
}

// Axiom sets the starting sequence.
func (g *GrammarBuilder) Axiom(axiom string) *GrammarBuilder {
	g.grammar.Axiom = domain.ParseSequence(axiom)
	return g
}

// Rule appends a production written as "F -> F[+F]F".
// Rules keep their order, so an earlier rule shadows a later one for the same symbol.
func (g *GrammarBuilder) Rule(text string) *GrammarBuilder {
	r, err := compiler.ParseRule(text)
	if err != nil {
		g.errs = append(g.errs, err)
		return g
	}
	g.grammar.Rules = append(g.grammar.Rules, r)
	return g
}

// Produce appends a production from its parts.
func (g *GrammarBuilder) Produce(predecessor rune, successor string) *GrammarBuilder {
	g.grammar.Rules = append(g.grammar.Rules, domain.NewRule(predecessor, successor))
	return g
}

// Iterations sets the number of rewriting passes.
func (g *GrammarBuilder) Iterations(n int) *GrammarBuilder {
	g.grammar.Iterations = n
	return g
}

// Fixed makes every turn exactly angle degrees.
func (g *GrammarBuilder) Fixed(angle float32) *GrammarBuilder {
	g.grammar.Turtle.Mode = domain.TurnFixed
	g.grammar.Turtle.Angle = angle
	return g
}

// Ranged samples every turn uniformly in [minAngle, maxAngle) degrees.
func (g *GrammarBuilder) Ranged(minAngle, maxAngle float32) *GrammarBuilder {
	g.grammar.Turtle.Mode = domain.TurnRanged
	g.grammar.Turtle.MinAngle = minAngle
	g.grammar.Turtle.MaxAngle = maxAngle
	return g
}

// Yaw sets the multiplier applied to '<' and '>' turns.
func (g *GrammarBuilder) Yaw(multiplier float32) *GrammarBuilder {
	g.grammar.Turtle.YawMultiplier = multiplier
	return g
}

// Step sets the distance the turtle advances per branch.
func (g *GrammarBuilder) Step(step float32) *GrammarBuilder {
	g.grammar.Turtle.Step = step
	return g
}

// MaxLength sets the length every branch grows to.
func (g *GrammarBuilder) MaxLength(length float32) *GrammarBuilder {
	g.grammar.Turtle.MaxLength = length
	return g
}

// Grammar returns a copy of the grammar built so far.
func (g *GrammarBuilder) Grammar() domain.Grammar {
	out := g.grammar
	out.Rules = append(domain.RuleSet(nil), g.grammar.Rules...)
	return out
}
