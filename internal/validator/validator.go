package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// LargeIterations is the iteration count above which a warning is emitted.
// Expansion is never capped here; network surfaces use it as their default cap.
const LargeIterations = 12

// Report is the outcome of validating one grammar.
// Issues make the grammar unusable; Warnings flag legal but suspicious constructs.
type Report struct {
	Grammar  string
	Issues   []string
	Warnings []string
}

// Err returns a *domain.ValidationError when the report has issues, or nil.
func (r *Report) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	return &domain.ValidationError{Grammar: r.Grammar, Issues: r.Issues}
}

func (r *Report) issue(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateGrammar checks a grammar definition.
func ValidateGrammar(g *domain.Grammar) *Report {
	r := &Report{Grammar: g.Name}

	// 1. Iterations
	if g.Iterations < 0 {
		r.issue("iterations must not be negative, got %d", g.Iterations)
	} else if g.Iterations > LargeIterations {
		r.warn("iterations = %d may produce a very long sequence", g.Iterations)
	}

	// 2. Rules
	seen := make(map[domain.Symbol]int)
	for i, rule := range g.Rules {
		if first, ok := seen[rule.Predecessor]; ok {
			r.warn("rule %d (%s) is unreachable: rule %d already rewrites %q", i, rule, first, rule.Predecessor)
			continue
		}
		seen[rule.Predecessor] = i

		if rule.Predecessor == domain.SymPush || rule.Predecessor == domain.SymPop {
			r.warn("rule %d rewrites a bracket symbol", i)
		}
		if depth, offset := CheckBrackets(rule.Successor); offset >= 0 {
			r.warn("rule %d successor closes a bracket it did not open at offset %d", i, offset)
		} else if depth != 0 {
			r.warn("rule %d successor leaves %d brackets open", i, depth)
		}
	}

	// 3. Axiom
	if _, offset := CheckBrackets(g.Axiom); offset >= 0 {
		r.warn("axiom closes a bracket it did not open at offset %d", offset)
	}

	// 4. Turtle
	validateTurtle(r, g.Turtle.WithDefaults())

	return r
}

func validateTurtle(r *Report, cfg domain.TurtleConfig) {
	switch cfg.Mode {
	case domain.TurnFixed:
		if cfg.Angle == 0 {
			r.warn("fixed angle is 0: turns have no effect")
		}
		if cfg.MinAngle != 0 || cfg.MaxAngle != 0 {
			r.warn("min_angle/max_angle are ignored in fixed mode")
		}
	case domain.TurnRanged:
		if cfg.MinAngle > cfg.MaxAngle {
			r.issue("min_angle (%g) is greater than max_angle (%g)", cfg.MinAngle, cfg.MaxAngle)
		}
		if cfg.Angle != 0 {
			r.warn("angle is ignored in ranged mode")
		}
	default:
		r.issue("unknown turn mode %q (expected %q or %q)", cfg.Mode, domain.TurnFixed, domain.TurnRanged)
	}

	if cfg.Step < 0 {
		r.issue("step must be positive, got %g", cfg.Step)
	}
	if cfg.MaxLength < 0 {
		r.issue("max_length must be positive, got %g", cfg.MaxLength)
	}
	if cfg.YawMultiplier < 0 {
		r.issue("yaw_multiplier must be positive, got %g", cfg.YawMultiplier)
	}
}

// CheckBrackets scans seq for bracket balance.
// It returns the number of brackets left open and the offset of the first ']'
// that has no matching '[' (-1 when there is none).
func CheckBrackets(seq domain.Sequence) (depth int, offset int) {
	for i, sym := range seq {
		switch sym {
		case domain.SymPush:
			depth++
		case domain.SymPop:
			if depth == 0 {
				return depth, i
			}
			depth--
		}
	}
	return depth, -1
}

// ValidateLibrary parses and validates every grammar exposed by loader.
// It keeps going after a failure and reports every broken grammar at once.
func ValidateLibrary(loader ports.GrammarLoader, parser *compiler.Parser) ([]*Report, error) {
	names, err := loader.ListGrammars()
	if err != nil {
		return nil, fmt.Errorf("failed to list grammars: %w", err)
	}

	var (
		reports []*Report
		errors  []string
	)

	for _, name := range names {
		raw, err := loader.GetGrammar(name)
		if err != nil {
			errors = append(errors, fmt.Sprintf("'%s': load error: %v", name, err))
			continue
		}

		g, err := parser.Parse(raw)
		if err != nil {
			errors = append(errors, fmt.Sprintf("'%s': %v", name, err))
			continue
		}
		if g.Name == "" {
			g.Name = name
		}

		report := ValidateGrammar(g)
		reports = append(reports, report)
		for _, issue := range report.Issues {
			errors = append(errors, fmt.Sprintf("'%s': %s", name, issue))
		}
	}

	if len(errors) > 0 {
		return reports, fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return reports, nil
}
