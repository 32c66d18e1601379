package validator

import (
	"errors"
	"testing"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGrammar_Valid(t *testing.T) {
	g := &domain.Grammar{
		Name:       "plant",
		Axiom:      domain.ParseSequence("F"),
		Rules:      domain.RuleSet{domain.NewRule('F', "F[+F]F[-F]F")},
		Iterations: 4,
	}

	report := ValidateGrammar(g)
	assert.Empty(t, report.Issues)
	assert.Empty(t, report.Warnings)
	assert.NoError(t, report.Err())
}

func TestValidateGrammar_Issues(t *testing.T) {
	g := &domain.Grammar{
		Name:       "broken",
		Axiom:      domain.ParseSequence("F"),
		Iterations: -1,
		Turtle: domain.TurtleConfig{
			Mode:     domain.TurnRanged,
			MinAngle: 60,
			MaxAngle: 25,
			Step:     -1,
		},
	}

	report := ValidateGrammar(g)
	assert.Len(t, report.Issues, 3)

	err := report.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGrammar)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "broken", vErr.Grammar)
}

func TestValidateGrammar_UnknownMode(t *testing.T) {
	g := &domain.Grammar{Turtle: domain.TurtleConfig{Mode: "spiral"}}
	report := ValidateGrammar(g)
	require.Len(t, report.Issues, 1)
	assert.Contains(t, report.Issues[0], "unknown turn mode")
}

func TestValidateGrammar_Warnings(t *testing.T) {
	g := &domain.Grammar{
		Axiom: domain.ParseSequence("F]"),
		Rules: domain.RuleSet{
			domain.NewRule('A', "B"),
			domain.NewRule('A', "C"),
			domain.NewRule('F', "F[+F"),
		},
		Iterations: LargeIterations + 1,
		Turtle:     domain.TurtleConfig{Mode: domain.TurnFixed, Angle: 20},
	}

	report := ValidateGrammar(g)
	assert.Empty(t, report.Issues, "suspicious constructs are not fatal")
	assert.Len(t, report.Warnings, 4)
}

func TestCheckBrackets(t *testing.T) {
	tests := []struct {
		in     string
		depth  int
		offset int
	}{
		{"", 0, -1},
		{"F[+F]F[-F]F", 0, -1},
		{"[[F]", 1, -1},
		{"F]", 0, 1},
		{"[F]]", 0, 3},
	}
	for _, tt := range tests {
		depth, offset := CheckBrackets(domain.ParseSequence(tt.in))
		assert.Equal(t, tt.depth, depth, tt.in)
		assert.Equal(t, tt.offset, offset, tt.in)
	}
}

func TestValidateLibrary(t *testing.T) {
	loader := memory.NewLoader(map[string]string{
		"ok":     `{"axiom": "F", "rules": ["F -> FF"], "iterations": 2}`,
		"broken": `{"axiom": "F", "iterations": -3}`,
		"bad":    `{"axiom": "F", "rules": ["nope"]}`,
	})

	reports, err := ValidateLibrary(loader, compiler.NewParser())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
	assert.Contains(t, err.Error(), "'broken'")
	assert.Contains(t, err.Error(), "'bad'")
	assert.Len(t, reports, 2, "unparsable grammars produce no report")
}

func TestValidateLibrary_Presets(t *testing.T) {
	_, err := ValidateLibrary(memory.NewPresetLoader(), compiler.NewParser())
	assert.NoError(t, err)
}
