package compiler

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	tests := []struct {
		in      string
		pred    domain.Symbol
		succ    string
		wantErr bool
	}{
		{in: "F -> F[+F]F[-F]F", pred: 'F', succ: "F[+F]F[-F]F"},
		{in: "X=F[+X][-X]", pred: 'X', succ: "F[+X][-X]"},
		{in: "A: B", pred: 'A', succ: "B"},
		{in: "A → B C", pred: 'A', succ: "BC"},
		{in: "- -> +", pred: '-', succ: "+"},
		{in: "F ->", pred: 'F', succ: ""},
		{in: "FF -> F", wantErr: true},
		{in: "no separator", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRule(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidRule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pred, r.Predecessor)
			assert.Equal(t, tt.succ, r.Successor.String())
		})
	}
}

func TestParser_YAML(t *testing.T) {
	doc := `
name: plant
description: Reference plant
axiom: F
iterations: 4
rules:
  - "F -> F[+F]F[-F]F"
  - "F -> FF"
turtle:
  mode: Fixed
  angle: 25.7
  step: "2"
`
	g, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "plant", g.Name)
	assert.Equal(t, "Reference plant", g.Description)
	assert.Equal(t, "F", g.Axiom.String())
	assert.Equal(t, 4, g.Iterations)
	require.Len(t, g.Rules, 2, "duplicate predecessors are kept in order")
	assert.Equal(t, "F[+F]F[-F]F", g.Rules[0].Successor.String())
	assert.Equal(t, domain.TurnFixed, g.Turtle.Mode)
	assert.InDelta(t, 25.7, g.Turtle.Angle, 1e-5)
	assert.Equal(t, float32(2), g.Turtle.Step, "weakly typed input accepts numeric strings")
}

func TestParser_JSONDomainShape(t *testing.T) {
	doc := `{
  "name": "bush",
  "axiom": "X",
  "rules": [{"predecessor": "X", "successor": "F[+X]F[-X]+X"}, {"predecessor": "F", "successor": "FF"}],
  "iterations": 2,
  "turtle": {"mode": "ranged", "min_angle": 20, "max_angle": 30}
}`
	g, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)

	require.Len(t, g.Rules, 2)
	assert.Equal(t, domain.Symbol('X'), g.Rules[0].Predecessor)
	assert.Equal(t, domain.TurnRanged, g.Turtle.Mode)
	assert.Equal(t, float32(20), g.Turtle.MinAngle)
	assert.Equal(t, float32(30), g.Turtle.MaxAngle)
}

func TestParser_RuleMap(t *testing.T) {
	doc := `
axiom: AB
rules:
  B: A
  A: AB
`
	g, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, g.Rules, 2)
	assert.Equal(t, domain.Symbol('A'), g.Rules[0].Predecessor, "map rules are sorted by predecessor")
	assert.Equal(t, domain.Symbol('B'), g.Rules[1].Predecessor)
}

func TestParser_Errors(t *testing.T) {
	_, err := NewParser().Parse([]byte("rules: 42\naxiom: F"))
	assert.ErrorIs(t, err, domain.ErrInvalidRule)

	_, err = NewParser().Parse([]byte(""))
	assert.ErrorIs(t, err, domain.ErrInvalidGrammar)

	_, err = NewParser().Parse([]byte("rules: [\"F F\"]"))
	assert.ErrorIs(t, err, domain.ErrInvalidRule)
}

func TestToMetadata_RoundTrip(t *testing.T) {
	g := &domain.Grammar{
		Name:       "plant",
		Axiom:      domain.ParseSequence("F"),
		Rules:      domain.RuleSet{domain.NewRule('F', "F[+F]F[-F]F")},
		Iterations: 1,
		Turtle:     domain.TurtleConfig{Mode: domain.TurnFixed, Angle: 30},
	}

	back, err := NewParser().FromMetadata(ToMetadata(g))
	require.NoError(t, err)
	assert.Equal(t, g, back)
}
