package compiler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/arbor/internal/dto"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ruleSeparators split a textual rule; the leftmost one found wins.
var ruleSeparators = []string{"->", "→", "=", ":"}

// Parser is responsible for converting raw grammar documents into a Grammar.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse takes raw content (YAML or JSON) and decodes it into a Grammar.
func (p *Parser) Parse(data []byte) (*domain.Grammar, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse grammar: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidGrammar)
	}
	return p.Decode(raw)
}

// Decode maps generic metadata (e.g. Frontmatter) into a Grammar.
func (p *Parser) Decode(raw map[string]any) (*domain.Grammar, error) {
	var meta dto.GrammarMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidGrammar, err)
	}
	return p.FromMetadata(meta)
}

// FromMetadata converts a decoded document into a Grammar.
func (p *Parser) FromMetadata(meta dto.GrammarMetadata) (*domain.Grammar, error) {
	rules, err := parseRules(meta.Rules)
	if err != nil {
		return nil, err
	}

	return &domain.Grammar{
		Name:        meta.Name,
		Description: strings.TrimSpace(meta.Description),
		Axiom:       domain.ParseSequence(strings.TrimSpace(meta.Axiom)),
		Rules:       rules,
		Iterations:  meta.Iterations,
		Turtle: domain.TurtleConfig{
			Mode:          domain.TurnMode(strings.ToLower(strings.TrimSpace(meta.Turtle.Mode))),
			Angle:         meta.Turtle.Angle,
			MinAngle:      meta.Turtle.MinAngle,
			MaxAngle:      meta.Turtle.MaxAngle,
			YawMultiplier: meta.Turtle.YawMultiplier,
			Step:          meta.Turtle.Step,
			MaxLength:     meta.Turtle.MaxLength,
		},
	}, nil
}

// ToMetadata is the inverse of FromMetadata; rules are rendered as "A -> B" strings.
func ToMetadata(g *domain.Grammar) dto.GrammarMetadata {
	rules := make([]string, 0, len(g.Rules))
	for _, r := range g.Rules {
		rules = append(rules, r.String())
	}
	return dto.GrammarMetadata{
		Name:        g.Name,
		Description: g.Description,
		Axiom:       g.Axiom.String(),
		Rules:       rules,
		Iterations:  g.Iterations,
		Turtle: dto.TurtleMetadata{
			Mode:          string(g.Turtle.Mode),
			Angle:         g.Turtle.Angle,
			MinAngle:      g.Turtle.MinAngle,
			MaxAngle:      g.Turtle.MaxAngle,
			YawMultiplier: g.Turtle.YawMultiplier,
			Step:          g.Turtle.Step,
			MaxLength:     g.Turtle.MaxLength,
		},
	}
}

// ParseRule parses a textual production such as "F -> F[+F]F".
// "F = ...", "F: ..." and "F → ..." are accepted too. Whitespace is ignored.
func ParseRule(s string) (domain.Rule, error) {
	at, sep := -1, ""
	for _, candidate := range ruleSeparators {
		if i := strings.Index(s, candidate); i >= 0 && (at < 0 || i < at) {
			at, sep = i, candidate
		}
	}
	if at < 0 {
		return domain.Rule{}, fmt.Errorf("%w: %q has no separator", domain.ErrInvalidRule, s)
	}
	return newRule(s[:at], s[at+len(sep):])
}

func newRule(pred, succ string) (domain.Rule, error) {
	var sym domain.Symbol
	if err := sym.UnmarshalText([]byte(strings.TrimSpace(pred))); err != nil {
		return domain.Rule{}, err
	}
	return domain.Rule{
		Predecessor: sym,
		Successor:   domain.ParseSequence(stripSpaces(succ)),
	}, nil
}

func parseRules(raw any) (domain.RuleSet, error) {
	switch v := raw.(type) {
	case nil:
		return domain.RuleSet{}, nil
	case string:
		return parseRuleList(strings.Split(v, "\n"))
	case []string:
		return parseRuleList(v)
	case []any:
		rules := make(domain.RuleSet, 0, len(v))
		for i, item := range v {
			r, err := parseRuleItem(item)
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			rules = append(rules, r)
		}
		return rules, nil
	case map[string]any:
		// Mapping keys are unique, so precedence cannot matter; sort for a stable listing.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rules := make(domain.RuleSet, 0, len(v))
		for _, k := range keys {
			succ, ok := v[k].(string)
			if !ok && v[k] != nil {
				return nil, fmt.Errorf("%w: successor of %q must be a string", domain.ErrInvalidRule, k)
			}
			r, err := newRule(k, succ)
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
		return rules, nil
	default:
		return nil, fmt.Errorf("%w: unsupported rules type %T", domain.ErrInvalidRule, raw)
	}
}

func parseRuleList(lines []string) (domain.RuleSet, error) {
	rules := make(domain.RuleSet, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := ParseRule(line)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func parseRuleItem(item any) (domain.Rule, error) {
	switch v := item.(type) {
	case string:
		return ParseRule(v)
	case map[string]any:
		pred, _ := v["predecessor"].(string)
		if pred == "" {
			pred, _ = v["from"].(string)
		}
		succ, ok := v["successor"].(string)
		if !ok {
			succ, _ = v["to"].(string)
		}
		return newRule(pred, succ)
	default:
		return domain.Rule{}, fmt.Errorf("%w: unsupported rule type %T", domain.ErrInvalidRule, item)
	}
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
