package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/aretw0/arbor/pkg/domain"
)

// Output formats of the generate command.
const (
	FormatReport   = "report"
	FormatJSON     = "json"
	FormatSequence = "sequence"
)

// GenerateOptions configures RunGenerate.
type GenerateOptions struct {
	Options
	Grammar    string
	Iterations int // negative keeps the grammar's own count
	Format     string
}

// generateOutput is the JSON document printed by generate --format json.
type generateOutput struct {
	Grammar  string       `json:"grammar"`
	Sequence string       `json:"sequence"`
	CacheHit bool         `json:"cache_hit"`
	Stats    domain.Stats `json:"stats"`
	Tree     *domain.Tree `json:"tree"`
}

// RunGenerate expands a grammar, builds its tree and prints it.
func RunGenerate(ctx context.Context, opts GenerateOptions) error {
	engine, closeEngine, err := NewEngine(opts.Options)
	if err != nil {
		return err
	}
	defer closeEngine()

	g, err := loadGrammar(engine, opts.Grammar, opts.Iterations)
	if err != nil {
		return err
	}
	res, err := engine.Generate(ctx, g)
	if err != nil {
		return err
	}

	w := opts.out()
	switch opts.Format {
	case FormatSequence:
		_, err = fmt.Fprintln(w, res.Sequence)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(generateOutput{
			Grammar:  res.Grammar,
			Sequence: res.Sequence.String(),
			CacheHit: res.CacheHit,
			Stats:    res.Tree.Stats(),
			Tree:     res.Tree,
		})
	case FormatReport, "":
		md := tui.Report{Grammar: g, Sequence: res.Sequence, Tree: res.Tree, CacheHit: res.CacheHit}.Markdown()
		if isTerminal(w) {
			if rendered, rerr := tui.NewRenderer()(md); rerr == nil {
				md = rendered
			}
		}
		_, err = fmt.Fprint(w, md)
	default:
		return fmt.Errorf("unknown format %q (want %s, %s or %s)", opts.Format, FormatReport, FormatJSON, FormatSequence)
	}
	return err
}
