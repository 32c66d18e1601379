package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// maxPreview bounds the sequence excerpt in a report.
const maxPreview = 120

// Report is the summary of a generated tree shown by the CLI.
type Report struct {
	Grammar  *domain.Grammar
	Sequence domain.Sequence
	Tree     *domain.Tree
	CacheHit bool
}

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var sb strings.Builder
	g := r.Grammar

	fmt.Fprintf(&sb, "# %s\n\n", g.Name)
	if g.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", g.Description)
	}

	sb.WriteString("## Grammar\n\n")
	fmt.Fprintf(&sb, "- **Axiom**: `%s`\n", g.Axiom)
	fmt.Fprintf(&sb, "- **Iterations**: %d\n", g.Iterations)
	for _, rule := range g.Rules {
		fmt.Fprintf(&sb, "- **Rule**: `%s`\n", rule)
	}
	turtle := g.Turtle.WithDefaults()
	if turtle.Mode == domain.TurnRanged {
		fmt.Fprintf(&sb, "- **Turns**: ranged %.1f° to %.1f°\n", turtle.MinAngle, turtle.MaxAngle)
	} else {
		fmt.Fprintf(&sb, "- **Turns**: fixed %.1f°\n", turtle.Angle)
	}

	stats := r.Tree.Stats()
	sb.WriteString("\n## Tree\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Symbols | %d |\n", len(r.Sequence))
	fmt.Fprintf(&sb, "| Branches | %d |\n", stats.Branches)
	fmt.Fprintf(&sb, "| Leaves | %d |\n", stats.Leaves)
	fmt.Fprintf(&sb, "| Max depth | %d |\n", stats.MaxDepth)
	fmt.Fprintf(&sb, "| Cached | %t |\n", r.CacheHit)

	sb.WriteString("\n## Sequence\n\n```\n")
	sb.WriteString(Preview(r.Sequence, maxPreview))
	sb.WriteString("\n```\n")
	return sb.String()
}

// Preview shortens seq to at most n symbols, marking the cut with an ellipsis.
func Preview(seq domain.Sequence, n int) string {
	if len(seq) <= n {
		return seq.String()
	}
	return seq[:n].String() + fmt.Sprintf("… (+%d)", len(seq)-n)
}
