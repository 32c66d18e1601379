package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Options tunes the generated chart.
type Options struct {
	// MaxBranches truncates the chart after this many branches (pre-order). Zero means no limit.
	MaxBranches int
	// Growth styles each branch by its growth state (dormant, growing, mature).
	Growth bool
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a tree.
// It applies structural shapes:
// - Root: ((Circle))
// - Leaf: ([Stadium])
// - Default: [Rectangle]
// Branches are visited in pre-order, so a truncated chart always keeps every
// visible branch connected to the root.
func GenerateMermaid(tree *domain.Tree, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if tree == nil || tree.Root == nil {
		return sb.String()
	}

	var (
		shown    int
		dormant  []string
		growing  []string
		mature   []string
		hidden   int
		overflow bool
	)
	tree.Walk(func(b *domain.Branch) bool {
		if opts.MaxBranches > 0 && shown >= opts.MaxBranches {
			overflow = true
			hidden++
			return true
		}
		shown++

		id := nodeID(b)
		opener, closer := "[", "]"
		switch {
		case b.IsRoot():
			opener, closer = "((", "))"
		case len(b.Children) == 0:
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label(b, opts.Growth), closer))

		if parent := tree.Parent(b); parent != nil {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(parent), id))
		}

		switch {
		case b.Mature():
			mature = append(mature, id)
		case b.Length > 0:
			growing = append(growing, id)
		default:
			dormant = append(dormant, id)
		}
		return true
	})

	if overflow {
		sb.WriteString(fmt.Sprintf("    more[\"… %d more branches\"]\n", hidden))
	}

	if opts.Growth {
		sb.WriteString("\n    %% Growth Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef dormant fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:3 3,color:#000;\n")
		sb.WriteString("    classDef growing fill:#fff59d,stroke:#fbc02d,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef mature fill:#c8e6c9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		writeClass(&sb, dormant, "dormant")
		writeClass(&sb, growing, "growing")
		writeClass(&sb, mature, "mature")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	if len(ids) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("    class %s %s;\n", strings.Join(ids, ","), class))
}

func nodeID(b *domain.Branch) string {
	return fmt.Sprintf("b%d", b.ID)
}

func label(b *domain.Branch, growth bool) string {
	if growth {
		return fmt.Sprintf("#%d <br/> %.2f/%.2f", b.ID, b.Length, b.MaxLength)
	}
	return fmt.Sprintf("#%d d%d", b.ID, b.Depth)
}
