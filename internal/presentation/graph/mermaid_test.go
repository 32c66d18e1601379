package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

// sampleTree builds root -> 1 -> {2, 3}.
func sampleTree() *domain.Tree {
	root := &domain.Branch{ID: 0, Parent: domain.NoParent, MaxLength: 1, Length: 1}
	tree := domain.NewTree(root)
	b1 := &domain.Branch{ID: 1, Depth: 1, MaxLength: 1, Length: 0.5}
	tree.Attach(root, b1)
	tree.Attach(b1, &domain.Branch{ID: 2, Depth: 2, MaxLength: 1})
	tree.Attach(b1, &domain.Branch{ID: 3, Depth: 2, MaxLength: 1})
	return tree
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		opts     graph.Options
		contains []string
		absent   []string
	}{
		{
			name: "Shapes And Edges",
			contains: []string{
				"graph TD\n",
				`b0(("#0 d0"))`,
				`b1["#1 d1"]`,
				`b2(["#2 d2"])`,
				"b0 --> b1",
				"b1 --> b2",
				"b1 --> b3",
			},
			absent: []string{"classDef"},
		},
		{
			name: "Growth Overlay",
			opts: graph.Options{Growth: true},
			contains: []string{
				`b1["#1 <br/> 0.50/1.00"]`,
				"class b2,b3 dormant;",
				"class b1 growing;",
				"class b0 mature;",
			},
		},
		{
			name: "Truncation",
			opts: graph.Options{MaxBranches: 2},
			contains: []string{
				"b0 --> b1",
				`more["… 2 more branches"]`,
			},
			absent: []string{"b2", "b3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(sampleTree(), tt.opts)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.absent {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_EmptyTree(t *testing.T) {
	got := graph.GenerateMermaid(nil, graph.Options{})
	assert.Equal(t, "graph TD\n", got)
	assert.Equal(t, 1, strings.Count(got, "\n"))
}
