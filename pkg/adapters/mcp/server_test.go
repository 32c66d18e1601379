package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine, err := arbor.New("", arbor.WithSeed(3))
	require.NoError(t, err)
	return NewServer(engine)
}

func intPtr(v int) *int { return &v }

func TestListPresets(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.handleListPresets(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)

	names := make([]string, len(resp.Grammars))
	for i, g := range resp.Grammars {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"algae", "bush", "plant", "tree3d"}, names)
}

func TestExpandGrammar(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleExpand(ctx, mcp.CallToolRequest{}, ExpandArgs{Grammar: "algae", Iterations: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, "ABAAB", resp.Sequence)
	assert.Equal(t, 5, resp.Length)

	_, err = s.handleExpand(ctx, mcp.CallToolRequest{}, ExpandArgs{Grammar: "missing"})
	assert.ErrorIs(t, err, domain.ErrGrammarNotFound)
}

func TestBuildTree(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	t.Run("Summary", func(t *testing.T) {
		resp, err := s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Iterations: intPtr(1)})
		require.NoError(t, err)
		assert.Equal(t, 11, resp.Sequence)
		assert.Equal(t, 6, resp.Stats.Branches)
		assert.Nil(t, resp.Tree)
		assert.Empty(t, resp.Mermaid)
	})

	t.Run("JSON", func(t *testing.T) {
		resp, err := s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Iterations: intPtr(1), Format: "json"})
		require.NoError(t, err)
		require.NotNil(t, resp.Tree)
		assert.Len(t, resp.Tree.Branches, 6)
	})

	t.Run("Mermaid", func(t *testing.T) {
		resp, err := s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Iterations: intPtr(1), Format: "mermaid"})
		require.NoError(t, err)
		assert.Contains(t, resp.Mermaid, "b0 --> b1")
	})

	t.Run("Seeded builds replay", func(t *testing.T) {
		a, err := s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Seed: 9, Format: "json"})
		require.NoError(t, err)
		b, err := s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Seed: 9, Format: "json"})
		require.NoError(t, err)
		ja, _ := json.Marshal(a.Tree)
		jb, _ := json.Marshal(b.Tree)
		assert.JSONEq(t, string(ja), string(jb))
	})

	t.Run("Unknown format", func(t *testing.T) {
		_, err := s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Format: "svg"})
		assert.Error(t, err)
	})
}

func TestIterationLimit(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleExpand(ctx, mcp.CallToolRequest{}, ExpandArgs{Grammar: "plant", Iterations: intPtr(20)})
	assert.ErrorIs(t, err, domain.ErrIterationLimit)

	_, err = s.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant", Iterations: intPtr(20)})
	assert.ErrorIs(t, err, domain.ErrIterationLimit)

	engine, err := arbor.New("", arbor.WithSeed(3))
	require.NoError(t, err)
	strict := NewServer(engine, WithMaxIterations(2))
	_, err = strict.handleBuild(ctx, mcp.CallToolRequest{}, BuildArgs{Grammar: "plant"})
	assert.ErrorIs(t, err, domain.ErrIterationLimit)

	resp, err := strict.handleExpand(ctx, mcp.CallToolRequest{}, ExpandArgs{Grammar: "algae", Iterations: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "ABA", resp.Sequence)
}

func TestBuildTree_Concurrent(t *testing.T) {
	s := newTestServer(t)

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.handleBuild(context.Background(), mcp.CallToolRequest{}, BuildArgs{Grammar: "tree3d"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestReadGrammarResource(t *testing.T) {
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = resourcePrefix + "algae"
	contents, err := s.readGrammar(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"axiom":"A"`)

	req.Params.URI = "other://algae"
	_, err = s.readGrammar(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrGrammarNotFound)
}
