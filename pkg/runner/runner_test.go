package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulator(t *testing.T, iterations int) (*arbor.Engine, *arbor.Simulator) {
	t.Helper()
	engine, err := arbor.New("", arbor.WithSeed(1))
	require.NoError(t, err)
	res, err := engine.GenerateByName(context.Background(), "plant", iterations)
	require.NoError(t, err)
	return engine, engine.NewSimulator(res.Tree)
}

func TestRunner_RunsToCompletion(t *testing.T) {
	_, sim := newSimulator(t, 1)

	r := runner.NewRunner(runner.WithStep(250 * time.Millisecond))
	summary, err := r.Run(context.Background(), sim)
	require.NoError(t, err)

	assert.True(t, summary.Complete)
	assert.Equal(t, 4, summary.Ticks)
	assert.Equal(t, time.Second, summary.Elapsed)
	assert.Equal(t, 6, summary.Stats.Branches)
	assert.Equal(t, 6, summary.Stats.Mature)
}

func TestRunner_MaxTicks(t *testing.T) {
	_, sim := newSimulator(t, 2)

	r := runner.NewRunner(runner.WithMaxTicks(3))
	summary, err := r.Run(context.Background(), sim)
	require.NoError(t, err)

	assert.False(t, summary.Complete)
	assert.Equal(t, 3, summary.Ticks)
}

func TestRunner_Cancelled(t *testing.T) {
	_, sim := newSimulator(t, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := runner.NewRunner().Run(ctx, sim)
	require.NoError(t, err)
	assert.Zero(t, summary.Ticks)
	assert.False(t, summary.Complete)
}

func TestRunner_Realtime(t *testing.T) {
	_, sim := newSimulator(t, 0)

	// Two ticks of 250ms simulated time, played 50 times faster than real time.
	r := runner.NewRunner(
		runner.WithStep(250*time.Millisecond),
		runner.WithRealtime(true),
		runner.WithSpeed(50),
	)
	summary, err := r.Run(context.Background(), sim)
	require.NoError(t, err)
	assert.True(t, summary.Complete)
	assert.GreaterOrEqual(t, summary.Wall, 10*time.Millisecond)
}

func TestRunner_RealtimeHugeSpeed(t *testing.T) {
	_, sim := newSimulator(t, 1)

	r := runner.NewRunner(
		runner.WithStep(250*time.Millisecond),
		runner.WithRealtime(true),
		runner.WithSpeed(1e12),
	)
	var summary *runner.Summary
	require.NotPanics(t, func() {
		var err error
		summary, err = r.Run(context.Background(), sim)
		require.NoError(t, err)
	})
	assert.True(t, summary.Complete)
	assert.Equal(t, 4, summary.Ticks)
}

func TestRunner_RealtimeZeroStep(t *testing.T) {
	_, sim := newSimulator(t, 1)

	r := &runner.Runner{Realtime: true, Speed: 0, MaxTicks: 2}
	summary, err := r.Run(context.Background(), sim)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Ticks)
	assert.False(t, summary.Complete)
}

func TestTextHandler(t *testing.T) {
	_, sim := newSimulator(t, 1)

	var buf bytes.Buffer
	r := runner.NewRunner(
		runner.WithStep(250*time.Millisecond),
		runner.WithHandler(runner.NewTextHandler(&buf)),
	)
	_, err := r.Run(context.Background(), sim)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "tick     1")
	assert.Contains(t, lines[0], "mature 1/6")
	assert.Contains(t, lines[3], "100%")
	assert.Equal(t, "complete after 4 ticks (1s simulated): 6 branches, depth 3, 3 leaves", lines[4])
}

func TestTextHandler_Every(t *testing.T) {
	_, sim := newSimulator(t, 1)

	var buf bytes.Buffer
	r := runner.NewRunner(
		runner.WithStep(250*time.Millisecond),
		runner.WithHandler(runner.NewTextHandler(&buf, runner.WithEvery(3))),
	)
	_, err := r.Run(context.Background(), sim)
	require.NoError(t, err)

	// Tick 3, the final tick 4, and the summary.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "tick     3")
	assert.Contains(t, lines[1], "tick     4")
}

func TestJSONHandler(t *testing.T) {
	_, sim := newSimulator(t, 1)

	var buf bytes.Buffer
	r := runner.NewRunner(
		runner.WithStep(250*time.Millisecond),
		runner.WithHandler(runner.NewJSONHandler(&buf)),
	)
	_, err := r.Run(context.Background(), sim)
	require.NoError(t, err)

	var ticks []runner.TickMessage
	var done runner.DoneMessage
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		line := scanner.Bytes()
		if bytes.Contains(line, []byte(`"type":"done"`)) {
			require.NoError(t, json.Unmarshal(line, &done))
			continue
		}
		var msg runner.TickMessage
		require.NoError(t, json.Unmarshal(line, &msg))
		ticks = append(ticks, msg)
	}

	require.Len(t, ticks, 4)
	assert.Equal(t, string(domain.EventTick), ticks[0].Type)

	// The first message reports every branch, later ones only what grew.
	assert.Len(t, ticks[0].Diff.Lengths, 6)
	assert.Equal(t, map[int]float32{1: 1}, ticks[1].Diff.Lengths)
	require.NotNil(t, ticks[3].Diff.Complete)
	assert.True(t, *ticks[3].Diff.Complete)

	assert.True(t, done.Summary.Complete)
	assert.Equal(t, 4, done.Summary.Ticks)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[.....]", runner.ProgressBar(0, 5))
	assert.Equal(t, "[##...]", runner.ProgressBar(0.5, 5))
	assert.Equal(t, "[#####]", runner.ProgressBar(1.5, 5))
}
