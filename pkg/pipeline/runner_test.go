package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// stubEngine implements engine.Engine with injectable stage failures
type stubEngine struct {
	loadErr    error
	analyzeErr error
	results    []model.AccountResult
	rings      []model.Ring
	nodeCount  int
}

func (s *stubEngine) Load(table *model.CanonicalTable) error { return s.loadErr }

func (s *stubEngine) Analyze() ([]model.AccountResult, error) {
	if s.analyzeErr != nil {
		return nil, s.analyzeErr
	}
	return s.results, nil
}

func (s *stubEngine) FraudRings(results []model.AccountResult) []model.Ring { return s.rings }

func (s *stubEngine) GraphData(results []model.AccountResult) *model.GraphPayload {
	return &model.GraphPayload{}
}

func (s *stubEngine) Nodes() []string                            { return nil }
func (s *stubEngine) NodeCount() int                             { return s.nodeCount }
func (s *stubEngine) HasNode(id string) bool                     { return false }
func (s *stubEngine) InDegree(id string) int                     { return 0 }
func (s *stubEngine) OutDegree(id string) int                    { return 0 }
func (s *stubEngine) Transactions(id string) []model.Transaction { return nil }

func collect(t *testing.T, events <-chan model.Event) []model.Event {
	t.Helper()
	var out []model.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func newTestRunner(t *testing.T, eng *stubEngine) *Runner {
	t.Helper()
	r, err := NewRunner(eng, zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestRunEmitsStagesThenResult(t *testing.T) {
	eng := &stubEngine{
		results: []model.AccountResult{
			{AccountID: "mule", SuspicionScore: 0.8},
			{AccountID: "drop", SuspicionScore: 0.6},
		},
		rings:     []model.Ring{{RingID: "RING_001"}},
		nodeCount: 12,
	}
	r := newTestRunner(t, eng)

	table := &model.CanonicalTable{Rows: make([]model.Transaction, 5)}
	events := collect(t, r.Run(context.Background(), table))
	require.Len(t, events, 5)

	statuses := []string{
		"System Initializing...",
		"Building Graph Topology...",
		"Parallel Forensic Sweep...",
		"Graphing Clusters...",
	}
	for i, want := range statuses {
		assert.Equal(t, model.EventStatus, events[i].Kind)
		assert.Equal(t, want, events[i].Status)
	}

	// Progress never decreases across the run
	for i := 1; i < 4; i++ {
		assert.Greater(t, events[i].Progress, events[i-1].Progress)
	}

	final := events[4]
	require.Equal(t, model.EventResult, final.Kind)
	require.NotNil(t, final.Result)
	assert.True(t, final.Terminal())
	assert.True(t, final.Result.Complete)

	summary := final.Result.Summary
	assert.Equal(t, 12, summary.TotalAccountsAnalyzed)
	assert.Equal(t, 5, summary.TotalTransactions)
	assert.Equal(t, 2, summary.SuspiciousAccountsFlagged)
	assert.Equal(t, 1, summary.FraudRingsDetected)
	assert.InDelta(t, 0.70, summary.AvgRiskScore, 1e-9)
}

func TestRunAvgScoreZeroWhenNothingFlagged(t *testing.T) {
	r := newTestRunner(t, &stubEngine{nodeCount: 3})

	events := collect(t, r.Run(context.Background(), &model.CanonicalTable{}))
	final := events[len(events)-1]

	require.Equal(t, model.EventResult, final.Kind)
	assert.Zero(t, final.Result.Summary.AvgRiskScore)
	assert.Zero(t, final.Result.Summary.SuspiciousAccountsFlagged)
}

func TestRunLoadFailureEmitsSingleErrorTerminal(t *testing.T) {
	r := newTestRunner(t, &stubEngine{loadErr: errors.New("malformed row 3: missing sender_id")})

	events := collect(t, r.Run(context.Background(), &model.CanonicalTable{}))
	require.Len(t, events, 3, "INIT, LOADING, then the error")

	final := events[2]
	assert.Equal(t, model.EventError, final.Kind)
	assert.True(t, final.Terminal())
	assert.Error(t, final.Err)
}

func TestRunAnalyzeFailureStopsBeforeClustering(t *testing.T) {
	r := newTestRunner(t, &stubEngine{analyzeErr: errors.New("no transaction graph loaded")})

	events := collect(t, r.Run(context.Background(), &model.CanonicalTable{}))
	require.Len(t, events, 4)

	assert.Equal(t, "Parallel Forensic Sweep...", events[2].Status)
	assert.Equal(t, model.EventError, events[3].Kind)

	terminals := 0
	for _, ev := range events {
		if ev.Terminal() {
			terminals++
		}
	}
	assert.Equal(t, 1, terminals)
}

func TestRunCancelledContextEmitsNothing(t *testing.T) {
	r := newTestRunner(t, &stubEngine{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := collect(t, r.Run(ctx, &model.CanonicalTable{}))
	assert.Empty(t, events, "channel closes without a terminal event")
}
