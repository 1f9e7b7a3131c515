// pkg/pipeline/runner.go
package pipeline

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/engine"
	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// Runner drives a single analysis run through its stages and surfaces
// incremental progress events to the caller. Events are produced
// cooperatively on an unbuffered channel: the run suspends at each stage
// boundary until the consumer has taken the frame, instead of computing
// everything before the first byte goes out.
type Runner struct {
	engine engine.Engine
	logger *zap.Logger
}

// NewRunner creates a pipeline runner for one engine instance
func NewRunner(eng engine.Engine, logger *zap.Logger) (*Runner, error) {
	if eng == nil {
		return nil, errors.New("engine cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Runner{engine: eng, logger: logger}, nil
}

// Run starts the pipeline and returns its event stream. The channel closes
// after exactly one terminal event, or without one when ctx is cancelled
// mid-run (the consumer is gone; nobody is reading the stream).
func (r *Runner) Run(ctx context.Context, table *model.CanonicalTable) <-chan model.Event {
	events := make(chan model.Event)
	go r.run(ctx, table, events)
	return events
}

// run executes the stage sequence INIT -> LOADING -> ANALYZING ->
// CLUSTERING -> FINALIZED, short-circuiting to FAILED on the first stage
// error. Cancellation is checked at every stage boundary.
func (r *Runner) run(ctx context.Context, table *model.CanonicalTable, events chan<- model.Event) {
	defer close(events)

	if !r.announce(ctx, events, StageInit) {
		return
	}

	// Processing time excludes the initial heartbeat
	startTime := time.Now()

	if !r.announce(ctx, events, StageLoading) {
		return
	}
	if err := r.engine.Load(table); err != nil {
		r.fail(ctx, events, StageLoading, err)
		return
	}

	if !r.announce(ctx, events, StageAnalyzing) {
		return
	}
	results, err := r.engine.Analyze()
	if err != nil {
		r.fail(ctx, events, StageAnalyzing, err)
		return
	}

	if !r.announce(ctx, events, StageClustering) {
		return
	}
	rings := r.engine.FraudRings(results)
	graphData := r.engine.GraphData(results)

	summary := model.Summary{
		TotalAccountsAnalyzed:     r.engine.NodeCount(),
		TotalTransactions:         table.NumRows(),
		SuspiciousAccountsFlagged: len(results),
		FraudRingsDetected:        len(rings),
		AvgRiskScore:              round2(meanScore(results)),
		ProcessingTimeSeconds:     round2(time.Since(startTime).Seconds()),
	}

	r.logger.Info("Pipeline finalized",
		zap.String("stage", StageFinalized.String()),
		zap.Int("accountsFlagged", summary.SuspiciousAccountsFlagged),
		zap.Int("rings", summary.FraudRingsDetected),
		zap.Float64("processingSeconds", summary.ProcessingTimeSeconds))

	r.emit(ctx, events, model.ResultEvent(&model.AnalysisResult{
		SuspiciousAccounts: results,
		FraudRings:         rings,
		GraphData:          graphData,
		Summary:            summary,
	}))
}

// announce emits the stage-entry heartbeat. Returns false when the run
// should stop because the caller cancelled.
func (r *Runner) announce(ctx context.Context, events chan<- model.Event, stage Stage) bool {
	if ctx.Err() != nil {
		r.logger.Warn("Pipeline cancelled at stage boundary",
			zap.String("stage", stage.String()))
		return false
	}

	a := stageAnnouncements[stage]
	return r.emit(ctx, events, model.StatusEvent(a.Status, a.Progress))
}

// fail logs the full diagnostic server-side and surfaces only the short
// message to the caller as the single terminal error event
func (r *Runner) fail(ctx context.Context, events chan<- model.Event, stage Stage, err error) {
	r.logger.Error("Pipeline stage failed",
		zap.String("stage", stage.String()),
		zap.Error(err))
	r.emit(ctx, events, model.ErrorEvent(err))
}

// emit hands one frame to the consumer, aborting if the context dies first
func (r *Runner) emit(ctx context.Context, events chan<- model.Event, ev model.Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// meanScore averages suspicion scores, 0 when nothing was flagged
func meanScore(results []model.AccountResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.SuspicionScore
	}
	return sum / float64(len(results))
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
