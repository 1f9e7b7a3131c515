// pkg/pipeline/stage.go
package pipeline

import "fmt"

// Stage is an explicit pipeline state. Transitions are driven by the
// runner, never by implicit control flow, so every boundary is a point
// where control returns to the event consumer.
type Stage int

const (
	StageInit Stage = iota
	StageLoading
	StageAnalyzing
	StageClustering
	StageFinalized
	StageFailed
)

// String returns a readable stage name
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "INIT"
	case StageLoading:
		return "LOADING"
	case StageAnalyzing:
		return "ANALYZING"
	case StageClustering:
		return "CLUSTERING"
	case StageFinalized:
		return "FINALIZED"
	case StageFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Status line and progress value announced when a stage is entered. The
// heartbeat goes out before the stage's work starts, not after, so callers
// behind idle-timeout transports see bytes at every boundary even when an
// individual stage is slow.
var stageAnnouncements = map[Stage]struct {
	Status   string
	Progress float64
}{
	StageInit:       {"System Initializing...", 0.05},
	StageLoading:    {"Building Graph Topology...", 0.10},
	StageAnalyzing:  {"Parallel Forensic Sweep...", 0.40},
	StageClustering: {"Graphing Clusters...", 0.70},
}
