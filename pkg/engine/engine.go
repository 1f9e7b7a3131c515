// pkg/engine/engine.go
package engine

import (
	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// Engine is the analysis contract the pipeline drives. Load builds the
// internal transaction graph and may fail on malformed rows; Analyze
// returns flagged accounts only. FraudRings and GraphData derive their
// outputs from a prior Analyze result. The topology queries serve the
// per-account deep-dive endpoint.
type Engine interface {
	// Load builds the internal directed graph from a canonical table
	Load(table *model.CanonicalTable) error

	// Analyze scores every account and returns the flagged subset
	Analyze() ([]model.AccountResult, error)

	// FraudRings groups related flagged accounts
	FraudRings(results []model.AccountResult) []model.Ring

	// GraphData produces a visualization payload around flagged accounts
	GraphData(results []model.AccountResult) *model.GraphPayload

	// Nodes returns every account in the current graph
	Nodes() []string

	// NodeCount returns the number of accounts in the current graph
	NodeCount() int

	// HasNode reports whether an account exists in the current graph
	HasNode(id string) bool

	// InDegree returns the number of incoming transfers for an account
	InDegree(id string) int

	// OutDegree returns the number of outgoing transfers for an account
	OutDegree(id string) int

	// Transactions returns the loaded rows touching an account
	Transactions(id string) []model.Transaction
}
