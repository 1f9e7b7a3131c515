// pkg/engine/graph.go
package engine

import (
	"sort"
)

// Edge is a single directed transfer between two accounts
type Edge struct {
	From          string
	To            string
	Amount        float64
	Timestamp     string
	TransactionID string
}

// Graph is a directed multigraph of accounts and transfers. Parallel edges
// are kept, since repeated transfers between the same pair are exactly what
// the forensic heuristics look at.
type Graph struct {
	nodes  map[string]struct{}
	inDeg  map[string]int
	outDeg map[string]int
	edges  []Edge
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes:  make(map[string]struct{}),
		inDeg:  make(map[string]int),
		outDeg: make(map[string]int),
	}
}

// AddEdge inserts a transfer, creating endpoint nodes as needed
func (g *Graph) AddEdge(e Edge) {
	g.nodes[e.From] = struct{}{}
	g.nodes[e.To] = struct{}{}
	g.outDeg[e.From]++
	g.inDeg[e.To]++
	g.edges = append(g.edges, e)
}

// Nodes returns every account ID in deterministic order
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeCount returns the number of accounts
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// HasNode reports whether an account exists in the graph
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// InDegree returns the number of incoming transfers for an account
func (g *Graph) InDegree(id string) int {
	return g.inDeg[id]
}

// OutDegree returns the number of outgoing transfers for an account
func (g *Graph) OutDegree(id string) int {
	return g.outDeg[id]
}

// Edges returns all transfers in insertion order
func (g *Graph) Edges() []Edge {
	return g.edges
}
