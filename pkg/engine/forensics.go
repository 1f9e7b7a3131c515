// pkg/engine/forensics.go
package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
	"github.com/abhaysharma000/Money-Muling/pkg/schema"
)

// Default thresholds for the scoring heuristics
const (
	defaultFlagThreshold = 0.5
	fanDegreeThreshold   = 10
	fanQuietSide         = 2
	velocityThreshold    = 10.0 // transfers per hour
)

// ForensicsEngine is the in-memory Engine implementation. One instance
// holds the graph and table of a single upload; a new upload gets a fresh
// instance. Load replaces all prior state.
type ForensicsEngine struct {
	mu            sync.RWMutex
	logger        *zap.Logger
	graph         *Graph
	table         *model.CanonicalTable
	flagThreshold float64
	workerCount   int
}

// NewForensicsEngine creates an engine with default thresholds
func NewForensicsEngine(logger *zap.Logger) (*ForensicsEngine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 2 {
		workers = 2
	}

	return &ForensicsEngine{
		logger:        logger,
		graph:         NewGraph(),
		flagThreshold: defaultFlagThreshold,
		workerCount:   workers,
	}, nil
}

// WithFlagThreshold sets the minimum suspicion score for flagging and
// returns the modified engine
func (e *ForensicsEngine) WithFlagThreshold(threshold float64) *ForensicsEngine {
	if threshold > 0 {
		e.flagThreshold = threshold
	}
	return e
}

// Load builds the transaction graph from a canonical table. Rows missing a
// sender, receiver, or parseable amount are malformed and abort the load.
func (e *ForensicsEngine) Load(table *model.CanonicalTable) error {
	if table == nil {
		return errors.New("canonical table cannot be nil")
	}

	graph := NewGraph()
	for i, tx := range table.Rows {
		if tx.SenderID == "" {
			return fmt.Errorf("malformed row %d: missing sender_id", i)
		}
		if tx.ReceiverID == "" {
			return fmt.Errorf("malformed row %d: missing receiver_id", i)
		}
		amount, err := strconv.ParseFloat(tx.Amount, 64)
		if err != nil {
			return fmt.Errorf("malformed row %d: unparseable amount %q", i, tx.Amount)
		}

		graph.AddEdge(Edge{
			From:          tx.SenderID,
			To:            tx.ReceiverID,
			Amount:        amount,
			Timestamp:     tx.Timestamp,
			TransactionID: tx.TransactionID,
		})
	}

	e.mu.Lock()
	e.graph = graph
	e.table = table
	e.mu.Unlock()

	e.logger.Info("Loaded transaction graph",
		zap.Int("accounts", graph.NodeCount()),
		zap.Int("transfers", len(graph.Edges())))

	return nil
}

// accountStats aggregates the per-account features the heuristics score
type accountStats struct {
	inDegree    int
	outDegree   int
	totalIn     float64
	totalOut    float64
	firstSeen   time.Time
	lastSeen    time.Time
	timedEvents int
}

// Analyze scores every account concurrently and returns only those whose
// suspicion score crosses the flag threshold, highest score first.
func (e *ForensicsEngine) Analyze() ([]model.AccountResult, error) {
	e.mu.RLock()
	graph := e.graph
	e.mu.RUnlock()

	if graph.NodeCount() == 0 {
		return nil, errors.New("no transaction graph loaded")
	}

	stats := e.collectStats(graph)
	accounts := graph.Nodes()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		flagged []model.AccountResult
	)

	jobs := make(chan string, len(accounts))
	for i := 0; i < e.workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				result, ok := e.scoreAccount(id, stats[id])
				if !ok {
					continue
				}
				mu.Lock()
				flagged = append(flagged, result)
				mu.Unlock()
			}
		}()
	}

	for _, id := range accounts {
		jobs <- id
	}
	close(jobs)
	wg.Wait()

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].SuspicionScore != flagged[j].SuspicionScore {
			return flagged[i].SuspicionScore > flagged[j].SuspicionScore
		}
		return flagged[i].AccountID < flagged[j].AccountID
	})

	e.logger.Info("Forensic sweep complete",
		zap.Int("accountsAnalyzed", len(accounts)),
		zap.Int("accountsFlagged", len(flagged)))

	return flagged, nil
}

// collectStats walks the edge list once and accumulates per-account features
func (e *ForensicsEngine) collectStats(graph *Graph) map[string]*accountStats {
	stats := make(map[string]*accountStats, graph.NodeCount())
	get := func(id string) *accountStats {
		s, ok := stats[id]
		if !ok {
			s = &accountStats{}
			stats[id] = s
		}
		return s
	}

	for _, edge := range graph.Edges() {
		from := get(edge.From)
		from.outDegree++
		from.totalOut += edge.Amount

		to := get(edge.To)
		to.inDegree++
		to.totalIn += edge.Amount

		if ts, ok := schema.ParseTimestamp(edge.Timestamp); ok {
			for _, s := range []*accountStats{from, to} {
				if s.timedEvents == 0 || ts.Before(s.firstSeen) {
					s.firstSeen = ts
				}
				if s.timedEvents == 0 || ts.After(s.lastSeen) {
					s.lastSeen = ts
				}
				s.timedEvents++
			}
		}
	}

	return stats
}

// scoreAccount applies the muling heuristics to one account. Returns the
// result and whether the account crossed the flag threshold.
func (e *ForensicsEngine) scoreAccount(id string, s *accountStats) (model.AccountResult, bool) {
	if s == nil {
		return model.AccountResult{}, false
	}

	var score float64
	var patterns []string

	// Fan-in aggregation: many senders funnel into one quiet account
	if s.inDegree >= fanDegreeThreshold && s.outDegree <= fanQuietSide {
		score += 0.5
		patterns = append(patterns, "fan_in_aggregation")
	}

	// Fan-out distribution: one account sprays funds to many receivers
	if s.outDegree >= fanDegreeThreshold && s.inDegree <= fanQuietSide {
		score += 0.5
		patterns = append(patterns, "fan_out_distribution")
	}

	// Rapid pass-through: almost everything received is forwarded on
	if s.inDegree > 0 && s.outDegree > 0 && s.totalIn > 0 {
		ratio := s.totalOut / s.totalIn
		if ratio >= 0.8 && ratio <= 1.1 {
			score += 0.3
			patterns = append(patterns, "rapid_passthrough")
		}
	}

	// Burst velocity: transfer rate far above organic account behavior
	if s.timedEvents >= 3 {
		window := s.lastSeen.Sub(s.firstSeen).Hours()
		if window < 1.0/60 {
			window = 1.0 / 60
		}
		if float64(s.timedEvents)/window >= velocityThreshold {
			score += 0.2
			patterns = append(patterns, "burst_velocity")
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < e.flagThreshold {
		return model.AccountResult{}, false
	}

	return model.AccountResult{
		AccountID:      id,
		SuspicionScore: score,
		Patterns:       patterns,
		InDegree:       s.inDegree,
		OutDegree:      s.outDegree,
		TotalInflow:    s.totalIn,
		TotalOutflow:   s.totalOut,
	}, true
}

// FraudRings groups flagged accounts connected by transfers into rings.
// Singleton components are dropped: a ring needs at least two members.
func (e *ForensicsEngine) FraudRings(results []model.AccountResult) []model.Ring {
	e.mu.RLock()
	graph := e.graph
	e.mu.RUnlock()

	flagged := make(map[string]float64, len(results))
	for _, r := range results {
		flagged[r.AccountID] = r.SuspicionScore
	}

	// Undirected adjacency restricted to flagged accounts
	adj := make(map[string][]string)
	for _, edge := range graph.Edges() {
		_, fromFlagged := flagged[edge.From]
		_, toFlagged := flagged[edge.To]
		if fromFlagged && toFlagged {
			adj[edge.From] = append(adj[edge.From], edge.To)
			adj[edge.To] = append(adj[edge.To], edge.From)
		}
	}

	// Connected components via BFS, visiting accounts in sorted order so
	// ring numbering is deterministic
	ids := make([]string, 0, len(flagged))
	for id := range flagged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	visited := make(map[string]bool, len(flagged))
	var rings []model.Ring

	for _, start := range ids {
		if visited[start] {
			continue
		}

		var members []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			members = append(members, id)
			for _, next := range adj[id] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		if len(members) < 2 {
			continue
		}

		sort.Strings(members)
		var sum float64
		for _, id := range members {
			sum += flagged[id]
		}

		rings = append(rings, model.Ring{
			RingID:    fmt.Sprintf("RING_%03d", len(rings)+1),
			Accounts:  members,
			RiskScore: sum / float64(len(members)),
		})
	}

	e.logger.Info("Fraud ring grouping complete",
		zap.Int("flaggedAccounts", len(flagged)),
		zap.Int("rings", len(rings)))

	return rings
}

// GraphData builds the visualization payload: flagged accounts, their
// direct counterparties, and every transfer between included nodes.
func (e *ForensicsEngine) GraphData(results []model.AccountResult) *model.GraphPayload {
	e.mu.RLock()
	graph := e.graph
	e.mu.RUnlock()

	scores := make(map[string]float64, len(results))
	for _, r := range results {
		scores[r.AccountID] = r.SuspicionScore
	}

	include := make(map[string]bool, len(scores))
	for id := range scores {
		include[id] = true
	}
	for _, edge := range graph.Edges() {
		if include[edge.From] || include[edge.To] {
			include[edge.From] = true
			include[edge.To] = true
		}
	}

	payload := &model.GraphPayload{
		Nodes: make([]model.GraphNode, 0, len(include)),
		Edges: make([]model.GraphEdge, 0),
	}

	ids := make([]string, 0, len(include))
	for id := range include {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		score, suspicious := scores[id]
		payload.Nodes = append(payload.Nodes, model.GraphNode{
			ID:         id,
			Suspicious: suspicious,
			Score:      score,
		})
	}

	for _, edge := range graph.Edges() {
		if include[edge.From] && include[edge.To] {
			payload.Edges = append(payload.Edges, model.GraphEdge{
				Source: edge.From,
				Target: edge.To,
				Amount: edge.Amount,
			})
		}
	}

	return payload
}

// Nodes returns every account in the current graph
func (e *ForensicsEngine) Nodes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Nodes()
}

// NodeCount returns the number of accounts in the current graph
func (e *ForensicsEngine) NodeCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.NodeCount()
}

// HasNode reports whether an account exists in the current graph
func (e *ForensicsEngine) HasNode(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.HasNode(id)
}

// InDegree returns the number of incoming transfers for an account
func (e *ForensicsEngine) InDegree(id string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.InDegree(id)
}

// OutDegree returns the number of outgoing transfers for an account
func (e *ForensicsEngine) OutDegree(id string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.OutDegree(id)
}

// Transactions returns the loaded rows where an account is sender or
// receiver, in table order
func (e *ForensicsEngine) Transactions(id string) []model.Transaction {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.table == nil {
		return nil
	}

	var rows []model.Transaction
	for _, tx := range e.table.Rows {
		if tx.SenderID == id || tx.ReceiverID == id {
			rows = append(rows, tx)
		}
	}
	return rows
}
