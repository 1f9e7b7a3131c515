// pkg/model/result.go
package model

// AccountResult is the per-account output of the analysis engine. Only
// flagged accounts appear in results; the flagged set size, not the total
// node count, is what gets reported as "accounts flagged".
type AccountResult struct {
	AccountID      string   `json:"account_id"`
	SuspicionScore float64  `json:"suspicion_score"`
	Patterns       []string `json:"patterns"`
	InDegree       int      `json:"in_degree"`
	OutDegree      int      `json:"out_degree"`
	TotalInflow    float64  `json:"total_inflow"`
	TotalOutflow   float64  `json:"total_outflow"`
}

// Ring is a group of related flagged accounts
type Ring struct {
	RingID    string   `json:"ring_id"`
	Accounts  []string `json:"accounts"`
	RiskScore float64  `json:"risk_score"`
}

// GraphNode is a single account in the visualization payload
type GraphNode struct {
	ID         string  `json:"id"`
	Suspicious bool    `json:"suspicious"`
	Score      float64 `json:"score"`
}

// GraphEdge is a single transfer in the visualization payload
type GraphEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Amount float64 `json:"amount"`
}

// GraphPayload carries nodes and edges for external visualization
type GraphPayload struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Summary aggregates one completed analysis run
type Summary struct {
	TotalAccountsAnalyzed     int     `json:"total_accounts_analyzed"`
	TotalTransactions         int     `json:"total_transactions"`
	SuspiciousAccountsFlagged int     `json:"suspicious_accounts_flagged"`
	FraudRingsDetected        int     `json:"fraud_rings_detected"`
	AvgRiskScore              float64 `json:"avg_risk_score"`
	ProcessingTimeSeconds     float64 `json:"processing_time_seconds"`
}

// AnalysisResult is the terminal payload of a successful pipeline run
type AnalysisResult struct {
	SuspiciousAccounts []AccountResult `json:"suspicious_accounts"`
	FraudRings         []Ring          `json:"fraud_rings"`
	GraphData          *GraphPayload   `json:"graph_data"`
	Summary            Summary         `json:"summary"`
	Complete           bool            `json:"complete"`
}
