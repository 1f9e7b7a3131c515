// pkg/model/table.go
package model

// Canonical field names every downstream component depends on
const (
	FieldTransactionID = "transaction_id"
	FieldSenderID      = "sender_id"
	FieldReceiverID    = "receiver_id"
	FieldAmount        = "amount"
	FieldTimestamp     = "timestamp"
)

// CanonicalColumns is the fixed output column order of a normalized table
var CanonicalColumns = []string{
	FieldTransactionID,
	FieldSenderID,
	FieldReceiverID,
	FieldAmount,
	FieldTimestamp,
}

// ResolutionOrder is the order in which canonical fields claim input columns.
// Mandatory fields go first so they see the widest set of unclaimed columns;
// changing this order changes which columns remain available to later fields.
var ResolutionOrder = []string{
	FieldSenderID,
	FieldReceiverID,
	FieldAmount,
	FieldTimestamp,
	FieldTransactionID,
}

// IsMandatory reports whether a canonical field must resolve to a column
func IsMandatory(field string) bool {
	switch field {
	case FieldSenderID, FieldReceiverID, FieldAmount:
		return true
	}
	return false
}

// RawTable is an uploaded ledger before schema resolution.
// Columns preserves the original header order; each row maps an original
// column label to its raw string value. No uniqueness or type invariant
// holds at this point.
type RawTable struct {
	Columns []string
	Rows    []map[string]string
}

// NumRows returns the row count of the table
func (t *RawTable) NumRows() int {
	return len(t.Rows)
}

// Transaction is one normalized ledger row. Amount stays a raw string here;
// the analysis engine parses it and rejects malformed rows on load.
type Transaction struct {
	TransactionID string `json:"transaction_id"`
	SenderID      string `json:"sender_id"`
	ReceiverID    string `json:"receiver_id"`
	Amount        string `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

// Field returns the value of a canonical field by name
func (tx Transaction) Field(name string) string {
	switch name {
	case FieldTransactionID:
		return tx.TransactionID
	case FieldSenderID:
		return tx.SenderID
	case FieldReceiverID:
		return tx.ReceiverID
	case FieldAmount:
		return tx.Amount
	case FieldTimestamp:
		return tx.Timestamp
	}
	return ""
}

// CanonicalTable is the normalized form of an uploaded ledger. It is built
// once per upload, never mutated afterwards, and discarded when the request
// ends; nothing in this system persists ledger rows.
type CanonicalTable struct {
	Rows []Transaction
}

// NumRows returns the row count of the table
func (t *CanonicalTable) NumRows() int {
	return len(t.Rows)
}
