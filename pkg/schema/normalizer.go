// pkg/schema/normalizer.go
package schema

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// syntheticTimestampLayout is the format of backfilled timestamp values
const syntheticTimestampLayout = "2006-01-02 15:04:05"

// Normalizer applies a resolved column mapping to a raw table, drops every
// unmapped column, and backfills the optional fields the resolver was
// allowed to leave unbound.
type Normalizer struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewNormalizer creates a Normalizer
func NewNormalizer(logger *zap.Logger) (*Normalizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Normalizer{
		logger: logger,
		now:    time.Now,
	}, nil
}

// Normalize produces the canonical table for a raw table and its mapping.
// Output rows carry exactly the five canonical fields in fixed order:
// transaction_id, sender_id, receiver_id, amount, timestamp. Missing
// transaction IDs are synthesized as TX_000000, TX_000001, ... in row
// order; a missing timestamp column is backfilled with a single
// current-time placeholder shared by every row.
func (n *Normalizer) Normalize(table *model.RawTable, mapping *Mapping) (*model.CanonicalTable, error) {
	if table == nil {
		return nil, errors.New("input table cannot be nil")
	}
	if mapping == nil {
		return nil, errors.New("column mapping cannot be nil")
	}

	synthTimestamp := ""
	if !mapping.Has(model.FieldTimestamp) {
		synthTimestamp = n.now().Format(syntheticTimestampLayout)
		mapping.addOperation(model.ResolutionOperation{
			CanonicalField: model.FieldTimestamp,
			Tier:           model.TierSynthesized,
			Detail:         fmt.Sprintf("placeholder %q applied to %d rows", synthTimestamp, table.NumRows()),
			ResolvedAt:     n.now(),
		})
	}

	synthTxIDs := !mapping.Has(model.FieldTransactionID)
	if synthTxIDs {
		mapping.addOperation(model.ResolutionOperation{
			CanonicalField: model.FieldTransactionID,
			Tier:           model.TierSynthesized,
			Detail:         fmt.Sprintf("sequential identifiers for %d rows", table.NumRows()),
			ResolvedAt:     n.now(),
		})
	}

	canonical := &model.CanonicalTable{
		Rows: make([]model.Transaction, 0, table.NumRows()),
	}

	for i, row := range table.Rows {
		tx := model.Transaction{
			TransactionID: n.fieldValue(row, mapping, model.FieldTransactionID),
			SenderID:      n.fieldValue(row, mapping, model.FieldSenderID),
			ReceiverID:    n.fieldValue(row, mapping, model.FieldReceiverID),
			Amount:        n.fieldValue(row, mapping, model.FieldAmount),
			Timestamp:     n.fieldValue(row, mapping, model.FieldTimestamp),
		}

		if synthTxIDs {
			// Zero-padded sequence, unique within the table by construction
			tx.TransactionID = fmt.Sprintf("TX_%06d", i)
		}
		if synthTimestamp != "" {
			tx.Timestamp = synthTimestamp
		}

		canonical.Rows = append(canonical.Rows, tx)
	}

	n.logger.Info("Normalized table",
		zap.Int("rows", canonical.NumRows()),
		zap.Bool("synthesizedTransactionIDs", synthTxIDs),
		zap.Bool("synthesizedTimestamps", synthTimestamp != ""))

	return canonical, nil
}

// fieldValue looks up a canonical field's value through the mapping.
// Duplicate canonical claims cannot arise from a Mapping (first claim
// wins on both sides), which is the defense the output relies on.
func (n *Normalizer) fieldValue(row map[string]string, mapping *Mapping, field string) string {
	label, ok := mapping.Label(field)
	if !ok {
		return ""
	}
	return row[label]
}
