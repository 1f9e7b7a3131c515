package schema

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	n, err := NewNormalizer(zap.NewNop())
	require.NoError(t, err)
	return n
}

func TestNormalizeAppliesMappingAndDropsUnmapped(t *testing.T) {
	table := rawTable(
		[]string{"TxID", "From", "To", "Value", "When", "Memo"},
		[]string{"t1", "alice", "bob", "10.5", "2024-01-01 12:00:00", "lunch"},
		[]string{"t2", "bob", "carol", "99.0", "2024-01-01 13:00:00", "rent"},
	)

	m := NewMapping()
	require.True(t, m.Claim(model.FieldTransactionID, "TxID", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldSenderID, "From", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldReceiverID, "To", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldAmount, "Value", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldTimestamp, "When", model.TierContent, ""))

	canonical, err := newTestNormalizer(t).Normalize(table, m)
	require.NoError(t, err)
	require.Equal(t, 2, canonical.NumRows())

	first := canonical.Rows[0]
	assert.Equal(t, "t1", first.TransactionID)
	assert.Equal(t, "alice", first.SenderID)
	assert.Equal(t, "bob", first.ReceiverID)
	assert.Equal(t, "10.5", first.Amount)
	assert.Equal(t, "2024-01-01 12:00:00", first.Timestamp)
}

func TestNormalizeSynthesizesTransactionIDs(t *testing.T) {
	columns := []string{"From", "To", "Value"}
	rows := make([][]string, 0, 250)
	for i := 0; i < 250; i++ {
		rows = append(rows, []string{"a", "b", "1.0"})
	}
	table := rawTable(columns, rows...)

	m := NewMapping()
	require.True(t, m.Claim(model.FieldSenderID, "From", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldReceiverID, "To", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldAmount, "Value", model.TierAlias, ""))

	canonical, err := newTestNormalizer(t).Normalize(table, m)
	require.NoError(t, err)
	require.Equal(t, 250, canonical.NumRows())

	seen := make(map[string]bool, 250)
	for i, tx := range canonical.Rows {
		assert.Equal(t, fmt.Sprintf("TX_%06d", i), tx.TransactionID)
		assert.False(t, seen[tx.TransactionID], "transaction IDs must be unique")
		seen[tx.TransactionID] = true
	}
}

func TestNormalizeBackfillsTimestampWithSingleValue(t *testing.T) {
	table := rawTable(
		[]string{"From", "To", "Value"},
		[]string{"a", "b", "1"},
		[]string{"c", "d", "2"},
		[]string{"e", "f", "3"},
	)

	m := NewMapping()
	require.True(t, m.Claim(model.FieldSenderID, "From", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldReceiverID, "To", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldAmount, "Value", model.TierAlias, ""))

	n := newTestNormalizer(t)
	fixed := time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)
	n.now = func() time.Time { return fixed }

	canonical, err := n.Normalize(table, m)
	require.NoError(t, err)

	for _, tx := range canonical.Rows {
		assert.Equal(t, "2024-06-15 08:30:00", tx.Timestamp)
	}
}

func TestNormalizeRecordsSynthesisOperations(t *testing.T) {
	table := rawTable(
		[]string{"From", "To", "Value"},
		[]string{"a", "b", "1"},
	)

	m := NewMapping()
	require.True(t, m.Claim(model.FieldSenderID, "From", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldReceiverID, "To", model.TierAlias, ""))
	require.True(t, m.Claim(model.FieldAmount, "Value", model.TierAlias, ""))

	_, err := newTestNormalizer(t).Normalize(table, m)
	require.NoError(t, err)

	synthesized := make(map[string]bool)
	for _, op := range m.Operations() {
		if op.Tier == model.TierSynthesized {
			synthesized[op.CanonicalField] = true
		}
	}
	assert.True(t, synthesized[model.FieldTransactionID])
	assert.True(t, synthesized[model.FieldTimestamp])
}

func TestNormalizeNilInputs(t *testing.T) {
	n := newTestNormalizer(t)

	_, err := n.Normalize(nil, NewMapping())
	assert.Error(t, err)

	_, err = n.Normalize(&model.RawTable{}, nil)
	assert.Error(t, err)
}
