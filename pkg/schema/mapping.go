// pkg/schema/mapping.go
package schema

import (
	"time"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// Mapping binds original column labels to canonical fields. The invariant
// is single ownership in both directions: a column is claimed by at most one
// field and a field claims at most one column. First claim wins; a claimed
// column is never given back, even if a later field would otherwise fail.
type Mapping struct {
	byField map[string]string // canonical field -> original label
	byLabel map[string]string // original label -> canonical field
	ops     []model.ResolutionOperation
}

// NewMapping creates an empty column mapping
func NewMapping() *Mapping {
	return &Mapping{
		byField: make(map[string]string),
		byLabel: make(map[string]string),
	}
}

// Claim binds a column to a canonical field and records the operation.
// It refuses duplicate claims on either side and reports whether the
// binding took effect.
func (m *Mapping) Claim(field, label, tier, detail string) bool {
	if _, taken := m.byField[field]; taken {
		return false
	}
	if _, taken := m.byLabel[label]; taken {
		return false
	}

	m.byField[field] = label
	m.byLabel[label] = field
	m.ops = append(m.ops, model.ResolutionOperation{
		CanonicalField: field,
		OriginalColumn: label,
		Tier:           tier,
		Detail:         detail,
		ResolvedAt:     time.Now(),
	})
	return true
}

// Label returns the original column bound to a canonical field
func (m *Mapping) Label(field string) (string, bool) {
	label, ok := m.byField[field]
	return label, ok
}

// Claimed reports whether an original column is already bound
func (m *Mapping) Claimed(label string) bool {
	_, ok := m.byLabel[label]
	return ok
}

// Has reports whether a canonical field resolved to a column
func (m *Mapping) Has(field string) bool {
	_, ok := m.byField[field]
	return ok
}

// Len returns the number of bound columns
func (m *Mapping) Len() int {
	return len(m.byField)
}

// Operations returns the resolution provenance records accumulated so far
func (m *Mapping) Operations() []model.ResolutionOperation {
	return m.ops
}

// addOperation appends a provenance record for a non-claim event, such as
// a synthesized field
func (m *Mapping) addOperation(op model.ResolutionOperation) {
	m.ops = append(m.ops, op)
}
