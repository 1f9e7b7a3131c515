// pkg/schema/resolver.go
package schema

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// DefaultSampleRows is how many leading rows content inference inspects
const DefaultSampleRows = 100

// positionalIndexes are the fixed fallback column positions for mandatory
// fields. They are constants independent of the actual column count beyond
// an existence check; a semantically wrong column at the right index is an
// accepted heuristic risk.
var positionalIndexes = map[string]int{
	model.FieldSenderID:   1,
	model.FieldReceiverID: 2,
	model.FieldAmount:     3,
}

// Resolver maps arbitrary input columns onto canonical fields using three
// tiers: exact alias matching on normalized labels, content-based inference
// over sampled row values, and fixed positional fallback. Fields claim
// columns greedily in a fixed order and never backtrack.
type Resolver struct {
	aliases    AliasTable
	sampleRows int
	logger     *zap.Logger
}

// NewResolver creates a resolver with the built-in alias table
func NewResolver(logger *zap.Logger) (*Resolver, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Resolver{
		aliases:    DefaultAliases(),
		sampleRows: DefaultSampleRows,
		logger:     logger,
	}, nil
}

// WithAliases replaces the alias table and returns the modified resolver
func (r *Resolver) WithAliases(aliases AliasTable) *Resolver {
	if aliases != nil {
		r.aliases = aliases
	}
	return r
}

// WithSampleRows sets the content-inference sample depth and returns the
// modified resolver
func (r *Resolver) WithSampleRows(n int) *Resolver {
	if n > 0 {
		r.sampleRows = n
	}
	return r
}

// Resolve produces a column mapping covering the canonical fields, or fails
// with a SchemaError naming every mandatory field left unbound. Fields are
// processed strictly in model.ResolutionOrder: each claim narrows the set of
// columns available to later fields, so the order is load-bearing.
func (r *Resolver) Resolve(table *model.RawTable) (*Mapping, error) {
	if table == nil {
		return nil, errors.New("input table cannot be nil")
	}

	normToOrig := make(map[string]string, len(table.Columns))
	for _, label := range table.Columns {
		normToOrig[normalizeLabel(label)] = label
	}

	mapping := NewMapping()
	var missing []string

	for _, field := range model.ResolutionOrder {
		if r.resolveByAlias(field, normToOrig, mapping) {
			continue
		}
		if r.resolveByContent(field, table, mapping) {
			continue
		}
		if r.resolveByPosition(field, table, mapping) {
			continue
		}

		if model.IsMandatory(field) {
			r.logger.Warn("Mandatory field unresolved after all tiers",
				zap.String("field", field))
			missing = append(missing, field)
			continue
		}

		// Optional fields are backfilled later by the normalizer
		r.logger.Debug("Optional field unresolved, will be synthesized",
			zap.String("field", field))
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Fields: missing}
	}

	r.logger.Info("Schema resolution complete",
		zap.Int("columnsMapped", mapping.Len()),
		zap.Int("columnsTotal", len(table.Columns)))

	return mapping, nil
}

// resolveByAlias attempts tier 1: exact match of a normalized alias against
// a normalized, unclaimed column label
func (r *Resolver) resolveByAlias(field string, normToOrig map[string]string, mapping *Mapping) bool {
	for _, alias := range r.aliases[field] {
		orig, ok := normToOrig[normalizeLabel(alias)]
		if !ok || mapping.Claimed(orig) {
			continue
		}

		if mapping.Claim(field, orig, model.TierAlias, fmt.Sprintf("matched alias %q", alias)) {
			r.logger.Debug("Resolved field by alias",
				zap.String("field", field),
				zap.String("column", orig),
				zap.String("alias", alias))
			return true
		}
	}
	return false
}

// resolveByContent attempts tier 2: inspect sampled values of unclaimed
// columns in their original left-to-right order and claim the first column
// satisfying the field's content predicate. Columns whose sampled values
// are all missing are skipped.
func (r *Resolver) resolveByContent(field string, table *model.RawTable, mapping *Mapping) bool {
	for _, label := range table.Columns {
		if mapping.Claimed(label) {
			continue
		}

		sample := sampleColumn(table.Rows, label, r.sampleRows)
		if len(sample) == 0 {
			continue
		}

		var matched bool
		var detail string
		switch field {
		case model.FieldAmount:
			matched = allNumericPositiveMean(sample)
			detail = "numeric values with positive mean"
		case model.FieldTimestamp:
			_, matched = ParseTimestamp(sample[0])
			detail = "first value parses as a timestamp"
		case model.FieldSenderID, model.FieldReceiverID:
			matched = !allNumeric(sample)
			detail = "non-numeric identifier values"
		default:
			// transaction_id has no content predicate
			return false
		}

		if matched && mapping.Claim(field, label, model.TierContent, detail) {
			r.logger.Debug("Resolved field by content inference",
				zap.String("field", field),
				zap.String("column", label),
				zap.Int("sampledValues", len(sample)))
			return true
		}
	}
	return false
}

// resolveByPosition attempts tier 3: claim the column at the field's fixed
// index when it exists and is unclaimed. Only mandatory fields have one.
func (r *Resolver) resolveByPosition(field string, table *model.RawTable, mapping *Mapping) bool {
	idx, ok := positionalIndexes[field]
	if !ok || idx >= len(table.Columns) {
		return false
	}

	label := table.Columns[idx]
	if mapping.Claimed(label) {
		return false
	}

	if mapping.Claim(field, label, model.TierPositional, fmt.Sprintf("fixed fallback index %d", idx)) {
		r.logger.Debug("Resolved field by positional fallback",
			zap.String("field", field),
			zap.String("column", label),
			zap.Int("index", idx))
		return true
	}
	return false
}
