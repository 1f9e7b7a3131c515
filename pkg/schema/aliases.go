// pkg/schema/aliases.go
package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhaysharma000/Money-Muling/pkg/model"
)

// AliasTable maps each canonical field to its known alternate column names.
// Aliases are compared after normalization, so spelling variants like
// "Sender ID" and "sender_id" collapse to the same key.
type AliasTable map[string][]string

// DefaultAliases returns the built-in alias table. The lists are ordered;
// earlier aliases win when several match distinct columns.
func DefaultAliases() AliasTable {
	return AliasTable{
		model.FieldSenderID:      {"sender_id", "sourceid", "from", "sender", "source", "initiator", "nameorig", "origin"},
		model.FieldReceiverID:    {"receiver_id", "destinationid", "to", "receiver", "destination", "recipient", "namedest", "target"},
		model.FieldAmount:        {"amount", "amountofmoney", "value", "sum", "amountoff"},
		model.FieldTimestamp:     {"timestamp", "date", "time", "datetime"},
		model.FieldTransactionID: {"transaction_id", "id", "tx_id", "txid"},
	}
}

// LoadAliasFile reads an alias table override from a YAML file. Fields
// absent from the file keep their built-in aliases, so deployments only
// declare the vocabularies they need to extend.
func LoadAliasFile(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}

	var overrides map[string][]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse alias file: %w", err)
	}

	table := DefaultAliases()
	for field, aliases := range overrides {
		if _, known := table[field]; !known {
			return nil, fmt.Errorf("alias file references unknown canonical field %q", field)
		}
		if len(aliases) > 0 {
			table[field] = aliases
		}
	}

	return table, nil
}

// normalizeLabel lower-cases a column label and strips spaces and
// underscores, matching how aliases are normalized before comparison
func normalizeLabel(label string) string {
	label = strings.ToLower(label)
	label = strings.ReplaceAll(label, " ", "")
	label = strings.ReplaceAll(label, "_", "")
	return label
}
