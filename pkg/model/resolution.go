// pkg/model/resolution.go
package model

import (
	"time"
)

// ResolutionOperation records how a single canonical field was bound during
// schema resolution, or how a missing optional field was backfilled. These
// records feed the optional provenance audit store.
type ResolutionOperation struct {
	UploadID       string    // Upload session that triggered the resolution
	CanonicalField string    // Field that was bound or synthesized
	OriginalColumn string    // Source column label ("" when synthesized)
	Tier           string    // Resolution tier (e.g. "alias", "content")
	Detail         string    // Why this column qualified
	ResolvedAt     time.Time // When the binding happened
}

// Resolution tiers recorded in operations
const (
	TierAlias       = "alias"
	TierContent     = "content"
	TierPositional  = "positional"
	TierSynthesized = "synthesized"
)
