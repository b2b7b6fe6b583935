// Package normalize converts variant mentions into one canonical
// textual form so that differently written mentions can be compared.
package normalize

import "github.com/inodb/vibe-varnorm/internal/pattern"

// NormalizedVariant is the parsed and re-rendered form of one mention.
// Confidence reflects how certain the normalization is, independent of
// extraction confidence.
type NormalizedVariant struct {
	Original   string            `json:"original"`
	Normalized string            `json:"normalized"`
	Category   pattern.Category  `json:"category"`
	Confidence float64           `json:"confidence"`
	Components map[string]string `json:"components,omitempty"`
}

// Component keys.
const (
	KeyReference    = "reference"
	KeyPrefix       = "prefix"
	KeyStart        = "start"
	KeyEnd          = "end"
	KeyEdit         = "edit"
	KeyRef          = "ref"
	KeyAlt          = "alt"
	KeySequence     = "sequence"
	KeyChrom        = "chrom"
	KeyPosition     = "position"
	KeyNewAA        = "new_aa"
	KeyStopDistance = "stop_distance"
	KeyType         = "type"
	KeyBands        = "bands"
	KeyUnit         = "unit"
	KeyCount        = "count"
	KeyPredicted    = "predicted"
)

// Edit kinds stored under KeyEdit.
const (
	EditSubstitution = "substitution"
	EditDeletion     = "deletion"
	EditDuplication  = "duplication"
	EditInsertion    = "insertion"
	EditDelins       = "delins"
	EditInversion    = "inversion"
	EditIdentity     = "identity"
	EditUnknown      = "unknown"
	EditFrameshift   = "frameshift"
	EditExtension    = "extension"
	EditRepeat       = "repeat"
)

// Normalization confidences.
const (
	ConfidenceExact        = 1.0
	ConfidenceSubstitution = 0.95
	ConfidenceStructural   = 0.9
	ConfidenceUnparsed     = 0.1
)

// Understood reports whether a structural parser recognized the input.
func (v NormalizedVariant) Understood() bool {
	return v.Category != pattern.CategoryUnknown
}
