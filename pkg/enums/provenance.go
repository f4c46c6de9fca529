package enums

import "fmt"

// Provenance records where the current financial values of an order session
// came from. Values loaded from storage must not be silently recomputed; the
// tag is the single source of truth for that decision.
type Provenance string

const (
	ProvenanceInitial        Provenance = "INITIAL"
	ProvenanceUserInput      Provenance = "USER_INPUT"
	ProvenanceDatabaseValues Provenance = "DATABASE_VALUES"
)

var validProvenances = []Provenance{
	ProvenanceInitial,
	ProvenanceUserInput,
	ProvenanceDatabaseValues,
}

// IsValid reports whether the value matches the canonical provenance enum.
func (p Provenance) IsValid() bool {
	for _, candidate := range validProvenances {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProvenance converts the raw string to Provenance.
func ParseProvenance(value string) (Provenance, error) {
	for _, candidate := range validProvenances {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid provenance %q", value)
}
