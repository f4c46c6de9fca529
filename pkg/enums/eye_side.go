package enums

import "strings"

// EyeSide is the canonical side-of-body indicator for a prescription item.
type EyeSide string

const (
	EyeSideRight EyeSide = "Right"
	EyeSideLeft  EyeSide = "Left"
	EyeSideBoth  EyeSide = "Both"
)

var (
	rightEyeSynonyms = []string{"right", "r", "re", "od"}
	leftEyeSynonyms  = []string{"left", "l", "le", "os"}
)

// IsValid reports whether the value matches the canonical eye side enum.
func (e EyeSide) IsValid() bool {
	switch e {
	case EyeSideRight, EyeSideLeft, EyeSideBoth:
		return true
	}
	return false
}

// Storage returns the lowercase form persisted records use.
func (e EyeSide) Storage() string {
	return strings.ToLower(string(e))
}

// NormalizeEyeSide maps free-form side markers (clinical abbreviations
// included) onto the canonical enum. Unknown or empty input means Both.
func NormalizeEyeSide(value string) EyeSide {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, synonym := range rightEyeSynonyms {
		if normalized == synonym {
			return EyeSideRight
		}
	}
	for _, synonym := range leftEyeSynonyms {
		if normalized == synonym {
			return EyeSideLeft
		}
	}
	return EyeSideBoth
}
