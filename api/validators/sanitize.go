package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the length. The cap is
// applied in runes so a truncated prescription number or name never ends in a
// broken multi-byte sequence. maxLen of zero means no cap.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 {
		return trimmed
	}
	runes := []rune(trimmed)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return trimmed
}
