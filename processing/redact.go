package worker

import "regexp"

// RedactionMarker replaces each detected sensitive sequence. It contains no
// digits, so redacted output never re-matches the detection pattern and the
// transform is idempotent.
const RedactionMarker = "[REDACTED]"

// phonePattern matches phone-number-like digit sequences: the 10-digit
// 555-123-4567 shape and the 7-digit 555-0199 shape. The 10-digit alternative
// comes first so the 7-digit shape cannot split a longer number in half.
var phonePattern = regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b|\b\d{3}-\d{4}\b`)

// Redact returns text with every phone-number-like sequence replaced by
// RedactionMarker. The input is never mutated.
func Redact(text string) string {
	return phonePattern.ReplaceAllString(text, RedactionMarker)
}
