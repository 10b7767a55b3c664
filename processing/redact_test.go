package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactSevenDigitPattern(t *testing.T) {
	got := Redact("User 555-0199 accessed the dashboard")
	assert.Equal(t, "User [REDACTED] accessed the dashboard", got)
}

func TestRedactTenDigitPattern(t *testing.T) {
	got := Redact("Callback requested at 555-123-4567 today")
	assert.Equal(t, "Callback requested at [REDACTED] today", got)
}

func TestRedactMultipleOccurrences(t *testing.T) {
	got := Redact("555-0199 then 555-123-4567 then 555-0100")
	assert.Equal(t, "[REDACTED] then [REDACTED] then [REDACTED]", got)
}

func TestRedactIsIdempotent(t *testing.T) {
	once := Redact("User 555-0199 accessed the dashboard")
	twice := Redact(once)
	assert.Equal(t, once, twice)
}

func TestRedactLeavesNonMatchingTextAlone(t *testing.T) {
	cases := []string{
		"no digits here",
		"order id 12345678",
		"version 1.2.3-4567",
		"",
	}
	for _, in := range cases {
		assert.Equal(t, in, Redact(in))
	}
}
