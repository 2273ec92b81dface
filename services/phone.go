package services

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is assumed for numbers without a country prefix
const DefaultPhoneRegion = "IN"

// NormalizePhone converts a raw phone string to E.164. Falls back to a
// digits-only form when the number cannot be parsed, so lookups still
// match identical raw inputs.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	num, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SamePhone reports whether two raw phone strings normalize to the same number
func SamePhone(a, b string) bool {
	na := NormalizePhone(a)
	return na != "" && na == NormalizePhone(b)
}
