package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"e164 passthrough", "+919876543210", "+919876543210"},
		{"national with spaces", "98765 43210", "+919876543210"},
		{"formatted with dashes", "+91-98765-43210", "+919876543210"},
		{"international us number", "+1 415 555 2671", "+14155552671"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"garbage falls back to digits", "ext. 12ab34", "1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.input))
		})
	}
}

func TestSamePhone(t *testing.T) {
	assert.True(t, SamePhone("+919876543210", "98765 43210"))
	assert.True(t, SamePhone("98765-43210", "9876543210"))
	assert.False(t, SamePhone("+919876543210", "+919876543211"))
	assert.False(t, SamePhone("", ""))
	assert.False(t, SamePhone("", "9876543210"))
}
