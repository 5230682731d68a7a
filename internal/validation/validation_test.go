package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBedName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase words", input: "north bed", expected: "North Bed"},
		{name: "leading and trailing whitespace", input: "  north bed  ", expected: "North Bed"},
		{name: "internal whitespace collapsed", input: "north    bed", expected: "North Bed"},
		{name: "mixed case", input: "nOrTh BeD", expected: "North Bed"},
		{name: "acronym preserved", input: "NE corner", expected: "NE Corner"},
		{name: "single uppercase letter not treated as acronym", input: "A plot", expected: "A Plot"},
		{name: "single word", input: "greenhouse", expected: "Greenhouse"},
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBedName(tt.input))
		})
	}
}

func TestNormalizeBedName_Idempotent(t *testing.T) {
	inputs := []string{"north bed", "NE corner", "  back   FENCE row "}
	for _, in := range inputs {
		once := NormalizeBedName(in)
		assert.Equal(t, once, NormalizeBedName(once), "normalizing %q twice should be stable", in)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("12345"))
	assert.NoError(t, ValidatePassword("123456"))
	assert.NoError(t, ValidatePassword("correct horse battery staple"))
}

func TestValidateEmail(t *testing.T) {
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("   "))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.NoError(t, ValidateEmail("gardener@example.com"))
	assert.NoError(t, ValidateEmail("  padded@example.com  "))
}

func TestValidateUsername(t *testing.T) {
	assert.Error(t, ValidateUsername(""))
	assert.Error(t, ValidateUsername("   "))
	assert.NoError(t, ValidateUsername("gardener42"))
}
