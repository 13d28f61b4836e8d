package text_test

import (
	"testing"

	"github.com/kolotov/svahabot/internal/text"
)

func TestNormalizeLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "simple text",
			input:    "Ann",
			expected: "Ann",
		},
		{
			name:     "surrounding whitespace",
			input:    "  Ann  ",
			expected: "Ann",
		},
		{
			name:     "inner whitespace run",
			input:    "Ann \t  Lee",
			expected: "Ann Lee",
		},
		{
			name:     "newlines collapse to spaces",
			input:    "Ann\nLee",
			expected: "Ann Lee",
		},
		{
			name:     "non-breaking space",
			input:    "Ann Lee",
			expected: "Ann Lee",
		},
		{
			name:     "control characters dropped",
			input:    "An\x00n\x07",
			expected: "Ann",
		},
		{
			name:     "whitespace only",
			input:    " \t\n ",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := text.NormalizeLine(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeLine() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestNormalizeBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "single line",
			input:    "Love hiking",
			expected: "Love hiking",
		},
		{
			name:     "inner runs collapse per line",
			input:    "Love   hiking\nand    tea",
			expected: "Love hiking\nand tea",
		},
		{
			name:     "blank line runs shrink to one",
			input:    "First paragraph.\n\n\n\nSecond paragraph.",
			expected: "First paragraph.\n\nSecond paragraph.",
		},
		{
			name:     "leading blank lines dropped",
			input:    "\n\nLove hiking",
			expected: "Love hiking",
		},
		{
			name:     "trailing blank lines dropped",
			input:    "Love hiking\n\n\n",
			expected: "Love hiking",
		},
		{
			name:     "whitespace-only lines count as blank",
			input:    "a\n   \t\nb",
			expected: "a\n\nb",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := text.NormalizeBlock(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}
