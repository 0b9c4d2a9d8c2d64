package usecase

import (
	"strings"
	"testing"
)

func TestNewQueryPreprocessor(t *testing.T) {
	t.Run("creates preprocessor with debug logging disabled", func(t *testing.T) {
		p := NewQueryPreprocessor(false, nil)
		if p.enableDebugLogging {
			t.Error("expected debug logging to be disabled")
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("creates preprocessor with debug logging enabled", func(t *testing.T) {
		p := NewQueryPreprocessor(true, nil)
		if !p.enableDebugLogging {
			t.Error("expected debug logging to be enabled")
		}
	})
}

func TestPreprocessQuery(t *testing.T) {
	p := NewQueryPreprocessor(false, nil)

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain name unchanged", input: "brown rice", want: "brown rice"},
		{name: "removes unit phrase and count", input: "2 slices of whole wheat bread", want: "whole wheat bread"},
		{name: "removes attached gram amount", input: "100g rice", want: "rice"},
		{name: "removes decimal kilograms", input: "1.5 kg potatoes", want: "potatoes"},
		{name: "removes trailing size after comma", input: "peanut butter, 2 tbsp", want: "peanut butter"},
		{name: "removes cup of", input: "cup of oats", want: "oats"},
		{name: "removes noise words and punctuation", input: "Fresh Apple!", want: "Apple"},
		{name: "removes articles and sizes", input: "a large banana", want: "banana"},
		{name: "keeps hyphenated words", input: "sugar-free yogurt", want: "sugar-free yogurt"},
		{name: "empty input", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "only noise", input: "the 2", want: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.PreprocessQuery(tc.input); got != tc.want {
				t.Errorf("PreprocessQuery(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}

	t.Run("truncates long queries at a word boundary", func(t *testing.T) {
		got := p.PreprocessQuery(strings.Repeat("chicken ", 20))
		want := strings.TrimSpace(strings.Repeat("chicken ", 12))
		if got != want {
			t.Errorf("PreprocessQuery() = %q, want %q", got, want)
		}
		if len(got) > maxQueryLength {
			t.Errorf("len = %d, want <= %d", len(got), maxQueryLength)
		}
	})
}
