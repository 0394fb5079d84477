package rag

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "lowercase and punctuation",
			in:   "The Court affirmed, reversed, and remanded.",
			want: []string{"the", "court", "affirmed", "reversed", "and", "remanded"},
		},
		{
			name: "possessive dropped",
			in:   "The court's reasoning followed O'Brien's brief.",
			want: []string{"the", "court", "reasoning", "followed", "o'brien", "brief"},
		},
		{
			name: "internal hyphen kept",
			in:   "A well-reasoned, fact-specific inquiry.",
			want: []string{"well-reasoned", "fact-specific", "inquiry"},
		},
		{
			name: "numbers and single letters dropped",
			in:   "Section 42 of part B applies in 2025.",
			want: []string{"section", "of", "part", "applies", "in"},
		},
		{
			name: "empty",
			in:   "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		if got := Tokenize(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: Tokenize(%q) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"the", true},
		{"of", true},
		{"would", true},
		{"custody", false},
		{"court", false},
	}
	for _, tt := range tests {
		if got := IsStopWord(tt.in); got != tt.want {
			t.Errorf("IsStopWord(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
