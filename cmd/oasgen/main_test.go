package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Typos within edit distance 2
		{"valiate", "validate"},
		{"validat", "validate"},
		{"vlidate", "validate"},
		{"conert", "convert"},
		{"convrt", "convert"},
		{"inspct", "inspect"},
		{"insepct", "inspect"},
		{"doc", "docs"},
		{"dcos", "docs"},
		{"mpc", "mcp"},
		{"versio", "version"},
		{"hep", "help"},

		// Too far - no suggestion (distance > 2)
		{"xyz", ""},
		{"foobar", ""},
		{"validatation", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, suggestCommand(tt.input))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("docs", "docs"))
	assert.Equal(t, 1, levenshtein("doc", "docs"))
	assert.Equal(t, 2, levenshtein("dcos", "docs"))
	assert.Equal(t, 4, levenshtein("", "docs"))
}

func TestRun_ExitCodes(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, 0, run(ctx, "version", nil))
	assert.Equal(t, 0, run(ctx, "validate", []string{"--help"}))
	assert.Equal(t, 1, run(ctx, "valiate", nil))
	assert.Equal(t, 1, run(ctx, "inspect", nil))
}
