// Copyright (c) 2026 Vidora. All rights reserved.
// Author: eng@vidora.dev

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vidora/vidora/pkg/slug"
)

/*
TestFrom covers the normalization pipeline: lowercasing, accent stripping,
hyphenation, and edge cases.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Tech With Maria", "tech-with-maria"},
		{"accents", "Café Olé", "cafe-ole"},
		{"punctuation", "Go! Tips & Tricks?", "go-tips-tricks"},
		{"collapse_hyphens", "a -- b", "a-b"},
		{"trim_hyphens", "  hello  ", "hello"},
		{"digits_kept", "Top 10 Videos", "top-10-videos"},
		{"only_symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
