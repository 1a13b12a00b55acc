package main

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Ground", 12, "Ground"},
		{"Engineering Floor", 12, "Engineering~"},
		{"Étage supérieur", 8, "Étage s~"},
		{"総務部フロア", 4, "総務部~"},
		{"総務部", 3, "総務部"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		assert.Equal(t, tt.want, got, tt.in)
		assert.True(t, utf8.ValidString(got), tt.in)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.n, tt.in)
	}
}
