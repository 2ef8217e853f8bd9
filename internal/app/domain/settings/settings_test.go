package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		matched bool
	}{
		{"en", "en", true},
		{"en-GB", "en", true},
		{"es", "es", true},
		{"es-MX", "es", true},
		{"fr", "en", false},
		{"garbage!!", "en", false},
		{"", "en", false},
	}
	for _, tt := range tests {
		got, matched := NormalizeLanguage(tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		assert.Equal(t, tt.matched, matched, "raw=%q", tt.raw)
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"es-MX,es;q=0.9,en;q=0.8", "es"},
		{"en-GB,en;q=0.9", "en"},
		{"fr-FR,fr;q=0.9", "en"},
		{"fr;q=0.9,es;q=0.8", "es"},
		{"", "en"},
		{";;;", "en"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchAcceptLanguage(tt.header), "header=%q", tt.header)
	}
}
