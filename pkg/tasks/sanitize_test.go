package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"zero width space", "Fix\u200bbug", "Fixbug"},
		{"zero width joiners", "a\u200c\u200db", "ab"},
		{"directional marks", "\u200eleft\u200f", "left"},
		{"bidi overrides", "\u202eevil\u202c text", "evil text"},
		{"isolates", "\u2066x\u2069", "x"},
		{"word joiner and invisible operators", "a\u2060\u2061\u2062\u2063\u2064b", "ab"},
		{"byte order mark", "\ufeffTitle", "Title"},
		{"interlinear annotations", "a\ufff9b\ufffac\ufffb", "abc"},
		{"soft hyphen is a format char", "co\u00adop", "coop"},
		{"ascii control", "bell\x07 tab\there", "bell tabhere"},
		{"surrounding whitespace", "  padded  ", "padded"},
		{"unicode letters survive", "  Écrire les tests 日本  ", "Écrire les tests 日本"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"Fix\u200bbug",
		" \u202e\u2066 nested \u2069\u202c ",
		"\ufeff\ufeff",
		"plain text",
		"\x00\x01mixed\u200b\t",
		"\xff\xfe invalid utf8",
	}

	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "input %q", in)
	}
}
