package cmd

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFormatMS(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		want string
	}{
		{name: "under an hour", ms: 1495000, want: "24:55.0"},
		{name: "over an hour", ms: 3723400, want: "1:02:03.4"},
		{name: "zero", ms: 0, want: "0:00.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatMS(tt.ms))
		})
	}
}

func TestFormatOptionalMS(t *testing.T) {
	assert.Equal(t, "-", formatOptionalMS(nil))
	ms := int64(1495000)
	assert.Equal(t, "24:55.0", formatOptionalMS(&ms))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short string untouched", in: "sms", n: 10, want: "sms"},
		{name: "long string gets ellipsis", in: "Super Mario Sunshine", n: 10, want: "Super M..."},
		{name: "tiny budget", in: "sunshine", n: 2, want: "su"},
		{name: "multi-byte name cut on rune boundary", in: "ポケットモンスター 赤・緑", n: 8, want: "ポケットモ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
