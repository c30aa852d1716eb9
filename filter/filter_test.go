package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/splitstats/splitsio"
)

func testRun(id string, realtimeMS int64, attempts int64, program string) splitsio.Run {
	return splitsio.Run{
		ID:                 id,
		RealtimeDurationMS: realtimeMS,
		Attempts:           &attempts,
		Program:            program,
		DefaultTiming:      "real",
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{name: "empty expression", expression: ""},
		{name: "whitespace only", expression: "   "},
		{name: "syntax error", expression: "realtime_ms <"},
		{name: "non-boolean result", expression: "realtime_ms + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expression)
			var compErr *CompilationError
			require.ErrorAs(t, err, &compErr)
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		run        splitsio.Run
		want       bool
	}{
		{
			name:       "duration comparison",
			expression: "realtime_ms < minutes(25)",
			run:        testRun("a", 1440000, 10, "livesplit"),
			want:       true,
		},
		{
			name:       "duration comparison negative",
			expression: "realtime_ms < minutes(20)",
			run:        testRun("a", 1440000, 10, "livesplit"),
			want:       false,
		},
		{
			name:       "attempts threshold",
			expression: "attempts > 50",
			run:        testRun("b", 1000, 90, "livesplit"),
			want:       true,
		},
		{
			name:       "program match",
			expression: `program == "livesplit"`,
			run:        testRun("c", 1000, 1, "livesplit"),
			want:       true,
		},
		{
			name:       "contains helper is case-insensitive",
			expression: `contains(program, "LIVE")`,
			run:        testRun("d", 1000, 1, "livesplit"),
			want:       true,
		},
		{
			name:       "combined condition",
			expression: "realtime_ms < hours(1) && attempts > 5",
			run:        testRun("e", 1495000, 90, "livesplit"),
			want:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)
			got, err := f.Match(tt.run)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchOptionalFields(t *testing.T) {
	gametime := int64(1400000)
	withGametime := splitsio.Run{ID: "g", RealtimeDurationMS: 1500000, GametimeDurationMS: &gametime, Program: "livesplit"}
	withoutGametime := splitsio.Run{ID: "p", RealtimeDurationMS: 1500000, Program: "livesplit"}

	f, err := Compile("has_gametime && gametime_ms < realtime_ms")
	require.NoError(t, err)

	got, err := f.Match(withGametime)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = f.Match(withoutGametime)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestApply(t *testing.T) {
	runs := []splitsio.Run{
		testRun("a", 1000000, 10, "livesplit"),
		testRun("b", 2000000, 20, "urn"),
		testRun("c", 3000000, 30, "livesplit"),
	}

	f, err := Compile(`program == "livesplit"`)
	require.NoError(t, err)

	matched, err := f.Apply(runs)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "a", matched[0].ID)
	assert.Equal(t, "c", matched[1].ID)
}

func TestExpression(t *testing.T) {
	f, err := Compile("  attempts > 1  ")
	require.NoError(t, err)
	assert.Equal(t, "attempts > 1", f.Expression())
}
