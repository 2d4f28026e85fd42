package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCutoff(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		opts     Options
		expected time.Time
	}{
		{name: "no options", opts: Options{}, expected: Unbounded},
		{name: "all", opts: Options{All: true, Minutes: 30}, expected: Unbounded},
		{name: "minutes", opts: Options{Minutes: 30}, expected: now.Add(-30 * time.Minute)},
		{name: "hours", opts: Options{Hours: 3}, expected: now.Add(-3 * time.Hour)},
		{name: "minutes win over hours", opts: Options{Hours: 3, Minutes: 15}, expected: now.Add(-15 * time.Minute)},
		{name: "zero hours and minutes", opts: Options{Hours: 0, Minutes: 0}, expected: Unbounded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Cutoff(tt.opts, now))
		})
	}
}

func TestCutoff_ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, loc)

	got := Cutoff(Options{Minutes: 60}, now)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC), got)
}

func TestIsUnbounded(t *testing.T) {
	assert.True(t, IsUnbounded(Unbounded))
	assert.True(t, IsUnbounded(Cutoff(Options{All: true}, time.Now())))
	assert.False(t, IsUnbounded(Cutoff(Options{Minutes: 1}, time.Now())))
}
