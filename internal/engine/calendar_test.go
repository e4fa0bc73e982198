package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cycle/internal/engine"
)

func TestBuildMonth_Layout(t *testing.T) {
	// 2026-10-01 is a Thursday.
	grid := engine.BuildMonth(day(2026, 10, 15), nil, day(2026, 10, 19), nil)

	assert.Equal(t, 2026, grid.Year)
	assert.Equal(t, time.October, grid.Month)
	assert.Equal(t, 4, grid.Leading)
	require.Len(t, grid.Days, 31)
	assert.Equal(t, day(2026, 10, 1), grid.Days[0].Date)
	assert.True(t, grid.Days[18].IsToday)

	for i, d := range grid.Days {
		if i != 18 {
			assert.False(t, d.IsToday, d.Date)
		}
		assert.False(t, d.IsPeriod)
		assert.False(t, d.IsPredicted)
	}
}

func TestBuildMonth_LeapFebruary(t *testing.T) {
	grid := engine.BuildMonth(day(2024, 2, 1), nil, day(2024, 3, 1), nil)

	assert.Len(t, grid.Days, 29)
	assert.Equal(t, 4, grid.Leading) // Thursday
}

func TestBuildMonth_Classification(t *testing.T) {
	entries := []engine.PeriodEntry{closed("a", day(2026, 10, 5), day(2026, 10, 7))}
	selected := day(2026, 11, 20)

	october := engine.BuildMonth(day(2026, 10, 1), entries, day(2026, 10, 19), nil)
	for _, d := range october.Days {
		want := !d.Date.Before(day(2026, 10, 5)) && !d.Date.After(day(2026, 10, 7))
		assert.Equal(t, want, d.IsPeriod, d.Date)
		assert.False(t, d.IsPredicted, d.Date)
	}

	// 2026-11-01 is a Sunday; windows are Nov 2..4 and Nov 30..Dec 2.
	november := engine.BuildMonth(day(2026, 11, 1), entries, day(2026, 10, 19), &selected)
	assert.Equal(t, 0, november.Leading)
	for _, d := range november.Days {
		want := (!d.Date.Before(day(2026, 11, 2)) && !d.Date.After(day(2026, 11, 4))) || d.Date.Equal(day(2026, 11, 30))
		assert.Equal(t, want, d.IsPredicted, d.Date)
		assert.Equal(t, d.Date.Equal(selected), d.IsSelected, d.Date)
		assert.False(t, d.IsToday)
	}
}
