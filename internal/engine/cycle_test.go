package engine_test

import (
	"context"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-cycle/internal/config"
	"github.com/tartampluch/go-cycle/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks & Helpers
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.CalendarFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func day(year int, month time.Month, d int) time.Time {
	return engine.Date(year, month, d)
}

func closed(id string, start, end time.Time) engine.PeriodEntry {
	return engine.NewEntry(id, start, end)
}

func open(id string, start time.Time) engine.PeriodEntry {
	return engine.PeriodEntry{ID: id, StartDate: start}
}

// sequence returns an IDFunc yielding "id-1", "id-2", ...
func sequence() engine.IDFunc {
	n := 0
	return func() string {
		n++
		return "id-" + strconv.Itoa(n)
	}
}

// -----------------------------------------------------------------------------
// Date Helpers
// -----------------------------------------------------------------------------

func TestDateOnly_KeepsLocalCalendarDay(t *testing.T) {
	tz := time.FixedZone("UTC+10", 10*60*60)
	late := time.Date(2026, 3, 5, 23, 30, 0, 0, tz)

	got := engine.DateOnly(late)

	assert.Equal(t, day(2026, 3, 5), got)
	assert.Equal(t, "2026-03-05", engine.FormatDate(got))
}

func TestIsSameDay_IgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2026, 1, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 1, 10, 23, 59, 0, 0, time.UTC)

	assert.True(t, engine.IsSameDay(morning, evening))
	assert.False(t, engine.IsSameDay(morning, evening.AddDate(0, 0, 1)))
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"SameDay", day(2026, 1, 1), day(2026, 1, 1), 0},
		{"Forward", day(2026, 1, 1), day(2026, 1, 29), 28},
		{"Backward", day(2026, 1, 29), day(2026, 1, 1), 28},
		{"AcrossLeapDay", day(2024, 2, 28), day(2024, 3, 1), 2},
		{"AcrossYear", day(2025, 12, 31), day(2026, 1, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.DaysBetween(tt.a, tt.b))
		})
	}
}

func TestDaysBetween_DSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 2026-03-08 is 23 hours long in New York.
	before := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	after := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)

	assert.Equal(t, 2, engine.DaysBetween(before, after))
}

func TestDaysBetween_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		a := engine.Date(1950+rng.Intn(150), time.Month(1+rng.Intn(12)), 1+rng.Intn(28))
		b := engine.Date(1950+rng.Intn(150), time.Month(1+rng.Intn(12)), 1+rng.Intn(28))

		assert.Equal(t, engine.DaysBetween(a, b), engine.DaysBetween(b, a), "%s / %s",
			engine.FormatDate(a), engine.FormatDate(b))
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dates := []time.Time{day(2024, 2, 29), day(2000, 2, 29), day(1999, 12, 31)}
	for i := 0; i < 1000; i++ {
		dates = append(dates, engine.Date(1900+rng.Intn(300), time.Month(1+rng.Intn(12)), 1+rng.Intn(31)))
	}

	for _, d := range dates {
		s := engine.FormatDate(d)
		parsed, err := engine.ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, engine.DateOnly(d), parsed, s)
	}
}

func TestFormatDate_LexicographicOrderIsChronological(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	dates := make([]time.Time, 200)
	for i := range dates {
		dates[i] = engine.Date(1950+rng.Intn(150), time.Month(1+rng.Intn(12)), 1+rng.Intn(28))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for i := 1; i < len(dates); i++ {
		assert.LessOrEqual(t, engine.FormatDate(dates[i-1]), engine.FormatDate(dates[i]))
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "2026-13-01", "2025-02-29", "05/01/2026", "2026-1-5"} {
		_, err := engine.ParseDate(input)
		require.Error(t, err, input)
		assert.Contains(t, err.Error(), config.ErrDateParse)
	}
}

// -----------------------------------------------------------------------------
// Statistics
// -----------------------------------------------------------------------------

func TestAverageCycleLength(t *testing.T) {
	tests := []struct {
		name    string
		entries []engine.PeriodEntry
		want    int
	}{
		{"Empty", nil, config.DefaultCycleLength},
		{"SingleEntry", []engine.PeriodEntry{closed("a", day(2026, 1, 1), day(2026, 1, 5))}, config.DefaultCycleLength},
		{"RegularCycles", []engine.PeriodEntry{
			open("a", day(2026, 1, 1)),
			open("b", day(2026, 1, 29)),
			open("c", day(2026, 2, 26)),
		}, 28},
		{"UnsortedInput", []engine.PeriodEntry{
			open("c", day(2026, 2, 26)),
			open("a", day(2026, 1, 1)),
			open("b", day(2026, 1, 29)),
		}, 28},
		{"HalfRoundsUp", []engine.PeriodEntry{
			open("a", day(2026, 1, 1)),
			open("b", day(2026, 1, 31)), // 30
			open("c", day(2026, 3, 3)),  // 31
		}, 31},
		{"DuplicateStartsFallBack", []engine.PeriodEntry{
			open("a", day(2026, 1, 1)),
			open("b", day(2026, 1, 1)),
		}, config.DefaultCycleLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.AverageCycleLength(tt.entries))
		})
	}
}

func TestAveragePeriodLength(t *testing.T) {
	tests := []struct {
		name    string
		entries []engine.PeriodEntry
		want    int
	}{
		{"Empty", nil, config.DefaultPeriodLength},
		{"OnlyOpenEnded", []engine.PeriodEntry{open("a", day(2026, 1, 1))}, config.DefaultPeriodLength},
		{"InclusiveLength", []engine.PeriodEntry{closed("a", day(2026, 1, 1), day(2026, 1, 4))}, 4},
		{"HalfRoundsUp", []engine.PeriodEntry{
			closed("a", day(2026, 1, 1), day(2026, 1, 5)),  // 5
			closed("b", day(2026, 1, 29), day(2026, 2, 1)), // 4
		}, 5},
		{"IgnoresOpenEnded", []engine.PeriodEntry{
			closed("a", day(2026, 1, 1), day(2026, 1, 3)),
			open("b", day(2026, 1, 29)),
		}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.AveragePeriodLength(tt.entries))
		})
	}
}

func TestLastPeriodStart_OrderIndependent(t *testing.T) {
	entries := []engine.PeriodEntry{
		open("b", day(2026, 2, 1)),
		open("c", day(2026, 3, 1)),
		open("a", day(2026, 1, 1)),
	}

	last, ok := engine.LastPeriodStart(entries)
	require.True(t, ok)
	assert.Equal(t, day(2026, 3, 1), last)

	_, ok = engine.LastPeriodStart(nil)
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------
// Predictions
// -----------------------------------------------------------------------------

func TestPredictNextPeriods(t *testing.T) {
	entries := []engine.PeriodEntry{closed("a", day(2026, 1, 1), day(2026, 1, 5))}

	got := engine.PredictNextPeriods(entries, 3)

	assert.Equal(t, []time.Time{day(2026, 1, 29), day(2026, 2, 26), day(2026, 3, 26)}, got)
}

func TestPredictNextPeriods_UsesAverageCycle(t *testing.T) {
	entries := []engine.PeriodEntry{
		open("a", day(2026, 1, 1)),
		open("b", day(2026, 1, 31)),
	}

	got := engine.PredictNextPeriods(entries, 2)

	assert.Equal(t, []time.Time{day(2026, 3, 2), day(2026, 4, 1)}, got)
}

func TestPredictNextPeriods_Empty(t *testing.T) {
	entries := []engine.PeriodEntry{open("a", day(2026, 1, 1))}

	assert.NotNil(t, engine.PredictNextPeriods(nil, 3))
	assert.Empty(t, engine.PredictNextPeriods(nil, 3))
	assert.Empty(t, engine.PredictNextPeriods(entries, 0))
	assert.Empty(t, engine.PredictNextPeriods(entries, -1))
}

func TestPredictNextPeriods_OrderIndependent(t *testing.T) {
	sorted := []engine.PeriodEntry{
		closed("a", day(2026, 1, 3), day(2026, 1, 7)),
		closed("b", day(2026, 1, 30), day(2026, 2, 3)),
		open("c", day(2026, 3, 1)),
		closed("d", day(2026, 3, 27), day(2026, 3, 30)),
		closed("e", day(2026, 4, 26), day(2026, 5, 1)),
	}
	want := engine.PredictNextPeriods(sorted, 4)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		shuffled := make([]engine.PeriodEntry, len(sorted))
		copy(shuffled, sorted)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		assert.Equal(t, want, engine.PredictNextPeriods(shuffled, 4))
	}
}

func TestPredictNextPeriods_DoesNotMutateInput(t *testing.T) {
	entries := []engine.PeriodEntry{
		closed("b", day(2026, 2, 1), day(2026, 2, 4)),
		open("a", day(2026, 1, 2)),
	}
	snapshot := []engine.PeriodEntry{
		closed("b", day(2026, 2, 1), day(2026, 2, 4)),
		open("a", day(2026, 1, 2)),
	}

	_ = engine.PredictNextPeriods(entries, 3)

	assert.Equal(t, snapshot, entries)
}

// Two logged periods four weeks apart, as a user would enter them.
func TestCycle_TwoPeriodScenario(t *testing.T) {
	entries := []engine.PeriodEntry{
		closed("a", day(2024, 1, 1), day(2024, 1, 5)),
		closed("b", day(2024, 1, 29), day(2024, 2, 2)),
	}

	assert.Equal(t, 28, engine.AverageCycleLength(entries))
	assert.Equal(t, 5, engine.AveragePeriodLength(entries))

	var next []string
	for _, d := range engine.PredictNextPeriods(entries, 1) {
		next = append(next, engine.FormatDate(d))
	}
	assert.Equal(t, []string{"2024-02-26"}, next)
}

func TestDaysUntilNextPeriod(t *testing.T) {
	entries := []engine.PeriodEntry{closed("a", day(2026, 1, 1), day(2026, 1, 5))}

	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{"Ahead", day(2026, 1, 20), 9},
		{"OnTheDay", day(2026, 1, 29), 0},
		// An overdue period reports its distance, not a negative count.
		{"Overdue", day(2026, 2, 3), 5},
		{"TimeOfDayIgnored", time.Date(2026, 1, 20, 22, 0, 0, 0, time.UTC), 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.DaysUntilNextPeriod(entries, tt.today)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := engine.DaysUntilNextPeriod(nil, day(2026, 1, 20))
	assert.False(t, ok)
}

func TestDaysSinceLastPeriod(t *testing.T) {
	entries := []engine.PeriodEntry{
		closed("a", day(2026, 1, 1), day(2026, 1, 5)),
		closed("b", day(2026, 1, 29), day(2026, 2, 2)),
	}

	got, ok := engine.DaysSinceLastPeriod(entries, day(2026, 2, 10))
	require.True(t, ok)
	assert.Equal(t, 12, got)

	_, ok = engine.DaysSinceLastPeriod(nil, day(2026, 2, 10))
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------
// Day Classification
// -----------------------------------------------------------------------------

func TestIsDateInPeriod(t *testing.T) {
	entries := []engine.PeriodEntry{
		closed("a", day(2026, 1, 1), day(2026, 1, 5)),
		open("b", day(2026, 1, 29)),
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"FirstDay", day(2026, 1, 1), true},
		{"LastDay", day(2026, 1, 5), true},
		{"Inside", day(2026, 1, 3), true},
		{"DayAfter", day(2026, 1, 6), false},
		{"DayBefore", day(2025, 12, 31), false},
		{"OpenEndedStart", day(2026, 1, 29), true},
		{"OpenEndedCountsOneDay", day(2026, 1, 30), false},
		{"TimeOfDayIgnored", time.Date(2026, 1, 5, 18, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsDateInPeriod(tt.date, entries))
		})
	}
}

func TestIsDateInPeriod_NoEntries(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 100; i++ {
		d := engine.Date(1950+rng.Intn(150), time.Month(1+rng.Intn(12)), 1+rng.Intn(28))

		assert.False(t, engine.IsDateInPeriod(d, nil), engine.FormatDate(d))
		assert.False(t, engine.IsDateInPeriod(d, []engine.PeriodEntry{}), engine.FormatDate(d))
	}
}

func TestIsDatePredicted(t *testing.T) {
	entries := []engine.PeriodEntry{closed("a", day(2026, 1, 1), day(2026, 1, 5))}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"LoggedDay", day(2026, 1, 3), false},
		{"DayBeforeWindow", day(2026, 1, 28), false},
		{"FirstWindowStart", day(2026, 1, 29), true},
		{"FirstWindowEnd", day(2026, 2, 2), true},
		{"AfterFirstWindow", day(2026, 2, 3), false},
		{"ThirdWindow", day(2026, 3, 30), true},
		{"BeyondHorizon", day(2026, 4, 23), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsDatePredicted(tt.date, entries))
		})
	}

	assert.False(t, engine.IsDatePredicted(day(2026, 1, 29), nil))
}

func TestPeriodEntry_Length(t *testing.T) {
	assert.Equal(t, 1, open("a", day(2026, 1, 1)).Length())
	assert.Equal(t, 5, closed("a", day(2026, 1, 1), day(2026, 1, 5)).Length())
	assert.False(t, open("a", day(2026, 1, 1)).Completed())
	assert.True(t, closed("a", day(2026, 1, 1), day(2026, 1, 1)).Completed())
}

func TestNewEntryID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := engine.NewEntryID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
