package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tartampluch/go-cycle/internal/config"
)

// Calendar dates are represented as time.Time values at midnight UTC.
// DateOnly and Date produce that representation; every function below
// compares dates by calendar day, never by raw instant.

const hoursPerDay = 24

// Date builds a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOnly truncates t to its calendar day, keeping t's own year, month and day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// AddDays shifts a calendar date by n days.
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// IsSameDay reports whether a and b fall on the same calendar day, ignoring time of day.
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatDate renders the canonical YYYY-MM-DD form from the UTC calendar fields.
// Lexicographic order of the output matches chronological order.
func FormatDate(t time.Time) string {
	return t.UTC().Format(config.DateFormat)
}

// ParseDate parses a canonical YYYY-MM-DD string into a calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(config.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrDateParse, err)
	}
	return t, nil
}

// DaysBetween returns the absolute difference in whole days between a and b,
// rounded to the nearest day so that DST shifts never leak fractional days.
func DaysBetween(a, b time.Time) int {
	days := b.Sub(a).Hours() / hoursPerDay
	return int(math.Round(math.Abs(days)))
}

// AverageCycleLength returns the rounded mean gap in days between consecutive
// period starts. With fewer than two entries it returns config.DefaultCycleLength.
func AverageCycleLength(entries []PeriodEntry) int {
	if len(entries) < 2 {
		return config.DefaultCycleLength
	}

	starts := make([]time.Time, len(entries))
	for i, e := range entries {
		starts[i] = e.StartDate
	}
	sort.Slice(starts, func(i, j int) bool {
		return starts[i].Before(starts[j])
	})

	total := 0
	for i := 1; i < len(starts); i++ {
		total += DaysBetween(starts[i-1], starts[i])
	}

	avg := roundMean(total, len(starts)-1)
	if avg < 1 {
		// Only reachable when every entry shares one start date.
		return config.DefaultCycleLength
	}
	return avg
}

// AveragePeriodLength returns the rounded mean inclusive length of completed
// entries. Without completed entries it returns config.DefaultPeriodLength.
func AveragePeriodLength(entries []PeriodEntry) int {
	total, completed := 0, 0
	for _, e := range entries {
		if !e.Completed() {
			continue
		}
		total += DaysBetween(e.StartDate, *e.EndDate) + 1
		completed++
	}
	if completed == 0 {
		return config.DefaultPeriodLength
	}
	return roundMean(total, completed)
}

// LastPeriodStart returns the chronologically latest start date.
// The input order is irrelevant.
func LastPeriodStart(entries []PeriodEntry) (time.Time, bool) {
	if len(entries) == 0 {
		return time.Time{}, false
	}
	last := entries[0].StartDate
	for _, e := range entries[1:] {
		if e.StartDate.After(last) {
			last = e.StartDate
		}
	}
	return DateOnly(last), true
}

// PredictNextPeriods projects count period starts from the latest logged start,
// spaced by AverageCycleLength. The result is in ascending order and empty when
// entries is empty or count is not positive.
func PredictNextPeriods(entries []PeriodEntry, count int) []time.Time {
	last, ok := LastPeriodStart(entries)
	if !ok || count <= 0 {
		return []time.Time{}
	}

	cycle := AverageCycleLength(entries)
	predictions := make([]time.Time, 0, count)
	for i := 1; i <= count; i++ {
		predictions = append(predictions, last.AddDate(0, 0, cycle*i))
	}
	return predictions
}

// DaysUntilNextPeriod returns the day distance between today and the first
// predicted start. The second value is false when there is nothing to predict from.
// The distance is a magnitude: an overdue period reports the same number as one
// equally far ahead.
func DaysUntilNextPeriod(entries []PeriodEntry, today time.Time) (int, bool) {
	predictions := PredictNextPeriods(entries, 1)
	if len(predictions) == 0 {
		return 0, false
	}
	return DaysBetween(DateOnly(today), DateOnly(predictions[0])), true
}

// DaysSinceLastPeriod returns the day distance between the latest logged start and today.
func DaysSinceLastPeriod(entries []PeriodEntry, today time.Time) (int, bool) {
	last, ok := LastPeriodStart(entries)
	if !ok {
		return 0, false
	}
	return DaysBetween(last, DateOnly(today)), true
}

// IsDateInPeriod reports whether date lies inside any logged entry, inclusive.
func IsDateInPeriod(date time.Time, entries []PeriodEntry) bool {
	for _, e := range entries {
		if e.Contains(date) {
			return true
		}
	}
	return false
}

// IsDatePredicted reports whether date lies inside one of the next
// config.PredictionHorizon predicted windows. Each window spans
// AveragePeriodLength days from its predicted start.
func IsDatePredicted(date time.Time, entries []PeriodEntry) bool {
	predictions := PredictNextPeriods(entries, config.PredictionHorizon)
	if len(predictions) == 0 {
		return false
	}

	length := AveragePeriodLength(entries)
	day := DateOnly(date)
	for _, start := range predictions {
		end := start.AddDate(0, 0, length-1)
		if !day.Before(start) && !day.After(end) {
			return true
		}
	}
	return false
}

func roundMean(total, n int) int {
	return int(math.Round(float64(total) / float64(n)))
}
