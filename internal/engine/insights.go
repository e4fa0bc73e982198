package engine

import (
	"sort"
	"time"

	"github.com/tartampluch/go-cycle/internal/config"
)

// PredictedPeriod is one forecast window.
type PredictedPeriod struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	DaysAway int       `json:"days_away"`
}

// HistoryItem is a logged entry as shown in the statistics view.
type HistoryItem struct {
	ID     string    `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Length int       `json:"length"`
}

// Insights aggregates every derived value displayed by the statistics view.
type Insights struct {
	AverageCycleLength  int               `json:"average_cycle_length"`
	AveragePeriodLength int               `json:"average_period_length"`
	TotalPeriods        int               `json:"total_periods"`
	LastPeriodStart     *time.Time        `json:"last_period_start,omitempty"`
	DaysSinceLastPeriod *int              `json:"days_since_last_period,omitempty"`
	DaysUntilNext       *int              `json:"days_until_next_period,omitempty"`
	Predictions         []PredictedPeriod `json:"predictions"`
	History             []HistoryItem     `json:"history"`
}

// BuildInsights computes the statistics snapshot for entries as seen on today.
func BuildInsights(entries []PeriodEntry, today time.Time) Insights {
	today = DateOnly(today)
	periodLength := AveragePeriodLength(entries)

	in := Insights{
		AverageCycleLength:  AverageCycleLength(entries),
		AveragePeriodLength: periodLength,
		TotalPeriods:        len(entries),
		Predictions:         []PredictedPeriod{},
		History:             []HistoryItem{},
	}

	if last, ok := LastPeriodStart(entries); ok {
		since := DaysBetween(last, today)
		in.LastPeriodStart = &last
		in.DaysSinceLastPeriod = &since
	}
	if until, ok := DaysUntilNextPeriod(entries, today); ok {
		in.DaysUntilNext = &until
	}

	for _, start := range PredictNextPeriods(entries, config.PredictionHorizon) {
		in.Predictions = append(in.Predictions, PredictedPeriod{
			Start:    start,
			End:      start.AddDate(0, 0, periodLength-1),
			DaysAway: DaysBetween(today, start),
		})
	}

	sorted := cloneEntries(entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.After(sorted[j].StartDate)
	})
	if len(sorted) > config.HistoryLimit {
		sorted = sorted[:config.HistoryLimit]
	}
	for _, e := range sorted {
		in.History = append(in.History, HistoryItem{
			ID:     e.ID,
			Start:  DateOnly(e.StartDate),
			End:    DateOnly(e.End()),
			Length: e.Length(),
		})
	}

	return in
}
