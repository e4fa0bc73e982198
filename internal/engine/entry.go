package engine

import (
	"time"

	"github.com/google/uuid"
)

// PeriodEntry is one logged run of consecutive period days.
type PeriodEntry struct {
	// ID is opaque and stable, unique within a collection and never reused.
	ID string

	// StartDate is the inclusive first day of the run.
	StartDate time.Time

	// EndDate is the inclusive last day. Nil means open-ended; the entry then
	// counts as a single day equal to StartDate.
	EndDate *time.Time
}

// End returns the effective inclusive last day of the entry.
func (e PeriodEntry) End() time.Time {
	if e.EndDate == nil {
		return e.StartDate
	}
	return *e.EndDate
}

// Completed reports whether the entry has an explicit end date.
func (e PeriodEntry) Completed() bool {
	return e.EndDate != nil
}

// Length returns the inclusive number of days covered by the entry.
func (e PeriodEntry) Length() int {
	return DaysBetween(e.StartDate, e.End()) + 1
}

// Contains reports whether day falls within [StartDate, End()] by calendar date.
func (e PeriodEntry) Contains(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(DateOnly(e.StartDate)) && !d.After(DateOnly(e.End()))
}

// NewEntry builds a closed entry covering [start, end].
func NewEntry(id string, start, end time.Time) PeriodEntry {
	s := DateOnly(start)
	e := DateOnly(end)
	return PeriodEntry{ID: id, StartDate: s, EndDate: &e}
}

// NewEntryID returns a time-ordered identifier (UUIDv7) for a new entry.
func NewEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source fails; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}

// cloneEntries copies the slice and the EndDate pointers so that callers
// can never observe mutations made on the copy.
func cloneEntries(entries []PeriodEntry) []PeriodEntry {
	out := make([]PeriodEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.EndDate != nil {
			end := *e.EndDate
			out[i].EndDate = &end
		}
	}
	return out
}
