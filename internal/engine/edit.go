package engine

import "time"

// IDFunc produces identifiers for entries created by an edit.
type IDFunc func() string

// AddPeriodDay marks day as a period day and returns the new collection.
// A day adjacent to an entry extends it; a day bridging two entries merges them
// (the earlier entry keeps its ID); any other day becomes a new single-day entry.
// The input slice is never modified.
func AddPeriodDay(entries []PeriodEntry, day time.Time, newID IDFunc) []PeriodEntry {
	d := DateOnly(day)
	out := cloneEntries(entries)
	if IsDateInPeriod(d, out) {
		return out
	}

	extendEnd, extendStart := -1, -1
	for i, e := range out {
		if extendEnd < 0 && IsSameDay(AddDays(e.End(), 1), d) {
			extendEnd = i
		}
		if extendStart < 0 && IsSameDay(AddDays(e.StartDate, -1), d) {
			extendStart = i
		}
	}

	switch {
	case extendEnd >= 0 && extendStart >= 0:
		before, after := out[extendEnd], out[extendStart]
		out[extendEnd] = NewEntry(before.ID, before.StartDate, after.End())
		return append(out[:extendStart], out[extendStart+1:]...)

	case extendEnd >= 0:
		out[extendEnd].EndDate = &d
		return out

	case extendStart >= 0:
		end := out[extendStart].End()
		out[extendStart].StartDate = d
		out[extendStart].EndDate = &end
		return out
	}

	return append(out, NewEntry(newID(), d, d))
}

// RemovePeriodDay unmarks day and returns the new collection.
// Removing a boundary day shrinks the entry, removing the only day deletes it,
// and removing an interior day splits the entry in two: the first part keeps
// the ID and the second part gets a fresh one.
func RemovePeriodDay(entries []PeriodEntry, day time.Time, newID IDFunc) []PeriodEntry {
	d := DateOnly(day)
	out := make([]PeriodEntry, 0, len(entries)+1)

	for _, e := range cloneEntries(entries) {
		if !e.Contains(d) {
			out = append(out, e)
			continue
		}

		start, end := DateOnly(e.StartDate), DateOnly(e.End())
		switch {
		case IsSameDay(start, d) && IsSameDay(end, d):
			// single day: drop it
		case IsSameDay(start, d):
			out = append(out, NewEntry(e.ID, AddDays(start, 1), end))
		case IsSameDay(end, d):
			out = append(out, NewEntry(e.ID, start, AddDays(end, -1)))
		default:
			out = append(out,
				NewEntry(e.ID, start, AddDays(d, -1)),
				NewEntry(newID(), AddDays(d, 1), end),
			)
		}
	}
	return out
}

// TogglePeriodDay removes day when it is already logged and adds it otherwise.
// The boolean reports whether the day was added.
func TogglePeriodDay(entries []PeriodEntry, day time.Time, newID IDFunc) ([]PeriodEntry, bool) {
	if IsDateInPeriod(day, entries) {
		return RemovePeriodDay(entries, day, newID), false
	}
	return AddPeriodDay(entries, day, newID), true
}

// MergeEntries folds every day of imported into existing through AddPeriodDay,
// so the result keeps entries non-overlapping and non-adjacent.
func MergeEntries(existing, imported []PeriodEntry, newID IDFunc) []PeriodEntry {
	out := cloneEntries(existing)
	for _, e := range imported {
		end := DateOnly(e.End())
		for day := DateOnly(e.StartDate); !day.After(end); day = day.AddDate(0, 0, 1) {
			out = AddPeriodDay(out, day, newID)
		}
	}
	return out
}
