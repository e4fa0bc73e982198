package engine

import "time"

// CalendarDay is the render state of one day cell.
type CalendarDay struct {
	Date        time.Time `json:"date"`
	IsToday     bool      `json:"is_today"`
	IsSelected  bool      `json:"is_selected"`
	IsPeriod    bool      `json:"is_period"`
	IsPredicted bool      `json:"is_predicted"`
}

// Month is a month grid starting on Sunday.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	// Leading is the number of blank cells before the 1st.
	Leading int           `json:"leading"`
	Days    []CalendarDay `json:"days"`
}

// BuildMonth classifies every day of the month containing month.
// Classification only goes through IsSameDay, IsDateInPeriod and IsDatePredicted.
func BuildMonth(month time.Time, entries []PeriodEntry, today time.Time, selected *time.Time) Month {
	y, m, _ := month.Date()
	first := Date(y, m, 1)
	last := first.AddDate(0, 1, -1)

	grid := Month{
		Year:    y,
		Month:   m,
		Leading: int(first.Weekday()),
		Days:    make([]CalendarDay, 0, last.Day()),
	}

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		grid.Days = append(grid.Days, CalendarDay{
			Date:        day,
			IsToday:     IsSameDay(day, today),
			IsSelected:  selected != nil && IsSameDay(day, *selected),
			IsPeriod:    IsDateInPeriod(day, entries),
			IsPredicted: IsDatePredicted(day, entries),
		})
	}
	return grid
}
