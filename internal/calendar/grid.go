package calendar

import (
	"fmt"
	"time"
)

// MonthView is the navigation anchor: a (year, month) pair always
// pinned to day 1. Stepping months never touches event data.
type MonthView struct {
	Year  int
	Month time.Month
}

// ViewOf anchors a view on the month containing t.
func ViewOf(t time.Time) MonthView {
	return MonthView{Year: t.Year(), Month: t.Month()}
}

// Prev re-anchors to day 1 of the previous month.
func (v MonthView) Prev() MonthView {
	t := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return MonthView{Year: t.Year(), Month: t.Month()}
}

// Next re-anchors to day 1 of the following month.
func (v MonthView) Next() MonthView {
	t := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return MonthView{Year: t.Year(), Month: t.Month()}
}

// Grid lays the viewed month out Sunday-first: Leading empty cells,
// then one cell per day. No bleed from adjacent months.
type Grid struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Leading int        `json:"leading"`
	Days    int        `json:"days"`
}

func (v MonthView) Grid() Grid {
	first := time.Date(v.Year, v.Month, 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of this one.
	last := time.Date(v.Year, v.Month+1, 0, 0, 0, 0, 0, time.UTC)
	return Grid{
		Year:    v.Year,
		Month:   v.Month,
		Leading: int(first.Weekday()),
		Days:    last.Day(),
	}
}

// Cell is one grid slot; Day 0 marks a leading blank.
type Cell struct {
	Day  int    `json:"day"`
	Date string `json:"date,omitempty"`
}

// Cells expands the grid into its cell sequence.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, g.Leading+g.Days)
	for i := 0; i < g.Leading; i++ {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= g.Days; day++ {
		cells = append(cells, Cell{Day: day, Date: DateString(g.Year, g.Month, day)})
	}
	return cells
}

// DateString builds the YYYY-MM-DD key by hand. Padding is part of the
// wire contract; a locale-aware formatter must not be substituted here.
func DateString(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}
