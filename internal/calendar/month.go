package calendar

import (
	"time"

	"github.com/julianstephens/blockout/internal/models"
)

// Cell is one square of a month grid.
type Cell struct {
	Day     models.Day
	InMonth bool
	Blocked bool
}

// Month builds a Sunday-first 6x7 grid for the given month. Leading and
// trailing cells belong to the neighbouring months.
func Month(year int, month time.Month, blocked models.DaySet) [][]Cell {
	first := models.NewDay(year, month, 1)
	offset := int(first.Time().Weekday())
	cursor := first.AddDays(-offset)

	grid := make([][]Cell, 6)
	for w := range grid {
		grid[w] = make([]Cell, 7)
		for i := range grid[w] {
			grid[w][i] = Cell{
				Day:     cursor,
				InMonth: cursor.Month == first.Month && cursor.Year == first.Year,
				Blocked: blocked.Has(cursor),
			}
			cursor = cursor.AddDays(1)
		}
	}
	return grid
}

// MonthTitle renders "Jan 2024".
func MonthTitle(year int, month time.Month) string {
	first := models.NewDay(year, month, 1)
	return monthAbbrev[first.Month-1] + " " + first.Time().Format("2006")
}
