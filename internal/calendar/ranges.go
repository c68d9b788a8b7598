// Package calendar converts between sets of unavailable days and the
// contiguous date ranges they form.
package calendar

import (
	"fmt"

	"github.com/julianstephens/blockout/internal/models"
)

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ExpandRange returns every day from start to end inclusive, in ascending order.
func ExpandRange(start, end models.Day) ([]models.Day, error) {
	r := models.DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	days := make([]models.Day, 0, RangeDayCount(r))
	for d := start; !d.After(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days, nil
}

// ExpandAll flattens the expansion of every range, in input order.
func ExpandAll(ranges []models.DateRange) ([]models.Day, error) {
	var days []models.Day
	for _, r := range ranges {
		expanded, err := ExpandRange(r.Start, r.End)
		if err != nil {
			return nil, err
		}
		days = append(days, expanded...)
	}
	return days, nil
}

// Consolidate groups days into the minimal list of maximal contiguous ranges,
// sorted by start. Duplicate days are ignored.
func Consolidate(days []models.Day) []models.DateRange {
	sorted := models.NewDaySet(days...).Sorted()
	if len(sorted) == 0 {
		return []models.DateRange{}
	}

	var ranges []models.DateRange
	current := models.SingleDay(sorted[0])
	for _, d := range sorted[1:] {
		if d == current.End.AddDays(1) {
			current.End = d
			continue
		}
		ranges = append(ranges, current)
		current = models.SingleDay(d)
	}
	return append(ranges, current)
}

// ConsolidateSet is Consolidate over a DaySet.
func ConsolidateSet(set models.DaySet) []models.DateRange {
	return Consolidate(set.Sorted())
}

// RangeDayCount returns the inclusive number of days in r.
func RangeDayCount(r models.DateRange) int {
	return r.Start.DaysUntil(r.End) + 1
}

// FormatRange renders r as "Jan 5, 2024 - Jan 7, 2024". Single-day ranges
// still print both ends.
func FormatRange(r models.DateRange) string {
	return formatDay(r.Start) + " - " + formatDay(r.End)
}

func formatDay(d models.Day) string {
	// hand-built Days may carry out-of-range fields
	d = models.NewDay(d.Year, d.Month, d.Day)
	return fmt.Sprintf("%s %d, %d", monthAbbrev[d.Month-1], d.Day, d.Year)
}

// Union returns base plus every day of the given ranges. base is not modified.
func Union(base models.DaySet, ranges ...models.DateRange) (models.DaySet, error) {
	days, err := ExpandAll(ranges)
	if err != nil {
		return nil, err
	}
	out := base.Clone()
	for _, d := range days {
		out.Add(d)
	}
	return out, nil
}

// Subtract returns base without the days of r. base is not modified.
func Subtract(base models.DaySet, r models.DateRange) (models.DaySet, error) {
	days, err := ExpandRange(r.Start, r.End)
	if err != nil {
		return nil, err
	}
	out := base.Clone()
	for _, d := range days {
		out.Remove(d)
	}
	return out, nil
}

// Views consolidates days and annotates each range with its label and
// day count.
func Views(days []models.Day) []models.RangeView {
	ranges := Consolidate(days)
	out := make([]models.RangeView, len(ranges))
	for i, r := range ranges {
		out[i] = models.RangeView{
			Start: r.Start,
			End:   r.End,
			Label: FormatRange(r),
			Days:  RangeDayCount(r),
		}
	}
	return out
}
