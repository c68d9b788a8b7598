package validation

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/calendar"
	"github.com/julianstephens/blockout/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingRanges ConflictType = "overlapping_ranges"
	ConflictAlreadyBlocked    ConflictType = "already_blocked"
	ConflictPartiallyBlocked  ConflictType = "partially_blocked"
	ConflictPastDates         ConflictType = "past_dates"
)

// Conflict is one finding about a set of ranges. None of them stop a
// commit: overlapping days are deduplicated when the set is persisted.
type Conflict struct {
	Type        ConflictType
	Description string
	Ranges      []models.DateRange
	Days        int
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Without returns the result minus conflicts of the given types.
func (vr ValidationResult) Without(types ...ConflictType) ValidationResult {
	out := ValidationResult{Conflicts: []Conflict{}}
	for _, c := range vr.Conflicts {
		skip := false
		for _, t := range types {
			if c.Type == t {
				skip = true
				break
			}
		}
		if !skip {
			out.Conflicts = append(out.Conflicts, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks ranges against each other, the committed days and today.
type Validator struct {
	today models.Day
}

func New(today models.Day) *Validator {
	return &Validator{today: today}
}

// ValidateRanges checks ranges that are about to be staged.
func (v *Validator) ValidateRanges(ranges []models.DateRange, committed models.DaySet) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	sorted := make([]models.DateRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	// O(n²), but n is the handful of ranges on one command line
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			a, b := sorted[i], sorted[j]
			if b.Start.After(a.End) {
				break
			}
			shared := models.DateRange{Start: b.Start, End: minDay(a.End, b.End)}
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictOverlappingRanges,
				Description: fmt.Sprintf("%s overlaps %s (%s shared)",
					calendar.FormatRange(a), calendar.FormatRange(b), english.Plural(calendar.RangeDayCount(shared), "day", "")),
				Ranges: []models.DateRange{a, b},
				Days:   calendar.RangeDayCount(shared),
			})
		}
	}

	for _, r := range ranges {
		total := calendar.RangeDayCount(r)
		blocked := 0
		for d := r.Start; !d.After(r.End); d = d.AddDays(1) {
			if committed.Has(d) {
				blocked++
			}
		}
		switch {
		case blocked == total:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictAlreadyBlocked,
				Description: fmt.Sprintf("%s is already blocked", calendar.FormatRange(r)),
				Ranges:      []models.DateRange{r},
				Days:        blocked,
			})
		case blocked > 0:
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictPartiallyBlocked,
				Description: fmt.Sprintf("%s has %d of %d days already blocked", calendar.FormatRange(r), blocked, total),
				Ranges:      []models.DateRange{r},
				Days:        blocked,
			})
		}
	}

	result.Conflicts = append(result.Conflicts, v.pastConflicts(ranges)...)
	return result
}

// ValidateCommitted reports committed ranges that lie in the past.
func (v *Validator) ValidateCommitted(committed models.DaySet) ValidationResult {
	return ValidationResult{Conflicts: v.pastConflicts(calendar.ConsolidateSet(committed))}
}

func (v *Validator) pastConflicts(ranges []models.DateRange) []Conflict {
	var out []Conflict
	for _, r := range ranges {
		if !r.Start.Before(v.today) {
			continue
		}
		past := models.DateRange{Start: r.Start, End: minDay(r.End, v.today.AddDays(-1))}
		n := calendar.RangeDayCount(past)
		desc := fmt.Sprintf("%s is in the past", calendar.FormatRange(r))
		if past.End != r.End {
			desc = fmt.Sprintf("%s starts in the past (%s before today)", calendar.FormatRange(r), english.Plural(n, "day", ""))
		}
		out = append(out, Conflict{
			Type:        ConflictPastDates,
			Description: desc,
			Ranges:      []models.DateRange{r},
			Days:        n,
		})
	}
	return out
}

func minDay(a, b models.Day) models.Day {
	if b.Before(a) {
		return b
	}
	return a
}
