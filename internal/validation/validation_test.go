package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/blockout/internal/models"
)

func may(d int) models.Day { return models.NewDay(2024, time.May, d) }

func rng(a, b int) models.DateRange { return models.DateRange{Start: may(a), End: may(b)} }

func types(vr ValidationResult) []ConflictType {
	var out []ConflictType
	for _, c := range vr.Conflicts {
		out = append(out, c.Type)
	}
	return out
}

func TestValidateRanges(t *testing.T) {
	v := New(may(1))
	committed := models.NewDaySet(may(10), may(11), may(12))

	tests := []struct {
		name   string
		ranges []models.DateRange
		want   []ConflictType
		days   []int
	}{
		{"clean", []models.DateRange{rng(2, 4), rng(5, 6)}, nil, nil},
		{"overlap", []models.DateRange{rng(5, 8), rng(2, 6)}, []ConflictType{ConflictOverlappingRanges}, []int{2}},
		{"contained", []models.DateRange{rng(2, 9), rng(4, 4)}, []ConflictType{ConflictOverlappingRanges}, []int{1}},
		{"already blocked", []models.DateRange{rng(10, 12)}, []ConflictType{ConflictAlreadyBlocked}, []int{3}},
		{"partially blocked", []models.DateRange{rng(8, 10)}, []ConflictType{ConflictPartiallyBlocked}, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.ValidateRanges(tt.ranges, committed)
			if len(got.Conflicts) != len(tt.want) {
				t.Fatalf("conflicts = %v, want %v", types(got), tt.want)
			}
			for i, c := range got.Conflicts {
				if c.Type != tt.want[i] || c.Days != tt.days[i] {
					t.Errorf("conflict %d = %s/%d days, want %s/%d", i, c.Type, c.Days, tt.want[i], tt.days[i])
				}
			}
		})
	}
}

func TestValidateRangesPast(t *testing.T) {
	v := New(may(10))
	got := v.ValidateRanges([]models.DateRange{rng(1, 3), rng(8, 12), rng(10, 11)}, models.NewDaySet())

	if len(got.Conflicts) != 3 {
		t.Fatalf("conflicts = %v", types(got))
	}
	if got.Conflicts[0].Type != ConflictOverlappingRanges {
		t.Errorf("first conflict = %s", got.Conflicts[0].Type)
	}
	past := got.Conflicts[1:]
	if past[0].Days != 3 || !strings.HasSuffix(past[0].Description, "is in the past") {
		t.Errorf("fully past = %+v", past[0])
	}
	if past[1].Days != 2 || !strings.Contains(past[1].Description, "starts in the past") {
		t.Errorf("partly past = %+v", past[1])
	}
}

func TestValidateCommitted(t *testing.T) {
	v := New(may(10))
	got := v.ValidateCommitted(models.NewDaySet(may(1), may(2), may(20)))
	if len(got.Conflicts) != 1 || got.Conflicts[0].Ranges[0] != rng(1, 2) {
		t.Errorf("conflicts = %+v", got.Conflicts)
	}
}

func TestWithoutAndReport(t *testing.T) {
	vr := ValidationResult{Conflicts: []Conflict{
		{Type: ConflictPastDates, Description: "old"},
		{Type: ConflictAlreadyBlocked, Description: "dup"},
	}}

	filtered := vr.Without(ConflictPastDates)
	if len(filtered.Conflicts) != 1 || filtered.Conflicts[0].Description != "dup" {
		t.Errorf("Without = %+v", filtered.Conflicts)
	}
	if want := "Conflicts detected:\n- old\n- dup\n"; vr.FormatReport() != want {
		t.Errorf("report = %q", vr.FormatReport())
	}

	empty := ValidationResult{}
	if empty.FormatReport() != "No conflicts detected." {
		t.Errorf("empty report = %q", empty.FormatReport())
	}
}
