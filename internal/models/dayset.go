package models

import "slices"

// DaySet is an unordered set of calendar days. Membership is by calendar value.
type DaySet map[Day]struct{}

func NewDaySet(days ...Day) DaySet {
	s := make(DaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s DaySet) Add(d Day)      { s[d] = struct{}{} }
func (s DaySet) Remove(d Day)   { delete(s, d) }
func (s DaySet) Len() int       { return len(s) }
func (s DaySet) Has(d Day) bool { _, ok := s[d]; return ok }

func (s DaySet) Clone() DaySet {
	c := make(DaySet, len(s))
	for d := range s {
		c[d] = struct{}{}
	}
	return c
}

// Union returns a new set holding the days of s and o.
func (s DaySet) Union(o DaySet) DaySet {
	u := s.Clone()
	for d := range o {
		u[d] = struct{}{}
	}
	return u
}

// Equal reports whether both sets hold exactly the same days.
func (s DaySet) Equal(o DaySet) bool {
	if len(s) != len(o) {
		return false
	}
	for d := range s {
		if !o.Has(d) {
			return false
		}
	}
	return true
}

// Sorted returns the days in ascending order.
func (s DaySet) Sorted() []Day {
	days := make([]Day, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	slices.SortFunc(days, Day.Compare)
	return days
}
