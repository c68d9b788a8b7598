package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRange is returned when a range starts after it ends.
var ErrInvalidRange = errors.New("invalid range: start is after end")

// DateRange is an inclusive run of calendar days.
type DateRange struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// SingleDay returns the range covering only d.
func SingleDay(d Day) DateRange {
	return DateRange{Start: d, End: d}
}

// Validate checks Start <= End.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return fmt.Errorf("%w (%s > %s)", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

func (r DateRange) Contains(d Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// ParseRange parses "YYYY-MM-DD:YYYY-MM-DD" or a single "YYYY-MM-DD".
func ParseRange(s string) (DateRange, error) {
	startStr, endStr, found := strings.Cut(strings.TrimSpace(s), ":")
	start, err := ParseDay(startStr)
	if err != nil {
		return DateRange{}, err
	}
	end := start
	if found {
		if end, err = ParseDay(endStr); err != nil {
			return DateRange{}, err
		}
	}
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ChangeEntry records one full-replacement write of a product's unavailable dates.
type ChangeEntry struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Reason    string    `json:"reason,omitempty"`
	DayCount  int       `json:"day_count"`
	CreatedAt time.Time `json:"created_at"`
}
