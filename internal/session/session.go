// Package session holds the editing workflow for a product's unavailable
// dates: load from a store, stage ranges, then commit or discard them.
//
// A Session does not serialise its store calls. Callers must not start a
// Load, Commit or RemoveCommittedRange while another one is still running.
// Staging edits may happen at any time, including during a Commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/julianstephens/blockout/internal/calendar"
	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/logger"
	"github.com/julianstephens/blockout/internal/models"
)

// Store is the backing collaborator. PersistUnavailableDates replaces the
// product's full date list; it is never a delta.
type Store interface {
	FetchUnavailableDates(ctx context.Context, productID string) ([]models.Day, error)
	PersistUnavailableDates(ctx context.Context, productID string, dates []models.Day, reason string) error
}

// ErrorKind is the last store failure recorded on a Session.
type ErrorKind string

const (
	NoError    ErrorKind = ""
	LoadFailed ErrorKind = "load_failed"
	SaveFailed ErrorKind = "save_failed"
)

var (
	ErrLoadFailed      = errors.New("failed to load unavailable dates")
	ErrSaveFailed      = errors.New("failed to save unavailable dates")
	ErrIndexOutOfRange = errors.New("pending range index out of range")
)

type Session struct {
	store     Store
	productID string

	mu        sync.Mutex
	committed models.DaySet
	pending   []models.DateRange
	loading   bool
	saving    bool
	errKind   ErrorKind
}

func New(store Store, productID string) *Session {
	if productID == "" {
		productID = constants.DefaultProductID
	}
	return &Session{
		store:     store,
		productID: productID,
		committed: models.NewDaySet(),
	}
}

func (s *Session) ProductID() string { return s.productID }

// Load replaces the committed dates with the store's current list. On failure
// the previously committed dates are kept.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	days, err := s.store.FetchUnavailableDates(ctx, s.productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.errKind = LoadFailed
		logger.Warn("Loading unavailable dates failed", "product", s.productID, "error", err)
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	s.committed = models.NewDaySet(days...)
	s.errKind = NoError
	logger.Debug("Loaded unavailable dates", "product", s.productID, "days", len(s.committed))
	return nil
}

// StagePendingRange queues r for the next Commit. Overlap with committed or
// other pending ranges is allowed; the union at commit time dedupes days.
func (s *Session) StagePendingRange(r models.DateRange) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, r)
	return nil
}

// UnstagePendingRange drops the pending range at index.
func (s *Session) UnstagePendingRange(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.pending) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.pending))
	}
	s.pending = append(s.pending[:index:index], s.pending[index+1:]...)
	return nil
}

// RemoveCommittedRange deletes the days of r from the committed set and writes
// the reduced set through to the store straight away.
func (s *Session) RemoveCommittedRange(ctx context.Context, r models.DateRange) error {
	s.mu.Lock()
	reduced, err := calendar.Subtract(s.committed, r)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.saving = true
	s.mu.Unlock()

	err = s.store.PersistUnavailableDates(ctx, s.productID, reduced.Sorted(), constants.RemovalReason)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errKind = SaveFailed
		logger.Warn("Removing range failed", "product", s.productID, "range", r, "error", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	s.committed = reduced
	s.errKind = NoError
	logger.Info("Removed range", "product", s.productID, "range", r, "remaining", len(reduced))
	return nil
}

// Commit writes committed ∪ pending to the store. Pending ranges are cleared
// only when the store accepts the write, so a failed save can be retried.
func (s *Session) Commit(ctx context.Context, reason string) error {
	s.mu.Lock()
	final, err := calendar.Union(s.committed, s.pending...)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	staged := slices.Clone(s.pending)
	s.saving = true
	s.mu.Unlock()

	err = s.store.PersistUnavailableDates(ctx, s.productID, final.Sorted(), reason)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.errKind = SaveFailed
		logger.Warn("Committing ranges failed", "product", s.productID, "pending", len(staged), "error", err)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	s.committed = final
	s.pending = remainingAfterCommit(s.pending, staged, final)
	s.errKind = NoError
	logger.Info("Committed ranges", "product", s.productID, "ranges", len(staged), "days", len(final), "reason", reason)
	return nil
}

// remainingAfterCommit returns what is still pending once staged has been
// written as final. The pending list may have been edited while the store
// call ran, so staged is only dropped as a prefix when it is still one;
// otherwise every range final does not fully cover stays pending.
func remainingAfterCommit(pending, staged []models.DateRange, final models.DaySet) []models.DateRange {
	var out []models.DateRange
	if len(pending) >= len(staged) && slices.Equal(pending[:len(staged)], staged) {
		out = slices.Clone(pending[len(staged):])
	} else {
		for _, r := range pending {
			if !covers(final, r) {
				out = append(out, r)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func covers(set models.DaySet, r models.DateRange) bool {
	days, err := calendar.ExpandRange(r.Start, r.End)
	if err != nil {
		return false
	}
	for _, d := range days {
		if !set.Has(d) {
			return false
		}
	}
	return true
}

// CommitRange stages r and commits immediately.
func (s *Session) CommitRange(ctx context.Context, r models.DateRange, reason string) error {
	if err := s.StagePendingRange(r); err != nil {
		return err
	}
	return s.Commit(ctx, reason)
}

// DiscardSession drops every pending range without touching the store.
func (s *Session) DiscardSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// CommittedDates returns the committed days in ascending order.
func (s *Session) CommittedDates() []models.Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Sorted()
}

// CommittedSet returns a copy of the committed days.
func (s *Session) CommittedSet() models.DaySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Clone()
}

// CommittedRanges returns the committed days grouped into maximal ranges.
func (s *Session) CommittedRanges() []models.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return calendar.ConsolidateSet(s.committed)
}

func (s *Session) PendingRanges() []models.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.DateRange, len(s.pending))
	copy(out, s.pending)
	return out
}

func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Busy reports whether a load or save is in flight. Destructive and save
// actions should be disabled while it is true.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading || s.saving
}

func (s *Session) Err() ErrorKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errKind
}
