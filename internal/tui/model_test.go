package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/blockout/internal/models"
	"github.com/julianstephens/blockout/internal/session"
)

type fakeStore struct {
	dates      []models.Day
	fetchErr   error
	persistErr error
	reasons    []string
}

func (f *fakeStore) FetchUnavailableDates(context.Context, string) ([]models.Day, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]models.Day(nil), f.dates...), nil
}

func (f *fakeStore) PersistUnavailableDates(_ context.Context, _ string, dates []models.Day, reason string) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.dates = append([]models.Day(nil), dates...)
	f.reasons = append(f.reasons, reason)
	return nil
}

func jan(d int) models.Day { return models.NewDay(2024, time.January, d) }

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// press sends keys in order and returns the command from the last one.
func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = send(m, keyMsg(k))
	}
	return m, cmd
}

// loaded returns a model whose initial load has completed.
func loaded(t *testing.T, store *fakeStore) Model {
	t.Helper()
	m := NewModel(session.New(store, "7"))
	if !m.busy() {
		t.Fatal("new model should be busy until the first load finishes")
	}
	m, _ = send(m, m.Init()())
	m.cursor = jan(10)
	return m
}

func TestInitialLoad(t *testing.T) {
	m := loaded(t, &fakeStore{dates: []models.Day{jan(1), jan(2), jan(5)}})

	if m.busy() {
		t.Error("model still busy after load")
	}
	if m.status != "Loaded 3 blocked days" {
		t.Errorf("status = %q", m.status)
	}
	if got := len(m.sess.CommittedRanges()); got != 2 {
		t.Errorf("committed ranges = %d, want 2", got)
	}
}

func TestLoadFailureShowsBanner(t *testing.T) {
	m := loaded(t, &fakeStore{fetchErr: errors.New("boom")})

	if !strings.Contains(m.View(), "Failed to load dates.") {
		t.Errorf("view missing load failure banner:\n%s", m.View())
	}
}

func TestSelectRange(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want models.DateRange
	}{
		{"forward", []string{"enter", "right", "right", "enter"}, models.DateRange{Start: jan(10), End: jan(12)}},
		{"backward", []string{"enter", "left", "k", "enter"}, models.DateRange{Start: jan(2), End: jan(10)}},
		{"single day", []string{" ", " "}, models.DateRange{Start: jan(10), End: jan(10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := loaded(t, &fakeStore{})
			m, _ = press(m, tt.keys...)

			pending := m.sess.PendingRanges()
			if len(pending) != 1 || pending[0] != tt.want {
				t.Fatalf("pending = %v, want [%v]", pending, tt.want)
			}
			if m.anchor != nil {
				t.Error("anchor should be cleared after staging")
			}
		})
	}
}

func TestCancelSelection(t *testing.T) {
	m := loaded(t, &fakeStore{})
	m, _ = press(m, "enter", "right", "esc", "enter")

	if len(m.sess.PendingRanges()) != 0 {
		t.Errorf("pending = %v, want none", m.sess.PendingRanges())
	}
	if m.anchor == nil || *m.anchor != jan(11) {
		t.Errorf("anchor = %v, want a fresh anchor on Jan 11", m.anchor)
	}
}

func TestSaveCommitsPending(t *testing.T) {
	store := &fakeStore{dates: []models.Day{jan(1)}}
	m := loaded(t, store)
	m, _ = press(m, "enter", "right", "enter")

	m, _ = press(m, "r")
	if m.state != StateReason {
		t.Fatalf("state = %v, want StateReason", m.state)
	}
	m, _ = press(m, "v", "a", "c", "enter")

	m, cmd := press(m, "s")
	if cmd == nil {
		t.Fatal("save produced no command")
	}
	if !m.busy() {
		t.Error("model should be busy while saving")
	}
	m, _ = send(m, cmd())

	if len(m.sess.PendingRanges()) != 0 {
		t.Errorf("pending not cleared: %v", m.sess.PendingRanges())
	}
	if len(store.dates) != 3 {
		t.Errorf("stored %v, want 3 days", store.dates)
	}
	if len(store.reasons) != 1 || store.reasons[0] != "vac" {
		t.Errorf("reasons = %v, want [vac]", store.reasons)
	}
	if m.reason.Value() != "" {
		t.Errorf("reason not reset: %q", m.reason.Value())
	}
	if m.status != "Saved 1 range" {
		t.Errorf("status = %q", m.status)
	}
}

func TestSaveFailureKeepsPending(t *testing.T) {
	store := &fakeStore{persistErr: errors.New("disk full")}
	m := loaded(t, store)
	m, _ = press(m, "enter", "enter")

	m, cmd := press(m, "s")
	m, _ = send(m, cmd())

	if len(m.sess.PendingRanges()) != 1 {
		t.Errorf("pending = %v, want the staged range kept", m.sess.PendingRanges())
	}
	if !strings.Contains(m.View(), "Failed to save dates.") {
		t.Error("view missing save failure banner")
	}
}

func TestSaveDisabled(t *testing.T) {
	m := loaded(t, &fakeStore{})

	if _, cmd := press(m, "s"); cmd != nil {
		t.Error("save with nothing pending should do nothing")
	}

	m, _ = press(m, "enter", "enter")
	m.activity = "Loading…"
	m.syncBindings()
	if _, cmd := press(m, "s"); cmd != nil {
		t.Error("save should be disabled while busy")
	}
}

func TestUnstageAndDiscard(t *testing.T) {
	m := loaded(t, &fakeStore{})
	m, _ = press(m, "enter", "enter", "right", "right", "enter", "enter")
	if got := len(m.sess.PendingRanges()); got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}

	m, _ = press(m, "tab", "x")
	pending := m.sess.PendingRanges()
	if len(pending) != 1 || pending[0].Start != jan(10) {
		t.Fatalf("pending after unstage = %v", pending)
	}

	m, _ = press(m, "u")
	if len(m.sess.PendingRanges()) != 0 {
		t.Errorf("pending after discard = %v", m.sess.PendingRanges())
	}
}

func TestPendingEditsDisabledWhileBusy(t *testing.T) {
	m := loaded(t, &fakeStore{})
	m, _ = press(m, "enter", "enter", "right", "right", "enter", "enter", "tab")
	m.activity = "Saving…"
	m.syncBindings()

	m, _ = press(m, "u", "x")
	if got := len(m.sess.PendingRanges()); got != 2 {
		t.Fatalf("pending = %d, want 2 while saving", got)
	}

	m, _ = press(m, "tab", "tab", "enter", "right", "enter")
	if got := len(m.sess.PendingRanges()); got != 2 {
		t.Errorf("pending = %d, staging should wait for the save", got)
	}
	if m.anchor == nil {
		t.Error("selection anchor should survive a refused stage")
	}
}

func TestRemoveCommitted(t *testing.T) {
	store := &fakeStore{dates: []models.Day{jan(1), jan(2), jan(20)}}
	m := loaded(t, store)

	m, _ = press(m, "tab", "tab", "down")
	if m.cursor != jan(20) {
		t.Errorf("cursor = %v, want it to follow the selected range", m.cursor)
	}

	m, _ = press(m, "d")
	if m.state != StateConfirmRemove || m.form == nil {
		t.Fatalf("state = %v, want confirmation form", m.state)
	}
	if m.removeTarget != models.SingleDay(jan(20)) {
		t.Errorf("target = %v", m.removeTarget)
	}

	m, _ = press(m, "esc")
	if m.state != StateBrowse {
		t.Fatalf("esc should close the form, state = %v", m.state)
	}
	if len(store.reasons) != 0 {
		t.Fatal("store written despite cancellation")
	}

	m.activity = "Removing…"
	m, _ = send(m, removeCmd(m.sess, models.SingleDay(jan(20)))())
	if m.busy() {
		t.Error("still busy after removal")
	}
	if len(store.dates) != 2 || store.reasons[0] != "Updated after removal" {
		t.Errorf("store = %v %v", store.dates, store.reasons)
	}
	if m.committedIdx != 0 {
		t.Errorf("committed index = %d, want clamped to 0", m.committedIdx)
	}
}

func TestRemoveDisabledWhileBusy(t *testing.T) {
	m := loaded(t, &fakeStore{dates: []models.Day{jan(1)}})
	m, _ = press(m, "tab", "tab")
	m.activity = "Saving…"
	m.syncBindings()

	m, _ = press(m, "d")
	if m.state != StateBrowse {
		t.Error("remove should be disabled while busy")
	}
}

func TestMonthNavigation(t *testing.T) {
	m := loaded(t, &fakeStore{})
	m.cursor = jan(31)

	m, _ = press(m, "]")
	if want := models.NewDay(2024, time.February, 29); m.cursor != want {
		t.Errorf("next month = %v, want %v", m.cursor, want)
	}
	m, _ = press(m, "[", "[")
	if want := models.NewDay(2023, time.December, 29); m.cursor != want {
		t.Errorf("two months back = %v, want %v", m.cursor, want)
	}
	m, _ = press(m, "t")
	if m.cursor != m.today {
		t.Errorf("today = %v, want %v", m.cursor, m.today)
	}
}

func TestQuit(t *testing.T) {
	m := loaded(t, &fakeStore{})
	m, cmd := press(m, "q")
	if !m.quitting || cmd == nil {
		t.Fatal("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
