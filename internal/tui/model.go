package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/blockout/internal/models"
	"github.com/julianstephens/blockout/internal/session"
)

type SessionState int

const (
	StateBrowse SessionState = iota
	StateReason
	StateConfirmRemove
)

// Pane is the part of the screen that receives navigation keys.
type Pane int

const (
	PaneCalendar Pane = iota
	PanePending
	PaneCommitted
)

type Model struct {
	sess  *session.Session
	state SessionState
	pane  Pane
	keys  KeyMap
	help  help.Model

	cursor models.Day
	anchor *models.Day
	today  models.Day

	pendingIdx   int
	committedIdx int

	reason textinput.Model

	form          *huh.Form
	confirmed     *bool
	removeTarget  models.DateRange
	activity      string
	status        string
	width, height int
	quitting      bool
}

type loadedMsg struct{ err error }

type savedMsg struct {
	ranges int
	err    error
}

type removedMsg struct {
	r   models.DateRange
	err error
}

// NewModel builds the editor over s. The session is loaded by Init.
func NewModel(s *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "optional"
	ti.CharLimit = 200
	ti.Prompt = ""

	today := models.Today()
	m := Model{
		sess:   s,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		cursor: today,
		today:  today,
		reason: ti,

		// Init starts the first load
		activity: "Loading…",
	}
	m.syncBindings()
	return m
}

func (m Model) Init() tea.Cmd {
	return loadCmd(m.sess)
}

func loadCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: s.Load(context.Background())}
	}
}

func saveCmd(s *session.Session, reason string) tea.Cmd {
	staged := len(s.PendingRanges())
	return func() tea.Msg {
		return savedMsg{ranges: staged, err: s.Commit(context.Background(), reason)}
	}
}

func removeCmd(s *session.Session, r models.DateRange) tea.Cmd {
	return func() tea.Msg {
		return removedMsg{r: r, err: s.RemoveCommittedRange(context.Background(), r)}
	}
}

func (m Model) reasonText() string {
	return strings.TrimSpace(m.reason.Value())
}

// busy covers the gap between dispatching a command and the session
// flagging itself as loading or saving.
func (m Model) busy() bool {
	return m.activity != "" || m.sess.Busy()
}

// selection is the range between the anchor and the cursor, in order.
func (m Model) selection() (models.DateRange, bool) {
	if m.anchor == nil {
		return models.DateRange{}, false
	}
	start, end := *m.anchor, m.cursor
	if end.Before(start) {
		start, end = end, start
	}
	return models.DateRange{Start: start, End: end}, true
}

// syncBindings disables the keys whose actions are unavailable so help
// only advertises what works right now.
func (m *Model) syncBindings() {
	busy := m.busy()
	pending := len(m.sess.PendingRanges())
	m.keys.Save.SetEnabled(!busy && pending > 0)
	m.keys.Discard.SetEnabled(!busy && pending > 0)
	m.keys.Unstage.SetEnabled(!busy && m.pane == PanePending && pending > 0)
	m.keys.Remove.SetEnabled(!busy && m.pane == PaneCommitted && len(m.sess.CommittedRanges()) > 0)
	m.keys.Reload.SetEnabled(!busy)
	m.keys.Cancel.SetEnabled(m.anchor != nil)
}

func (m *Model) clampIndexes() {
	m.pendingIdx = clamp(m.pendingIdx, len(m.sess.PendingRanges()))
	m.committedIdx = clamp(m.committedIdx, len(m.sess.CommittedRanges()))
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
