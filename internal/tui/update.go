package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/calendar"
	"github.com/julianstephens/blockout/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.clampIndexes()
	m.syncBindings()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return nil

	case loadedMsg:
		m.activity = ""
		if msg.err == nil {
			m.status = fmt.Sprintf("Loaded %s", english.Plural(len(m.sess.CommittedDates()), "blocked day", ""))
		} else {
			m.status = ""
		}
		return nil

	case savedMsg:
		m.activity = ""
		if msg.err == nil {
			m.reason.Reset()
			m.status = fmt.Sprintf("Saved %s", english.Plural(msg.ranges, "range", ""))
		} else {
			m.status = ""
		}
		return nil

	case removedMsg:
		m.activity = ""
		if msg.err == nil {
			m.status = "Removed " + calendar.FormatRange(msg.r)
		} else {
			m.status = ""
		}
		return nil
	}

	switch m.state {
	case StateConfirmRemove:
		return m.updateConfirm(msg)
	case StateReason:
		return m.updateReason(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil

	case key.Matches(msg, m.keys.Tab):
		m.pane = (m.pane + 1) % 3
		m.followList()
		return nil

	case key.Matches(msg, m.keys.Reload):
		m.activity = "Loading…"
		return loadCmd(m.sess)

	case key.Matches(msg, m.keys.Save):
		m.activity = "Saving…"
		m.status = ""
		return saveCmd(m.sess, m.reasonText())

	case key.Matches(msg, m.keys.Discard):
		m.sess.DiscardSession()
		m.anchor = nil
		m.status = "Discarded pending ranges"
		return nil

	case key.Matches(msg, m.keys.Reason):
		m.state = StateReason
		return m.reason.Focus()

	case key.Matches(msg, m.keys.Cancel):
		m.anchor = nil
		m.status = ""
		return nil

	case key.Matches(msg, m.keys.PrevMonth):
		m.cursor = addMonths(m.cursor, -1)
		return nil

	case key.Matches(msg, m.keys.NextMonth):
		m.cursor = addMonths(m.cursor, 1)
		return nil

	case key.Matches(msg, m.keys.Today):
		m.cursor = m.today
		return nil
	}

	switch m.pane {
	case PaneCalendar:
		return m.handleCalendarKey(msg)
	case PanePending:
		return m.handlePendingKey(msg)
	case PaneCommitted:
		return m.handleCommittedKey(msg)
	}
	return nil
}

func (m *Model) handleCalendarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = m.cursor.AddDays(-1)
	case key.Matches(msg, m.keys.Right):
		m.cursor = m.cursor.AddDays(1)
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.cursor.AddDays(-7)
	case key.Matches(msg, m.keys.Down):
		m.cursor = m.cursor.AddDays(7)
	case key.Matches(msg, m.keys.Select):
		m.selectDay()
	}
	return nil
}

// selectDay anchors a new range at the cursor, or stages the range from
// the anchor to the cursor when one is already open.
func (m *Model) selectDay() {
	r, open := m.selection()
	if !open {
		anchor := m.cursor
		m.anchor = &anchor
		m.status = fmt.Sprintf("Range starts %s, move and press enter to finish", anchor)
		return
	}
	if m.busy() {
		m.status = "Busy, try again once the store call finishes"
		return
	}
	m.anchor = nil
	if err := m.sess.StagePendingRange(r); err != nil {
		m.status = err.Error()
		return
	}
	m.pendingIdx = len(m.sess.PendingRanges()) - 1
	m.status = fmt.Sprintf("Staged %s (%s)", calendar.FormatRange(r), english.Plural(calendar.RangeDayCount(r), "day", ""))
}

func (m *Model) handlePendingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.pendingIdx--
	case key.Matches(msg, m.keys.Down):
		m.pendingIdx++
	case key.Matches(msg, m.keys.Unstage):
		if err := m.sess.UnstagePendingRange(m.pendingIdx); err != nil {
			m.status = err.Error()
			return nil
		}
		m.status = "Unstaged range"
	}
	m.clampIndexes()
	m.followList()
	return nil
}

func (m *Model) handleCommittedKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.committedIdx--
	case key.Matches(msg, m.keys.Down):
		m.committedIdx++
	case key.Matches(msg, m.keys.Remove):
		return m.confirmRemove()
	}
	m.clampIndexes()
	m.followList()
	return nil
}

// followList moves the calendar to the range selected in the focused list.
func (m *Model) followList() {
	var ranges []models.DateRange
	idx := 0
	switch m.pane {
	case PanePending:
		ranges, idx = m.sess.PendingRanges(), m.pendingIdx
	case PaneCommitted:
		ranges, idx = m.sess.CommittedRanges(), m.committedIdx
	default:
		return
	}
	if idx >= 0 && idx < len(ranges) {
		m.cursor = ranges[idx].Start
	}
}

func (m *Model) confirmRemove() tea.Cmd {
	ranges := m.sess.CommittedRanges()
	if m.committedIdx < 0 || m.committedIdx >= len(ranges) {
		return nil
	}
	r := ranges[m.committedIdx]
	m.removeTarget = r
	m.confirmed = new(bool)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove %s?", calendar.FormatRange(r))).
				Description(fmt.Sprintf("%s will become available again. This is saved immediately.",
					english.Plural(calendar.RangeDayCount(r), "day", ""))).
				Affirmative("Remove").
				Negative("Cancel").
				Value(m.confirmed),
		),
	)
	m.state = StateConfirmRemove
	return m.form.Init()
}

func (m *Model) updateConfirm(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.closeForm()
		m.status = "Removal cancelled"
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		confirmed := m.confirmed != nil && *m.confirmed
		target := m.removeTarget
		m.closeForm()
		if !confirmed {
			m.status = "Removal cancelled"
			return nil
		}
		if m.busy() {
			return nil
		}
		m.activity = "Removing…"
		m.status = ""
		return removeCmd(m.sess, target)
	case huh.StateAborted:
		m.closeForm()
		m.status = "Removal cancelled"
		return nil
	}
	return cmd
}

func (m *Model) closeForm() {
	m.form = nil
	m.confirmed = nil
	m.state = StateBrowse
}

func (m *Model) updateReason(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc":
			m.reason.Blur()
			m.state = StateBrowse
			return nil
		}
	}
	var cmd tea.Cmd
	m.reason, cmd = m.reason.Update(msg)
	return cmd
}

// addMonths moves d by n months, clamping the day to the target month's
// length.
func addMonths(d models.Day, n int) models.Day {
	first := models.NewDay(d.Year, d.Month+time.Month(n), 1)
	last := models.NewDay(first.Year, first.Month+1, 0).Day
	return models.NewDay(first.Year, first.Month, min(d.Day, last))
}
