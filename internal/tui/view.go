package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/julianstephens/blockout/internal/calendar"
	apperrors "github.com/julianstephens/blockout/internal/errors"
	"github.com/julianstephens/blockout/internal/models"
)

var weekdays = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.viewCalendar(), " ", m.viewLists())

	var content string
	if m.state == StateConfirmRemove && m.form != nil {
		content = m.form.View()
	} else {
		content = m.viewReason()
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewBanner(),
		main,
		content,
		m.help.View(m.keys),
	))
}

func (m Model) viewHeader() string {
	return titleStyle.Render("blockout") + mutedStyle.Render("  product "+m.sess.ProductID())
}

// viewBanner shows the session's last failure, then any activity or status.
func (m Model) viewBanner() string {
	if msg := apperrors.UserMessage(m.sess.Err()); msg != "" {
		return dangerStyle.Render("✗ " + msg)
	}
	if m.activity != "" {
		return warningStyle.Render(m.activity)
	}
	return mutedStyle.Render(m.status)
}

func (m Model) viewCalendar() string {
	var b strings.Builder

	title := calendar.MonthTitle(m.cursor.Year, m.cursor.Month)
	b.WriteString(headerStyle.Width(7 * 3).Align(lipgloss.Center).Render(title))
	b.WriteString("\n")
	for _, w := range weekdays {
		b.WriteString(headerStyle.Inherit(dayStyle).Render(w))
	}
	b.WriteString("\n")

	pending := models.NewDaySet()
	if days, err := calendar.ExpandAll(m.sess.PendingRanges()); err == nil {
		pending = models.NewDaySet(days...)
	}
	sel, selecting := m.selection()

	grid := calendar.Month(m.cursor.Year, m.cursor.Month, m.sess.CommittedSet())
	for i, week := range grid {
		for _, cell := range week {
			label := fmt.Sprintf("%d", cell.Day.Day)
			b.WriteString(m.cellStyle(cell, pending, sel, selecting).Render(label))
		}
		if i < len(grid)-1 {
			b.WriteString("\n")
		}
	}

	style := paneStyle
	if m.pane == PaneCalendar {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func (m Model) cellStyle(cell calendar.Cell, pending models.DaySet, sel models.DateRange, selecting bool) lipgloss.Style {
	switch {
	case cell.Day == m.cursor:
		return cursorDayStyle
	case selecting && sel.Contains(cell.Day):
		return selectionDayStyle
	case !cell.InMonth:
		return outsideDayStyle
	case pending.Has(cell.Day):
		return pendingDayStyle
	case cell.Blocked:
		return blockedDayStyle
	case cell.Day == m.today:
		return todayDayStyle
	default:
		return dayStyle
	}
}

func (m Model) viewLists() string {
	pending := m.viewRangeList("Pending", m.sess.PendingRanges(), m.pendingIdx, m.pane == PanePending)
	committed := m.viewRangeList("Blocked", m.sess.CommittedRanges(), m.committedIdx, m.pane == PaneCommitted)
	return lipgloss.JoinVertical(lipgloss.Left, pending, committed)
}

func (m Model) viewRangeList(title string, ranges []models.DateRange, selected int, focused bool) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", title, len(ranges))))
	if len(ranges) == 0 {
		b.WriteString("\n" + mutedStyle.Render("  none"))
	}
	for i, r := range ranges {
		line := fmt.Sprintf("%s · %s", calendar.FormatRange(r), english.Plural(calendar.RangeDayCount(r), "day", ""))
		if focused && i == selected {
			b.WriteString("\n" + selectedItemStyle.Render("> "+line))
		} else {
			b.WriteString("\n  " + line)
		}
	}

	style := paneStyle
	if focused {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func (m Model) viewReason() string {
	label := headerStyle.Render("Reason: ")
	if m.state != StateReason && m.reason.Value() == "" {
		return label + mutedStyle.Render("none (press r to set)")
	}
	return label + m.reason.View()
}
