package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)

	dayStyle = lipgloss.NewStyle().Width(3).Align(lipgloss.Right)

	outsideDayStyle = dayStyle.Foreground(lipgloss.Color("238"))

	blockedDayStyle = dayStyle.
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("160"))

	pendingDayStyle = dayStyle.
			Foreground(lipgloss.Color("232")).
			Background(lipgloss.Color("214"))

	selectionDayStyle = dayStyle.
				Foreground(lipgloss.Color("232")).
				Background(lipgloss.Color("117"))

	cursorDayStyle = dayStyle.Reverse(true).Bold(true)

	todayDayStyle = dayStyle.Underline(true)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)
