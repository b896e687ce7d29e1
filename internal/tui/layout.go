package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pengelbrecht/twq/internal/item"
)

// Layout constants
const (
	minListHeight = 4
	chromeHeight  = 6 // header, input, status, footer and spacing
)

// Color palette
var (
	primaryColor   = lipgloss.Color("205") // Pink
	secondaryColor = lipgloss.Color("86")  // Cyan
	mutedColor     = lipgloss.Color("241") // Gray
	successColor   = lipgloss.Color("78")  // Green
	warningColor   = lipgloss.Color("214") // Orange
	errorColor     = lipgloss.Color("196") // Red
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	hintStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)
)

// Kind icons
var (
	iconTask   = lipgloss.NewStyle().Foreground(secondaryColor).Render("○")
	iconAction = lipgloss.NewStyle().Foreground(successColor).Render("▶")
	iconInfo   = lipgloss.NewStyle().Foreground(warningColor).Render("ℹ")
	iconError  = lipgloss.NewStyle().Foreground(errorColor).Render("✗")
)

func kindIcon(k item.Kind) string {
	switch k {
	case item.KindTask:
		return iconTask
	case item.KindAction:
		return iconAction
	case item.KindError:
		return iconError
	default:
		return iconInfo
	}
}

// renderHeader renders the title and the bound keywords.
func (m Model) renderHeader() string {
	left := titleStyle.Render("⚡ twq")
	right := hintStyle.Render(fmt.Sprintf("%s · %s · %s", m.keywords.Add, m.keywords.List, m.keywords.Annotate))

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}
	return fmt.Sprintf(" %s%*s%s", left, padding, "", right)
}

// renderInput renders the query line.
func (m Model) renderInput() string {
	style := inputStyle
	if m.width > 4 {
		style = style.Width(m.width - 4)
	}
	return style.Render(m.input.View())
}

// renderStatus renders the one-line state below the input.
func (m Model) renderStatus() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.running != "":
		return statusStyle.Render("running " + m.running + "…")
	case m.loading:
		return statusStyle.Render("…")
	case m.input.Value() != "" && len(m.results.Items()) == 0:
		return hintStyle.Padding(0, 1).Render("no matching keyword")
	default:
		return ""
	}
}

// renderFooter renders the key help.
func (m Model) renderFooter() string {
	return footerStyle.Render(m.help.View(m.keys))
}
