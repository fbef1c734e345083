package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	ColorPrimary = lipgloss.Color("#7D56F4")
	ColorText    = lipgloss.Color("#FAFAFA")
	ColorMuted   = lipgloss.Color("#888888")
	ColorHelp    = lipgloss.Color("#666666")
	ColorSuccess = lipgloss.Color("#04B575")
	ColorWarning = lipgloss.Color("#F5A623")
	ColorError   = lipgloss.Color("#FF5F87")
)

var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	NotSetStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorHelp).
			MarginTop(1).
			MarginLeft(2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			MarginLeft(2)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			MarginLeft(2)

	ContainerStyle = lipgloss.NewStyle().
			MarginLeft(2)

	SectionTitleStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				MarginLeft(2).
				MarginBottom(1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Padding(0, 1)
)

// Badge renders a short status label in the given color
func Badge(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#000000")).
		Background(color).
		Bold(true).
		Padding(0, 1).
		Render(text)
}

// RenderTabs renders labels as a tab bar with active highlighted
func RenderTabs(labels []string, active int) string {
	tabs := make([]string, len(labels))
	for i, l := range labels {
		if i == active {
			tabs[i] = activeTabStyle.Render(l)
		} else {
			tabs[i] = inactiveTabStyle.Render(l)
		}
	}
	return ContainerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// RenderField renders one "Label: value" row. An empty value shows "Not set".
func RenderField(label, value string) string {
	var b strings.Builder
	b.WriteString(ContainerStyle.Render(LabelStyle.Render(label + ":")))
	b.WriteString(" ")
	if value == "" {
		b.WriteString(NotSetStyle.Render("Not set"))
	} else {
		b.WriteString(ValueStyle.Render(value))
	}
	b.WriteString("\n")
	return b.String()
}
