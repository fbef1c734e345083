package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"bugghost-client/internal/session"
	"bugghost-client/internal/ui/components"
	"bugghost-client/models"
)

type SessionsModel struct {
	app     *appContext
	loader  *session.ListLoader
	list    list.Model
	spinner spinner.Model
}

type sessionItem struct {
	s models.DebugSessionListItem
}

func (i sessionItem) FilterValue() string { return i.s.Language + " " + i.s.ErrorSnippet }
func (i sessionItem) Title() string {
	return fmt.Sprintf("%s · %s", i.s.Language, humanize.Time(i.s.CreatedAt.Time))
}
func (i sessionItem) Description() string {
	snippet := strings.ReplaceAll(i.s.ErrorSnippet, "\n", " ")
	if len(snippet) > 100 {
		snippet = snippet[:100] + "..."
	}
	return snippet
}

func statusColor(status models.SessionStatus) lipgloss.Color {
	switch status {
	case models.SessionCompleted:
		return components.ColorSuccess
	case models.SessionFailed:
		return components.ColorError
	default:
		return components.ColorWarning
	}
}

type sessionItemDelegate struct{}

func (d sessionItemDelegate) Height() int                             { return 2 }
func (d sessionItemDelegate) Spacing() int                            { return 1 }
func (d sessionItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d sessionItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(sessionItem)
	if !ok {
		return
	}

	var (
		titleStyle    = lipgloss.NewStyle().PaddingLeft(4)
		selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(components.ColorPrimary)
		descStyle     = lipgloss.NewStyle().PaddingLeft(4).Foreground(components.ColorHelp)
	)

	badge := components.Badge(string(i.s.Status), statusColor(i.s.Status))
	title := i.Title()
	desc := i.Description()

	if index == m.Index() {
		title = selectedStyle.Render("> "+title) + " " + badge
		desc = selectedStyle.Render("  " + desc)
	} else {
		title = titleStyle.Render(title) + " " + badge
		desc = descStyle.Render(desc)
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

type sessionsLoadedMsg struct {
	outcome session.ListOutcome
}

func loadSessions(loader *session.ListLoader) tea.Cmd {
	seq := loader.Begin()
	return func() tea.Msg {
		return sessionsLoadedMsg{outcome: loader.Call(context.Background(), seq)}
	}
}

func NewSessionsModel(app *appContext) SessionsModel {
	width := app.width
	if width == 0 {
		width = 80
	}

	l := list.New([]list.Item{}, sessionItemDelegate{}, width, 20)
	l.Title = "Debug Sessions"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SessionsModel{
		app:     app,
		loader:  session.NewListLoader(app.client.Sessions),
		list:    l,
		spinner: s,
	}
}

func (m SessionsModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadSessions(m.loader))
}

func (m SessionsModel) Update(msg tea.Msg) (SessionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, 20)
		return m, nil

	case sessionsLoadedMsg:
		if !m.loader.Complete(msg.outcome) {
			return m, nil
		}
		items := make([]list.Item, 0, len(m.loader.Items()))
		for _, s := range m.loader.Items() {
			items = append(items, sessionItem{s: s})
		}
		m.list.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if m.loader.State() != session.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch msg.String() {
		case "q":
			if !filtering {
				return m, navigate(ViewMainMenu)
			}
		case "r":
			if !filtering && m.loader.State() != session.StateLoading {
				return m, tea.Batch(m.spinner.Tick, loadSessions(m.loader))
			}
		case "n":
			if !filtering {
				return m, navigate(ViewSubmit)
			}
		case "enter":
			if !filtering && m.loader.State() == session.StateLoaded {
				if item, ok := m.list.SelectedItem().(sessionItem); ok {
					return m, func() tea.Msg {
						return openSessionMsg{id: item.s.ID}
					}
				}
				return m, nil
			}
		case "esc":
			if m.list.FilterState() == list.Filtering || m.list.FilterState() == list.FilterApplied {
				m.list.ResetFilter()
				return m, nil
			}
			return m, navigate(ViewMainMenu)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m SessionsModel) View() string {
	var content strings.Builder
	content.WriteString(m.app.header() + "\n")

	switch m.loader.State() {
	case session.StateLoading:
		content.WriteString(components.ContainerStyle.Render(m.spinner.View() + " Loading sessions..."))
		content.WriteString("\n")
		return content.String()

	case session.StateFailed:
		content.WriteString(components.ErrorStyle.Render(m.loader.Error()))
		content.WriteString("\n")
		content.WriteString(components.HelpStyle.Render("r: Retry • Esc/q: Back"))
		return content.String()

	case session.StateEmpty:
		content.WriteString(components.NotSetStyle.MarginLeft(2).Render("No sessions yet."))
		content.WriteString("\n")
		content.WriteString(components.HelpStyle.Render("n: New debug session • r: Refresh • Esc/q: Back"))
		return content.String()
	}

	content.WriteString(m.list.View())
	content.WriteString("\n")
	content.WriteString(components.HelpStyle.Render("Enter: Open • /: Filter • r: Refresh • n: New • Esc/q: Back"))

	return content.String()
}
