package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bugghost-client/apperrors"
	"bugghost-client/internal/generation"
	"bugghost-client/internal/ui/components"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// Messages for failed team operations
const (
	teamsLoadFailedMessage  = "Failed to load teams"
	teamCreateFailedMessage = "Create failed"
	memberAddFailedMessage  = "Failed"
	memberAddedMessage      = "Added"
)

type teamsMode int

const (
	teamsModeList teamsMode = iota
	teamsModeCreate
	teamsModeAddMember
)

type TeamsModel struct {
	app  *appContext
	gen  *generation.Counter
	mode teamsMode

	list    list.Model
	loading bool
	errMsg  string

	nameInput textinput.Model
	userInput textinput.Model
	role      string
	memberFor *models.Team
	memberMsg string
}

type teamItem struct {
	team models.Team
}

func (i teamItem) FilterValue() string { return i.team.Name }
func (i teamItem) Title() string       { return i.team.Name }
func (i teamItem) Description() string { return i.team.ID }

type teamsLoadedMsg struct {
	seq   uint64
	teams []models.Team
	err   error
}

type teamCreatedMsg struct {
	err error
}

type memberAddedMsg struct {
	teamID string
	err    error
}

func loadTeams(app *appContext, seq uint64) tea.Cmd {
	return func() tea.Msg {
		teams, err := app.client.Teams.List(context.Background())
		return teamsLoadedMsg{seq: seq, teams: teams, err: err}
	}
}

func createTeam(app *appContext, name string) tea.Cmd {
	return func() tea.Msg {
		return teamCreatedMsg{err: app.client.Teams.Create(context.Background(), name)}
	}
}

func addMember(app *appContext, teamID, userID, role string) tea.Cmd {
	return func() tea.Msg {
		err := app.client.Teams.AddMember(context.Background(), teamID, userID, role)
		return memberAddedMsg{teamID: teamID, err: err}
	}
}

func newTextInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = 100
	input.Width = 50
	input.Prompt = "> "
	input.PromptStyle = components.ValueStyle.Foreground(components.ColorPrimary)
	return input
}

func NewTeamsModel(app *appContext) TeamsModel {
	width := app.width
	if width == 0 {
		width = 80
	}

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, 16)
	l.Title = "Teams"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return TeamsModel{
		app:       app,
		gen:       &generation.Counter{},
		list:      l,
		loading:   true,
		nameInput: newTextInput("New team name"),
		userInput: newTextInput("User ID"),
		role:      models.RoleMember,
	}
}

func (m TeamsModel) Init() tea.Cmd {
	return loadTeams(m.app, m.gen.Next())
}

func (m TeamsModel) reload() (TeamsModel, tea.Cmd) {
	m.loading = true
	return m, loadTeams(m.app, m.gen.Next())
}

func (m TeamsModel) Update(msg tea.Msg) (TeamsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, 16)
		return m, nil

	case teamsLoadedMsg:
		if !m.gen.Accept(msg.seq) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			utils.LogDebug("teams load failed: %v", msg.err)
			m.errMsg = apperrors.Message(msg.err, teamsLoadFailedMessage)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.teams))
		for _, t := range msg.teams {
			items = append(items, teamItem{team: t})
		}
		m.list.SetItems(items)
		return m, nil

	case teamCreatedMsg:
		if msg.err != nil {
			utils.LogDebug("team create failed: %v", msg.err)
			m.errMsg = apperrors.Message(msg.err, teamCreateFailedMessage)
			return m, nil
		}
		m.nameInput.SetValue("")
		return m.reload()

	case memberAddedMsg:
		if m.memberFor == nil || m.memberFor.ID != msg.teamID {
			return m, nil
		}
		if msg.err != nil {
			utils.LogDebug("add member to %s failed: %v", msg.teamID, msg.err)
			m.memberMsg = apperrors.Message(msg.err, memberAddFailedMessage)
			return m, nil
		}
		m.memberMsg = memberAddedMessage
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case teamsModeCreate:
			return m.updateCreate(msg)
		case teamsModeAddMember:
			return m.updateAddMember(msg)
		}

		switch msg.String() {
		case "esc", "q":
			return m, navigate(ViewMainMenu)
		case "c":
			m.mode = teamsModeCreate
			m.errMsg = ""
			return m, m.nameInput.Focus()
		case "r":
			m.errMsg = ""
			return m.reload()
		case "a", "enter":
			item, ok := m.list.SelectedItem().(teamItem)
			if !ok {
				return m, nil
			}
			team := item.team
			m.memberFor = &team
			m.memberMsg = ""
			m.role = models.RoleMember
			m.userInput.SetValue("")
			m.mode = teamsModeAddMember
			return m, m.userInput.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m TeamsModel) updateCreate(msg tea.KeyMsg) (TeamsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = teamsModeList
		m.nameInput.Blur()
		return m, nil
	case "enter":
		m.mode = teamsModeList
		m.nameInput.Blur()
		m.errMsg = ""
		return m, createTeam(m.app, strings.TrimSpace(m.nameInput.Value()))
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m TeamsModel) updateAddMember(msg tea.KeyMsg) (TeamsModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = teamsModeList
		m.memberFor = nil
		m.userInput.Blur()
		return m, nil
	case "tab":
		if m.role == models.RoleMember {
			m.role = models.RoleAdmin
		} else {
			m.role = models.RoleMember
		}
		return m, nil
	case "enter":
		m.memberMsg = ""
		return m, addMember(m.app, m.memberFor.ID, strings.TrimSpace(m.userInput.Value()), m.role)
	}

	var cmd tea.Cmd
	m.userInput, cmd = m.userInput.Update(msg)
	return m, cmd
}

func (m TeamsModel) View() string {
	var content strings.Builder
	content.WriteString(m.app.header() + "\n")

	switch m.mode {
	case teamsModeCreate:
		content.WriteString(components.SectionTitleStyle.Render("Create Team"))
		content.WriteString("\n")
		content.WriteString(components.ContainerStyle.Render(m.nameInput.View()))
		content.WriteString("\n")
		content.WriteString(components.HelpStyle.Render("Enter: Create • Esc: Cancel"))
		return content.String()

	case teamsModeAddMember:
		content.WriteString(components.SectionTitleStyle.Render(fmt.Sprintf("Add Member to %s", m.memberFor.Name)))
		content.WriteString("\n")
		content.WriteString(components.ContainerStyle.Render(m.userInput.View()))
		content.WriteString("\n")
		content.WriteString(components.RenderField("Role", m.role))
		if m.memberMsg != "" {
			content.WriteString(components.ContainerStyle.Render(m.memberMsg))
			content.WriteString("\n")
		}
		content.WriteString(components.HelpStyle.Render("Enter: Add • Tab: Toggle role • Esc: Back"))
		return content.String()
	}

	if m.errMsg != "" {
		content.WriteString(components.ErrorStyle.Render(m.errMsg))
		content.WriteString("\n")
	}

	if m.loading {
		content.WriteString(components.NotSetStyle.MarginLeft(2).Render("Loading teams..."))
		content.WriteString("\n")
		return content.String()
	}

	content.WriteString(m.list.View())
	content.WriteString("\n")
	content.WriteString(components.HelpStyle.Render("c: Create team • Enter/a: Add member • r: Refresh • Esc/q: Back"))

	return content.String()
}
