package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	bugghost "bugghost-client"
	"bugghost-client/internal/auth"
	"bugghost-client/internal/config"
	"bugghost-client/internal/ui/components"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

type ViewState int

const (
	ViewMainMenu ViewState = iota
	ViewSubmit
	ViewSessions
	ViewSessionDetail
	ViewSandbox
	ViewTeams
	ViewLogin
	ViewConfig
)

func (v ViewState) String() string {
	switch v {
	case ViewMainMenu:
		return "main menu"
	case ViewSubmit:
		return "new session"
	case ViewSessions:
		return "sessions"
	case ViewSessionDetail:
		return "session detail"
	case ViewSandbox:
		return "sandbox"
	case ViewTeams:
		return "teams"
	case ViewLogin:
		return "login"
	case ViewConfig:
		return "config"
	default:
		return fmt.Sprintf("view %d", int(v))
	}
}

type NavigateMsg struct {
	view ViewState
}

type openSessionMsg struct {
	id string
}

func navigate(v ViewState) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{view: v}
	}
}

// appContext is shared by every view
type appContext struct {
	client   *bugghost.Client
	settings config.Settings
	store    *auth.Store
	width    int
	height   int
}

func (a *appContext) user() *models.AuthenticatedUser {
	if u, ok := a.store.User(); ok {
		return &u
	}
	return nil
}

func (a *appContext) header() string {
	return components.RenderHeader(a.settings.APIURL, a.user())
}

type Model struct {
	app         *appContext
	currentView ViewState

	mainMenu      MainMenuModel
	submit        SubmitModel
	sessions      SessionsModel
	sessionDetail SessionDetailModel
	sandbox       SandboxModel
	teams         TeamsModel
	login         LoginModel
	config        ConfigModel

	// detailID is the session the detail view was opened for, kept so a
	// crashed detail view can be mounted again
	detailID string

	crashed  bool
	quitting bool
}

func newModel(app *appContext) Model {
	return Model{
		app:         app,
		currentView: ViewMainMenu,
		mainMenu:    NewMainMenuModel(app),
	}
}

func (m Model) Init() tea.Cmd {
	return m.mainMenu.Init()
}

// mount builds a fresh instance of view v and returns its Init command.
func (m *Model) mount(v ViewState) tea.Cmd {
	// the previous login view may still hold the callback port
	m.login.close()

	m.currentView = v
	m.crashed = false

	switch v {
	case ViewMainMenu:
		m.mainMenu = NewMainMenuModel(m.app)
		return m.mainMenu.Init()
	case ViewSubmit:
		m.submit = NewSubmitModel(m.app)
		return m.submit.Init()
	case ViewSessions:
		m.sessions = NewSessionsModel(m.app)
		return m.sessions.Init()
	case ViewSessionDetail:
		m.sessionDetail = NewSessionDetailModel(m.app, m.detailID)
		return m.sessionDetail.Init()
	case ViewSandbox:
		m.sandbox = NewSandboxModel(m.app)
		return m.sandbox.Init()
	case ViewTeams:
		m.teams = NewTeamsModel(m.app)
		return m.teams.Init()
	case ViewLogin:
		m.login = NewLoginModel(m.app)
		return m.login.Init()
	case ViewConfig:
		m.config = NewConfigModel(m.app)
		return m.config.Init()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (result tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogDebug("%s view panicked: %v\n%s", m.currentView, r, debug.Stack())
			m.crashed = true
			result, cmd = m, nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.app.width = msg.Width
		m.app.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.login.close()
			m.quitting = true
			return m, tea.Quit
		}
		if m.crashed {
			switch msg.String() {
			case "r":
				utils.LogDebug("retrying %s view", m.currentView)
				return m, m.mount(m.currentView)
			case "esc", "q":
				return m, m.mount(ViewMainMenu)
			}
			return m, nil
		}

	case NavigateMsg:
		return m, m.mount(msg.view)

	case openSessionMsg:
		m.detailID = msg.id
		return m, m.mount(ViewSessionDetail)
	}

	if m.crashed {
		return m, nil
	}

	// Route updates to current view
	switch m.currentView {
	case ViewMainMenu:
		m.mainMenu, cmd = m.mainMenu.Update(msg)
	case ViewSubmit:
		m.submit, cmd = m.submit.Update(msg)
	case ViewSessions:
		m.sessions, cmd = m.sessions.Update(msg)
	case ViewSessionDetail:
		m.sessionDetail, cmd = m.sessionDetail.Update(msg)
	case ViewSandbox:
		m.sandbox, cmd = m.sandbox.Update(msg)
	case ViewTeams:
		m.teams, cmd = m.teams.Update(msg)
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewConfig:
		m.config, cmd = m.config.Update(msg)
	}

	return m, cmd
}

func (m Model) View() (out string) {
	if m.quitting {
		return "bye!\n"
	}
	if m.crashed {
		return m.crashView()
	}

	defer func() {
		if r := recover(); r != nil {
			utils.LogDebug("%s view failed to render: %v\n%s", m.currentView, r, debug.Stack())
			out = m.crashView()
		}
	}()

	switch m.currentView {
	case ViewMainMenu:
		return m.mainMenu.View()
	case ViewSubmit:
		return m.submit.View()
	case ViewSessions:
		return m.sessions.View()
	case ViewSessionDetail:
		return m.sessionDetail.View()
	case ViewSandbox:
		return m.sandbox.View()
	case ViewTeams:
		return m.teams.View()
	case ViewLogin:
		return m.login.View()
	case ViewConfig:
		return m.config.View()
	default:
		return "Unknown view\n"
	}
}

// Crashed reports whether the current view hit a panic and is showing the
// fallback screen.
func (m Model) Crashed() bool { return m.crashed }

func (m Model) crashView() string {
	var content strings.Builder
	content.WriteString(m.app.header())
	content.WriteString("\n")
	content.WriteString(components.ErrorStyle.Render("Something went wrong"))
	content.WriteString("\n")
	content.WriteString(components.HelpStyle.Render("r: Retry • Esc/q: Main menu • Ctrl+C: Quit"))
	return content.String()
}
