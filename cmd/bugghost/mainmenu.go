package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"bugghost-client/internal/utils"
)

type MainMenuModel struct {
	app     *appContext
	choices list.Model
}

type menuAction int

const (
	actionNavigate menuAction = iota
	actionLogout
	actionQuit
)

type menuItem struct {
	title       string
	description string
	action      menuAction
	view        ViewState
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.description }
func (i menuItem) FilterValue() string { return i.title }

func menuItems(app *appContext) []list.Item {
	items := []list.Item{
		menuItem{title: "New Debug Session", description: "Paste an error and get a repro, a test and a fix", view: ViewSubmit},
		menuItem{title: "Sessions", description: "Browse previous debug sessions", view: ViewSessions},
		menuItem{title: "Sandbox", description: "Run code in an isolated container", view: ViewSandbox},
		menuItem{title: "Teams", description: "Create teams and add members", view: ViewTeams},
	}

	if user := app.user(); user != nil {
		items = append(items, menuItem{title: "Logout", description: "Signed in as " + user.DisplayName(), action: actionLogout})
	} else {
		items = append(items, menuItem{title: "Login with GitHub", description: "Authenticate with your GitHub account", view: ViewLogin})
	}

	return append(items,
		menuItem{title: "Configuration", description: "View API URL and settings", view: ViewConfig},
		menuItem{title: "Quit", description: "Exit the CLI", action: actionQuit},
	)
}

func NewMainMenuModel(app *appContext) MainMenuModel {
	width := app.width
	if width == 0 {
		width = 80
	}

	l := list.New(menuItems(app), list.NewDefaultDelegate(), width, 20)
	l.Title = "Main Menu"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return MainMenuModel{
		app:     app,
		choices: l,
	}
}

func (m MainMenuModel) Init() tea.Cmd {
	return nil
}

func (m MainMenuModel) Update(msg tea.Msg) (MainMenuModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.choices.SetSize(msg.Width, 20)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			item, ok := m.choices.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			switch item.action {
			case actionQuit:
				return m, tea.Quit
			case actionLogout:
				m.app.store.Logout()
				utils.LogDebug("logged out")
				m.choices.SetItems(menuItems(m.app))
				return m, nil
			default:
				return m, navigate(item.view)
			}
		}
	}

	var cmd tea.Cmd
	m.choices, cmd = m.choices.Update(msg)
	return m, cmd
}

func (m MainMenuModel) View() string {
	return m.app.header() + "\n" + m.choices.View()
}
