package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"bugghost-client/apperrors"
	"bugghost-client/internal/auth"
	"bugghost-client/internal/ui/components"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// loginRedirectDelay is how long the success message stays up before the
// main menu is shown
const loginRedirectDelay = 1200 * time.Millisecond

type LoginModel struct {
	app      *appContext
	callback *auth.Callback
	input    textinput.Model
	spinner  spinner.Model

	listener *auth.Listener
	ctx      context.Context
	cancel   context.CancelFunc

	exchanging bool
	user       *models.AuthenticatedUser
	errMsg     string
}

type codeReceivedMsg struct {
	code string
}

type loginDoneMsg struct {
	user *models.AuthenticatedUser
	err  error
}

func waitForCode(ctx context.Context, l *auth.Listener) tea.Cmd {
	return func() tea.Msg {
		code, err := l.Wait(ctx)
		if err != nil {
			return nil
		}
		return codeReceivedMsg{code: code}
	}
}

func completeLogin(cb *auth.Callback, code string) tea.Cmd {
	return func() tea.Msg {
		user, err := cb.Complete(context.Background(), code)
		return loginDoneMsg{user: user, err: err}
	}
}

func NewLoginModel(app *appContext) LoginModel {
	input := newTextInput("Paste the GitHub code here")
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := LoginModel{
		app:      app,
		callback: auth.NewCallback(app.client.Auth, app.store),
		input:    input,
		spinner:  s,
	}

	l, err := auth.Listen(app.settings.CallbackAddr)
	if err != nil {
		utils.LogDebug("login: no local callback listener: %v", err)
		return m
	}
	m.listener = l
	m.ctx, m.cancel = context.WithCancel(context.Background())
	return m
}

func (m LoginModel) Init() tea.Cmd {
	if m.listener == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, waitForCode(m.ctx, m.listener))
}

// close stops the local callback listener, if one is running.
func (m *LoginModel) close() {
	if m.listener == nil {
		return
	}
	m.cancel()
	m.listener.Close()
	m.listener = nil
}

func (m LoginModel) startExchange(code string) (LoginModel, tea.Cmd) {
	if m.exchanging || m.user != nil {
		return m, nil
	}
	m.exchanging = true
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, completeLogin(m.callback, strings.TrimSpace(code)))
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case codeReceivedMsg:
		return m.startExchange(msg.code)

	case loginDoneMsg:
		m.exchanging = false
		if msg.err != nil {
			var authErr *apperrors.AuthError
			if errors.As(msg.err, &authErr) {
				m.errMsg = authErr.Message
			} else {
				m.errMsg = auth.LoginFailedMessage
			}
			return m, nil
		}
		m.user = msg.user
		m.close()
		return m, tea.Tick(loginRedirectDelay, func(time.Time) tea.Msg {
			return NavigateMsg{view: ViewMainMenu}
		})

	case spinner.TickMsg:
		if !m.exchanging {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.close()
			return m, navigate(ViewMainMenu)
		case "enter":
			return m.startExchange(m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m LoginModel) View() string {
	var content strings.Builder
	content.WriteString(m.app.header() + "\n")
	content.WriteString(components.SectionTitleStyle.Render("Login with GitHub"))
	content.WriteString("\n")

	if m.user != nil {
		content.WriteString(components.SuccessStyle.Render("✓ Logged in as " + m.user.DisplayName()))
		content.WriteString("\n")
		return content.String()
	}

	if existing := m.app.user(); existing != nil {
		content.WriteString(components.NotSetStyle.MarginLeft(2).Render("Already logged in as " + existing.DisplayName() + ". Log out from the main menu first."))
		content.WriteString("\n")
	}

	content.WriteString(components.RenderField("Open", m.app.client.Auth.LoginURL()))
	if m.listener != nil {
		content.WriteString(components.RenderField("Callback", m.listener.RedirectURL()))
	}
	content.WriteString("\n")
	content.WriteString(components.ContainerStyle.Render(m.input.View()))
	content.WriteString("\n")

	if m.exchanging {
		content.WriteString(components.ContainerStyle.Render(m.spinner.View() + " Completing login..."))
		content.WriteString("\n")
	}
	if m.errMsg != "" {
		content.WriteString(components.ErrorStyle.Render(m.errMsg))
		content.WriteString("\n")
	}

	content.WriteString(components.HelpStyle.Render("Enter: Submit code • Esc: Back"))
	return content.String()
}
