package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"bugghost-client/internal/session"
	"bugghost-client/internal/ui/components"
	"bugghost-client/models"
)

type SessionDetailModel struct {
	app     *appContext
	id      string
	loader  *session.DetailLoader
	pane    *resultPane
	spinner spinner.Model

	// watch state, set while an explicit watch is running
	watching  bool
	watchSeq  int
	cancel    context.CancelFunc
	polls     chan *models.DebugSession
	watchNote string
}

type sessionLoadedMsg struct {
	outcome session.DetailOutcome
}

type sessionPolledMsg struct {
	seq     int
	session *models.DebugSession
}

type watchDoneMsg struct {
	seq     int
	session *models.DebugSession
	err     error
}

func loadSession(loader *session.DetailLoader, id string) tea.Cmd {
	t, ok := loader.Begin(id)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return sessionLoadedMsg{outcome: loader.Call(context.Background(), t)}
	}
}

func watchSession(ctx context.Context, seq int, getter session.Getter, id string, polls chan<- *models.DebugSession) tea.Cmd {
	return func() tea.Msg {
		opts := session.DefaultWatchOptions()
		opts.OnPoll = func(s *models.DebugSession) {
			select {
			case polls <- s:
			default:
			}
		}
		s, err := session.Watch(ctx, getter, id, opts)
		close(polls)
		return watchDoneMsg{seq: seq, session: s, err: err}
	}
}

func waitForPoll(seq int, polls <-chan *models.DebugSession) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-polls
		if !ok {
			return nil
		}
		return sessionPolledMsg{seq: seq, session: s}
	}
}

func NewSessionDetailModel(app *appContext, id string) SessionDetailModel {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return SessionDetailModel{
		app:     app,
		id:      id,
		loader:  session.NewDetailLoader(app.client.Sessions),
		spinner: s,
	}
}

func (m SessionDetailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadSession(m.loader, m.id))
}

func (m *SessionDetailModel) stopWatch() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.watching = false
}

func (m *SessionDetailModel) show(s *models.DebugSession) {
	if m.pane == nil {
		pane := newResultPane(s, m.app.width)
		m.pane = &pane
		return
	}
	m.pane.replace(s)
}

func (m SessionDetailModel) Update(msg tea.Msg) (SessionDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionLoadedMsg:
		if m.loader.Complete(msg.outcome) && m.loader.State() == session.StateLoaded {
			m.show(m.loader.Session())
		}
		return m, nil

	case sessionPolledMsg:
		if !m.watching || msg.seq != m.watchSeq {
			return m, nil
		}
		m.show(msg.session)
		return m, waitForPoll(m.watchSeq, m.polls)

	case watchDoneMsg:
		if msg.seq != m.watchSeq {
			return m, nil
		}
		m.stopWatch()
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.watchNote = ""
		case errors.Is(msg.err, session.ErrStillProcessing):
			m.watchNote = "Still processing. Press w to keep watching."
		case msg.err != nil:
			m.watchNote = "Watch stopped: " + msg.err.Error()
		default:
			m.watchNote = ""
		}
		if msg.session != nil {
			m.show(msg.session)
		}
		return m, nil

	case spinner.TickMsg:
		if m.loader.State() != session.StateLoading && !m.watching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			m.stopWatch()
			return m, navigate(ViewSessions)
		case "r":
			if m.loader.State() != session.StateLoading && !m.watching {
				m.pane = nil
				return m, tea.Batch(m.spinner.Tick, loadSession(m.loader, m.id))
			}
			return m, nil
		case "w":
			if m.pane == nil {
				return m, nil
			}
			if m.watching {
				m.stopWatch()
				m.watchNote = ""
				return m, nil
			}
			if m.pane.presenter.Session().Status.Terminal() {
				return m, nil
			}
			ctx, cancel := context.WithCancel(context.Background())
			m.cancel = cancel
			m.watching = true
			m.watchSeq++
			m.watchNote = ""
			m.polls = make(chan *models.DebugSession, 1)
			return m, tea.Batch(
				m.spinner.Tick,
				watchSession(ctx, m.watchSeq, m.app.client.Sessions, m.id, m.polls),
				waitForPoll(m.watchSeq, m.polls),
			)
		}
	}

	if m.pane != nil {
		pane, cmd := m.pane.Update(msg)
		m.pane = &pane
		return m, cmd
	}
	return m, nil
}

func (m SessionDetailModel) View() string {
	var content strings.Builder
	content.WriteString(m.app.header() + "\n")

	switch m.loader.State() {
	case session.StateLoading:
		content.WriteString(components.ContainerStyle.Render(m.spinner.View() + " Loading session..."))
		content.WriteString("\n")
		return content.String()
	case session.StateNotFound:
		content.WriteString(components.ErrorStyle.Render(m.loader.Error()))
		content.WriteString("\n")
		content.WriteString(components.HelpStyle.Render("Esc/q: Back"))
		return content.String()
	case session.StateFailed:
		content.WriteString(components.ErrorStyle.Render(m.loader.Error()))
		content.WriteString("\n")
		content.WriteString(components.HelpStyle.Render("r: Retry • Esc/q: Back"))
		return content.String()
	}

	if m.pane == nil {
		return content.String()
	}

	content.WriteString(components.SectionTitleStyle.Render("Debug Session " + m.id))
	content.WriteString("\n")
	content.WriteString(m.pane.View())

	if m.watching {
		content.WriteString(components.ContainerStyle.Render(m.spinner.View() + " Watching for updates..."))
		content.WriteString("\n")
	} else if m.watchNote != "" {
		content.WriteString(components.NotSetStyle.MarginLeft(2).Render(m.watchNote))
		content.WriteString("\n")
	}

	help := "Tab/1-5: Switch view • ↑/↓: Scroll • r: Reload • Esc/q: Back"
	if !m.pane.presenter.Session().Status.Terminal() {
		help = "Tab/1-5: Switch view • ↑/↓: Scroll • w: Watch • r: Reload • Esc/q: Back"
	}
	content.WriteString(components.HelpStyle.Render(help))

	return content.String()
}
