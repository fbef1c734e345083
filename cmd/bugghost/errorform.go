package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"bugghost-client/apperrors"
	"bugghost-client/internal/session"
	"bugghost-client/internal/ui/components"
	"bugghost-client/models"
)

var formAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}

// reportDraft holds the form values. It lives behind a pointer so the form
// fields stay bound across model copies and form rebuilds.
type reportDraft struct {
	language    string
	runtimeInfo string
	errorText   string
	codeSnippet string
	context     string
}

func (d *reportDraft) request() models.DebugSessionCreate {
	return models.DebugSessionCreate{
		Language:           d.language,
		RuntimeInfo:        strings.TrimSpace(d.runtimeInfo),
		ErrorText:          d.errorText,
		CodeSnippet:        d.codeSnippet,
		ContextDescription: d.context,
	}
}

type SubmitModel struct {
	app       *appContext
	draft     *reportDraft
	form      *huh.Form
	submitter *session.Submitter
	spinner   spinner.Model
	stopwatch components.Stopwatch
	result    *resultPane
}

type sessionCreatedMsg struct {
	outcome session.SubmitOutcome
}

func createSession(s *session.Submitter, t session.SubmitTicket) tea.Cmd {
	return func() tea.Msg {
		return sessionCreatedMsg{outcome: s.Call(context.Background(), t)}
	}
}

func newReportForm(d *reportDraft) *huh.Form {
	theme := huh.ThemeCharm()
	theme.Focused.Base = theme.Focused.Base.BorderForeground(formAccent)
	theme.Focused.Title = theme.Focused.Title.Foreground(formAccent)

	languages := []huh.Option[string]{huh.NewOption("Select a language...", "")}
	for _, lang := range models.Languages {
		languages = append(languages, huh.NewOption(lang, lang))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key(session.FieldLanguage).
				Title("Language *").
				Options(languages...).
				Value(&d.language),

			huh.NewInput().
				Key("runtime_info").
				Title("Runtime / Framework").
				Placeholder("e.g. Node 20, Django 5.0").
				Value(&d.runtimeInfo),

			huh.NewText().
				Key(session.FieldErrorText).
				Title("Error Message / Stack Trace *").
				Placeholder("Paste your error message or stack trace here...").
				Lines(6).
				Value(&d.errorText),

			huh.NewText().
				Key("code_snippet").
				Title("Code Snippet").
				Placeholder("Paste the code that triggers the error").
				Lines(6).
				Value(&d.codeSnippet),

			huh.NewText().
				Key("context_description").
				Title("Context").
				Placeholder("What were you trying to do?").
				Lines(3).
				Value(&d.context),

			huh.NewConfirm().
				Key("submit").
				Title("Analyze Error").
				Description("Press enter to submit the report").
				Affirmative("Analyze!").
				Negative(""),
		),
	).
		WithWidth(80).
		WithShowHelp(true).
		WithShowErrors(true).
		WithTheme(theme)
}

func NewSubmitModel(app *appContext) SubmitModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	draft := &reportDraft{}
	return SubmitModel{
		app:       app,
		draft:     draft,
		form:      newReportForm(draft),
		submitter: session.NewSubmitter(app.client.Sessions),
		spinner:   s,
		stopwatch: components.NewStopwatch(),
	}
}

func (m SubmitModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SubmitModel) Update(msg tea.Msg) (SubmitModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionCreatedMsg:
		if !m.submitter.Complete(msg.outcome) {
			return m, nil
		}
		m.stopwatch.Stop()
		if m.submitter.Error() != "" {
			m.form = newReportForm(m.draft)
			return m, m.form.Init()
		}
		pane := newResultPane(m.submitter.Session(), m.app.width)
		m.result = &pane
		return m, nil

	case spinner.TickMsg:
		if !m.submitter.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.TickMsg:
		var cmd tea.Cmd
		m.stopwatch, cmd = m.stopwatch.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.submitter.Busy() {
			return m, nil
		}
		if m.result != nil {
			switch msg.String() {
			case "n":
				m.submitter.Reset()
				m.result = nil
				m.draft = &reportDraft{}
				m.form = newReportForm(m.draft)
				return m, m.form.Init()
			case "o":
				return m, func() tea.Msg {
					return openSessionMsg{id: m.submitter.Session().ID}
				}
			case "esc", "q":
				return m, navigate(ViewMainMenu)
			}
			pane, cmd := m.result.Update(msg)
			m.result = &pane
			return m, cmd
		}
		if msg.String() == "esc" && m.form.State == huh.StateNormal {
			return m, navigate(ViewMainMenu)
		}
	}

	if m.result != nil {
		pane, cmd := m.result.Update(msg)
		m.result = &pane
		return m, cmd
	}
	if m.submitter.Busy() {
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		cmds = append(cmds, cmd)
	}

	if m.form.State == huh.StateCompleted {
		t, err := m.submitter.Begin(m.draft.request())
		var verrs apperrors.ValidationErrors
		switch {
		case errors.Is(err, session.ErrBusy):
			return m, nil
		case errors.As(err, &verrs):
			m.form = newReportForm(m.draft)
			return m, m.form.Init()
		case err != nil:
			return m, nil
		}
		cmds = append(cmds, m.spinner.Tick, m.stopwatch.Start(), createSession(m.submitter, t))
	}

	return m, tea.Batch(cmds...)
}

func (m SubmitModel) View() string {
	var content strings.Builder
	content.WriteString(m.app.header())
	content.WriteString("\n")

	if m.result != nil {
		content.WriteString(components.SectionTitleStyle.Render("Debug Session " + m.submitter.Session().ID))
		content.WriteString("\n")
		content.WriteString(m.result.View())
		content.WriteString(components.HelpStyle.Render("Tab/1-5: Switch view • ↑/↓: Scroll • o: Open in sessions • n: New session • Esc: Back"))
		return content.String()
	}

	if m.submitter.Busy() {
		content.WriteString(components.ContainerStyle.Render(
			fmt.Sprintf("%s Analyzing error... %s", m.spinner.View(), m.stopwatch.View()),
		))
		content.WriteString("\n")
		return content.String()
	}

	content.WriteString(components.SectionTitleStyle.Render("Paste Your Error"))
	content.WriteString("\n")
	content.WriteString(components.ContainerStyle.Render(m.form.View()))
	content.WriteString("\n")

	for _, fe := range m.submitter.FieldErrors() {
		content.WriteString(components.ErrorStyle.Render("⚠ " + fe.Message))
		content.WriteString("\n")
	}
	if msg := m.submitter.Error(); msg != "" {
		content.WriteString(components.ErrorStyle.Render(msg))
		content.WriteString("\n")
	}

	return content.String()
}
