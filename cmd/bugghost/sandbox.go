package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bugghost-client/internal/sandbox"
	"bugghost-client/internal/ui/components"
	"bugghost-client/models"
)

type SandboxModel struct {
	app       *appContext
	runner    *sandbox.Runner
	readiness *sandbox.Readiness
	editor    textarea.Model
	output    viewport.Model
	spinner   spinner.Model
	stopwatch components.Stopwatch
}

type runFinishedMsg struct {
	outcome sandbox.RunOutcome
}

type imagesCheckedMsg struct {
	outcome sandbox.CheckOutcome
}

type imagesBuiltMsg struct {
	outcome sandbox.BuildOutcome
}

func submitRun(r *sandbox.Runner, t sandbox.RunTicket) tea.Cmd {
	return func() tea.Msg {
		return runFinishedMsg{outcome: r.Call(context.Background(), t)}
	}
}

func checkImages(r *sandbox.Readiness) tea.Cmd {
	seq := r.BeginCheck()
	return func() tea.Msg {
		return imagesCheckedMsg{outcome: r.CallCheck(context.Background(), seq)}
	}
}

func buildImages(r *sandbox.Readiness, seq uint64) tea.Cmd {
	return func() tea.Msg {
		return imagesBuiltMsg{outcome: r.CallBuild(context.Background(), seq)}
	}
}

func NewSandboxModel(app *appContext) SandboxModel {
	runner := sandbox.NewRunner(app.client.Runs)

	width := app.width
	if width == 0 {
		width = 100
	}

	editor := textarea.New()
	editor.SetWidth(width - 4)
	editor.SetHeight(10)
	editor.ShowLineNumbers = true
	editor.SetValue(runner.Code())
	editor.Focus()

	out := viewport.New(width-4, 10)
	out.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(components.ColorPrimary).
		PaddingLeft(1)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return SandboxModel{
		app:       app,
		runner:    runner,
		readiness: sandbox.NewReadiness(app.client.Sandbox),
		editor:    editor,
		output:    out,
		spinner:   s,
		stopwatch: components.NewStopwatch(),
	}
}

// Init checks image readiness once when the view is mounted.
func (m SandboxModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, checkImages(m.readiness))
}

func (m *SandboxModel) cycleLanguage() {
	langs := sandbox.Languages
	next := langs[0]
	for i, l := range langs {
		if l == m.runner.Language() {
			next = langs[(i+1)%len(langs)]
			break
		}
	}
	if err := m.runner.SetLanguage(next); err == nil {
		m.editor.SetValue(m.runner.Code())
	}
}

func (m *SandboxModel) refreshOutput() {
	m.output.SetContent(m.renderOutput())
	m.output.GotoTop()
}

func (m SandboxModel) Update(msg tea.Msg) (SandboxModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor.SetWidth(msg.Width - 4)
		m.output.Width = msg.Width - 4
		return m, nil

	case runFinishedMsg:
		if m.runner.Complete(msg.outcome) {
			m.stopwatch.Stop()
			m.refreshOutput()
		}
		return m, nil

	case imagesCheckedMsg:
		m.readiness.CompleteCheck(msg.outcome)
		return m, nil

	case imagesBuiltMsg:
		recheck := m.readiness.CompleteBuild(msg.outcome)
		m.refreshOutput()
		if recheck {
			return m, checkImages(m.readiness)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.runner.Busy() && !m.readiness.Building() {
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
		switch msg.String() {
		case "esc":
			return m, navigate(ViewMainMenu)
		case "ctrl+l":
			if !m.runner.Busy() {
				m.cycleLanguage()
			}
			return m, nil
		case "ctrl+r":
			m.runner.SetCode(m.editor.Value())
			t, err := m.runner.Begin()
			if err != nil {
				return m, nil
			}
			m.refreshOutput()
			return m, tea.Batch(m.spinner.Tick, m.stopwatch.Start(), submitRun(m.runner, t))
		case "ctrl+b":
			seq, ok := m.readiness.BeginBuild()
			if !ok {
				return m, nil
			}
			m.refreshOutput()
			return m, tea.Batch(m.spinner.Tick, buildImages(m.readiness, seq))
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m SandboxModel) renderOutput() string {
	var b strings.Builder

	if msg := m.runner.Error(); msg != "" {
		b.WriteString(components.ErrorStyle.UnsetMarginLeft().Render(msg))
		b.WriteString("\n\n")
	}
	if msg := m.readiness.Error(); msg != "" {
		b.WriteString(components.ErrorStyle.UnsetMarginLeft().Render(msg))
		b.WriteString("\n\n")
	}

	if run := m.runner.Result(); run != nil {
		b.WriteString(renderRun(run))
	}

	if logs := m.readiness.Logs(); logs != "" {
		b.WriteString("Build logs\n")
		b.WriteString(logs)
		b.WriteString("\n")
	}
	if err := m.readiness.BuildErrors(); err != nil {
		b.WriteString(components.ErrorStyle.UnsetMarginLeft().Render(err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func renderRun(run *models.SandboxRun) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Run ID: %s\n", run.RunID)
	fmt.Fprintf(&b, "Status: %s\n", run.Status)
	if run.ExitCode != nil {
		fmt.Fprintf(&b, "Exit code: %d\n", *run.ExitCode)
	}
	fmt.Fprintf(&b, "Image: %s\n", models.Value(run.Image))
	if msg := models.Value(run.Error); msg != "" {
		fmt.Fprintf(&b, "Error: %s\n", msg)
	}
	b.WriteString("\nstdout\n")
	b.WriteString(models.Value(run.Stdout))
	b.WriteString("\n\nstderr\n")
	b.WriteString(models.Value(run.Stderr))
	b.WriteString("\n")
	return b.String()
}

func (m SandboxModel) View() string {
	var content strings.Builder
	content.WriteString(m.app.header())
	content.WriteString("\n")
	content.WriteString(components.SectionTitleStyle.Render("Sandbox Runner"))
	content.WriteString("\n")

	var tabs []string
	active := 0
	for i, l := range sandbox.Languages {
		tabs = append(tabs, l)
		if l == m.runner.Language() {
			active = i
		}
	}
	content.WriteString(components.RenderTabs(tabs, active))
	content.WriteString("  ")

	switch {
	case !m.readiness.Checked():
		content.WriteString(components.NotSetStyle.Render("Checking images..."))
	case m.readiness.Ready():
		content.WriteString(components.Badge("Images ready", components.ColorSuccess))
	default:
		content.WriteString(components.Badge("Images missing", components.ColorWarning))
	}
	content.WriteString("\n\n")

	content.WriteString(components.ContainerStyle.Render(m.editor.View()))
	content.WriteString("\n")

	runLabel := "Run"
	if m.runner.Busy() {
		runLabel = fmt.Sprintf("%s Running... %s", m.spinner.View(), m.stopwatch.View())
	}
	buildLabel := "Build Sandbox Images"
	if m.readiness.Building() {
		buildLabel = m.spinner.View() + " Building images..."
	}
	content.WriteString(components.ContainerStyle.Render(fmt.Sprintf("[ctrl+r] %s   [ctrl+b] %s", runLabel, buildLabel)))
	content.WriteString("\n")

	content.WriteString(m.output.View())
	content.WriteString("\n")
	content.WriteString(components.HelpStyle.Render("Ctrl+L: Switch language (resets code) • Ctrl+R: Run • Ctrl+B: Build images • PgUp/PgDn: Scroll output • Esc: Back"))

	return content.String()
}
