package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bugghost-client/internal/result"
	"bugghost-client/internal/ui/components"
	"bugghost-client/models"
)

const resultPaneHeight = 18

var bannerText = map[result.Banner]string{
	result.BannerProcessing: "Analysis in progress",
	result.BannerSuccess:    "Analysis complete",
	result.BannerFailed:     "Analysis failed",
}

var bannerColor = map[result.Banner]lipgloss.Color{
	result.BannerProcessing: components.ColorWarning,
	result.BannerSuccess:    components.ColorSuccess,
	result.BannerFailed:     components.ColorError,
}

// resultPane renders one debug session with a tab per result view
type resultPane struct {
	presenter *result.Presenter
	viewport  viewport.Model
	width     int
}

func newResultPane(s *models.DebugSession, width int) resultPane {
	if width <= 0 {
		width = 100
	}

	vp := viewport.New(width-4, resultPaneHeight)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(components.ColorPrimary).
		PaddingLeft(1)

	p := resultPane{presenter: result.New(s), viewport: vp, width: width}
	p.refresh()
	return p
}

// replace swaps in a newer snapshot of the same session, keeping the tab.
func (p *resultPane) replace(s *models.DebugSession) {
	active := p.presenter.Active()
	p.presenter = result.New(s)
	p.presenter.Select(active)
	p.refresh()
}

func (p *resultPane) refresh() {
	p.viewport.SetContent(result.Render(p.presenter.Section(), p.width-8))
	p.viewport.GotoTop()
}

func (p resultPane) Update(msg tea.Msg) (resultPane, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.viewport.Width = msg.Width - 4
		p.refresh()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "right", "l":
			p.presenter.Next()
			p.refresh()
			return p, nil
		case "shift+tab", "left", "h":
			p.presenter.Prev()
			p.refresh()
			return p, nil
		case "1", "2", "3", "4", "5":
			if p.presenter.Select(result.Views[msg.String()[0]-'1']) {
				p.refresh()
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p resultPane) View() string {
	banner := p.presenter.Banner()

	var content strings.Builder
	content.WriteString(components.ContainerStyle.Render(
		components.Badge(banner.Label(), bannerColor[banner]) + " " + bannerText[banner],
	))
	content.WriteString("\n")
	if reason := p.presenter.FailureReason(); reason != "" {
		content.WriteString(components.ErrorStyle.Render(reason))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	for _, f := range p.presenter.Header() {
		content.WriteString(components.RenderField(f.Label, f.Value))
	}
	content.WriteString("\n")

	labels := make([]string, len(result.Views))
	for i, v := range result.Views {
		labels[i] = v.Label()
	}
	content.WriteString(components.RenderTabs(labels, int(p.presenter.Active())))
	content.WriteString("\n")
	content.WriteString(p.viewport.View())
	content.WriteString("\n")

	return content.String()
}
