// Package main provides the configuration view for the Bug Ghost CLI.
//
// This file implements the ConfigModel which shows the resolved settings and
// the config file they were read from.
package main

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"bugghost-client/internal/ui/components"
)

type ConfigModel struct {
	app *appContext
}

func NewConfigModel(app *appContext) ConfigModel {
	return ConfigModel{app: app}
}

func (m ConfigModel) Init() tea.Cmd {
	return nil
}

func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "esc" || k.String() == "q") {
		return m, navigate(ViewMainMenu)
	}
	return m, nil
}

func (m ConfigModel) View() string {
	s := m.app.settings

	timeout := ""
	if s.Timeout > 0 {
		timeout = s.Timeout.String()
	}

	var content strings.Builder
	content.WriteString(m.app.header())
	content.WriteString("\n")
	content.WriteString(components.RenderField("API URL", s.APIURL))
	content.WriteString(components.RenderField("Timeout", timeout))
	content.WriteString(components.RenderField("Callback", s.CallbackAddr))
	content.WriteString(components.RenderField("File", s.Source))
	content.WriteString(components.RenderField("Version", components.VersionString()))
	content.WriteString(components.HelpStyle.MarginTop(2).Render("Press 'esc' or 'q' to go back"))

	return content.String()
}
