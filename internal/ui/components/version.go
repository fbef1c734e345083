// Package components provides reusable UI components for the Bug Ghost CLI.
//
// This file provides version information and header rendering.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"bugghost-client/models"
)

// Build information - these are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// Title is shown at the top of every view
const Title = "Bug Ghost AI"

// VersionString is the version plus the short commit when known
func VersionString() string {
	v := fmt.Sprintf("v%s", Version)
	if GitCommit != "unknown" && len(GitCommit) > 7 {
		v += fmt.Sprintf(" (%s)", GitCommit[:7])
	}
	return v
}

// RenderHeader renders the CLI header with version information, the API the
// client talks to and the logged-in user, if any.
func RenderHeader(apiURL string, user *models.AuthenticatedUser) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginTop(1).
		MarginBottom(0).
		MarginLeft(2)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginLeft(2).
		MarginBottom(1)

	identity := "not logged in"
	if user != nil {
		identity = "@" + user.Username
	}

	title := titleStyle.Render(Title)
	subtitle := subtitleStyle.Render(fmt.Sprintf("%s · %s · %s", VersionString(), apiURL, identity))

	return fmt.Sprintf("%s\n%s\n", title, subtitle)
}
