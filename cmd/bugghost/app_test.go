package main

import (
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bugghost "bugghost-client"
	"bugghost-client/internal/auth"
	"bugghost-client/internal/config"
	"bugghost-client/internal/session"
)

func testApp(baseURL string) *appContext {
	return &appContext{
		client:   bugghost.NewClient(bugghost.WithBaseURL(baseURL)),
		settings: config.Settings{APIURL: baseURL, CallbackAddr: "127.0.0.1:0"},
		store:    &auth.Store{},
	}
}

func TestModel_NavigateMountsView(t *testing.T) {
	m := newModel(testApp("http://127.0.0.1:1"))

	next, _ := m.Update(NavigateMsg{view: ViewConfig})
	m = next.(Model)

	assert.Equal(t, ViewConfig, m.currentView)
	assert.Contains(t, m.View(), "API URL")
}

func TestModel_PanickingViewShowsFallback(t *testing.T) {
	m := newModel(testApp("http://127.0.0.1:1"))
	// a detail view that was never mounted has no loader
	m.currentView = ViewSessionDetail

	next, cmd := m.Update(sessionLoadedMsg{})
	m = next.(Model)

	assert.Nil(t, cmd)
	require.True(t, m.Crashed())
	assert.Contains(t, m.View(), "Something went wrong")

	// other input is ignored until the user retries
	next, _ = m.Update(sessionLoadedMsg{})
	m = next.(Model)
	assert.True(t, m.Crashed())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)

	assert.False(t, m.Crashed())
	assert.Equal(t, ViewSessionDetail, m.currentView)
	assert.Equal(t, session.StateNotFound, m.sessionDetail.loader.State())
}

func TestModel_CrashEscapeReturnsToMenu(t *testing.T) {
	m := newModel(testApp("http://127.0.0.1:1"))
	m.currentView = ViewSessionDetail
	next, _ := m.Update(sessionLoadedMsg{})
	m = next.(Model)
	require.True(t, m.Crashed())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.False(t, m.Crashed())
	assert.Equal(t, ViewMainMenu, m.currentView)
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newModel(testApp("http://127.0.0.1:1"))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, "bye!\n", next.(Model).View())
}

func TestModel_RemountReleasesLoginListener(t *testing.T) {
	m := newModel(testApp("http://127.0.0.1:1"))

	next, _ := m.Update(NavigateMsg{view: ViewLogin})
	m = next.(Model)
	require.NotNil(t, m.login.listener)
	first := m.login.listener.RedirectURL()

	// leaving through the crash screen remounts without passing through esc
	m.crashed = true
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	require.NotNil(t, m.login.listener)

	_, err := http.Get(first + "?code=abc")
	assert.Error(t, err)

	next, _ = m.Update(NavigateMsg{view: ViewConfig})
	m = next.(Model)
	assert.Nil(t, m.login.listener)
}
