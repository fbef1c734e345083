package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"bugghost-client/internal/auth"
	"bugghost-client/internal/config"
	"bugghost-client/internal/utils"
)

const crashMessage = "Bug Ghost AI ran into an unexpected problem and had to close.\nPlease relaunch it. Details were written to ~/.bugghost/debug.log."

var errAppCrashed = errors.New("application crashed")

func newAppContext() *appContext {
	client, settings := config.LoadClient()
	return &appContext{
		client:   client,
		settings: settings,
		store:    auth.Default(),
	}
}

func runTUI(app *appContext) error {
	p := tea.NewProgram(newModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		utils.LogDebug("program exited: %v", err)
		return errAppCrashed
	}
	return nil
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			utils.LogDebug("panic: %v", r)
			fmt.Fprintln(os.Stderr, crashMessage)
			code = 1
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(newAppContext).ExecuteContext(ctx); err != nil {
		if errors.Is(err, errAppCrashed) {
			fmt.Fprintln(os.Stderr, crashMessage)
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func main() {
	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log unavailable: %v\n", err)
	}
	os.Exit(run())
}
