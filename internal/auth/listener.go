package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"bugghost-client/internal/utils"
)

// CallbackPath is the route the browser is redirected to after GitHub
// authorization
const CallbackPath = "/auth/github/callback"

const successPage = `<html><body><h3>Bug Ghost AI</h3><p>Login received. You can return to the terminal.</p></body></html>`

// Listener serves the local OAuth callback route and hands the received
// authorization code to the caller.
type Listener struct {
	ln     net.Listener
	server *http.Server
	codes  chan string
}

// Listen binds addr and starts serving the callback route.
func Listen(addr string) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	l := &Listener{ln: ln, codes: make(chan string, 1)}

	r := mux.NewRouter()
	r.HandleFunc(CallbackPath, l.handleCallback).Methods(http.MethodGet)

	l.server = &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogDebug("callback listener stopped: %v", err)
		}
	}()

	utils.LogDebug("callback listener on %s", ln.Addr())
	return l, nil
}

// RedirectURL is the callback URL to register with the OAuth app.
func (l *Listener) RedirectURL() string {
	return "http://" + l.ln.Addr().String() + CallbackPath
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	select {
	case l.codes <- code:
	default:
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, successPage)
}

// Wait blocks until a code arrives or ctx is done.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	select {
	case code := <-l.codes:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := l.server.Shutdown(ctx)
	// Serve may not have taken ownership of ln yet
	l.ln.Close()
	return err
}
