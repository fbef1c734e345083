package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bugghost-client/internal/sandbox"
	"bugghost-client/models"
)

func execute(t *testing.T, app *appContext, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(func() *appContext { return app })
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestSubmitCmd_ValidationNeverReachesServer(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, stderr, err := execute(t, testApp(srv.URL), "submit", "--error-text", "  ")

	require.Error(t, err)
	assert.Contains(t, stderr, "Language is required")
	assert.Contains(t, stderr, "Error text is required")
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestSubmitCmd_PrintsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/debug-sessions", r.URL.Path)
		var body models.DebugSessionCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Python", body.Language)

		writeJSON(w, http.StatusCreated, map[string]any{
			"id":          "s1",
			"status":      "completed",
			"language":    "Python",
			"error_text":  body.ErrorText,
			"explanation": "x is used before assignment",
			"created_at":  "2025-03-04T15:04:00.123456",
			"updated_at":  "2025-03-04T15:04:02.654321",
		})
	}))
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "submit", "--language", "Python", "--error-text", "NameError")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Session s1 [Success]")
	assert.Contains(t, stdout, "x is used before assignment")
	assert.Contains(t, stdout, "No fix suggestion available")
}

func TestSubmitCmd_ServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "LLM provider unavailable"})
	}))
	defer srv.Close()

	_, _, err := execute(t, testApp(srv.URL), "submit", "--language", "Go", "--error-text", "panic")

	require.Error(t, err)
	assert.Equal(t, "LLM provider unavailable", err.Error())
}

func TestSessionsCmd_ListEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	}))
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "sessions", "list")

	require.NoError(t, err)
	assert.Equal(t, "No sessions yet.\n", stdout)
}

func TestSessionsCmd_ListNaiveTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"s1","language":"Python","error_snippet":"NameError: x","status":"completed","created_at":"2025-01-02T15:04:05.123456"}]`))
	}))
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "sessions", "list")

	require.NoError(t, err)
	assert.Contains(t, stdout, "s1")
	assert.Contains(t, stdout, "NameError: x")
	assert.Contains(t, stdout, "ago")
}

func TestSessionsCmd_ShowProcessingNaiveTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/debug-sessions/s1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"s1","status":"processing","language":"Python","error_text":"NameError",
			"explanation":null,"created_at":"2025-01-02T15:04:05.123456","updated_at":"2025-01-02T15:04:05.123456"}`))
	}))
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "sessions", "show", "s1")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Session s1")
}

func TestSessionsCmd_ListFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "db down"})
	}))
	defer srv.Close()

	_, _, err := execute(t, testApp(srv.URL), "sessions", "list")

	require.Error(t, err)
	assert.Equal(t, "Failed to load sessions", err.Error())
}

func TestSessionsCmd_ShowNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Session not found"})
	}))
	defer srv.Close()

	_, _, err := execute(t, testApp(srv.URL), "sessions", "show", "missing")

	require.Error(t, err)
	assert.Equal(t, "Session not found", err.Error())
}

func TestSessionsCmd_ShowSelectedViews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/debug-sessions/s1", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":         "s1",
			"status":     "failed",
			"language":   "Go",
			"error_text": "panic: nil map",
			"repro_code": "package main",
			"created_at": "2025-03-04T15:04:00.123456",
		})
	}))
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "sessions", "show", "s1", "--view", "repro")

	require.NoError(t, err)
	assert.Contains(t, stdout, "[Failed]")
	assert.Contains(t, stdout, "```go\npackage main\n```")
	assert.NotContains(t, stdout, "Root Cause Analysis")

	_, _, err = execute(t, testApp(srv.URL), "sessions", "show", "s1", "--view", "bogus")
	assert.ErrorContains(t, err, "unknown view")
}

func TestRunCmd_DefaultTemplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body models.RunCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, sandbox.JavaScript, body.Language)
		assert.Equal(t, 15, body.TimeoutSec)
		tmpl, _ := sandbox.Template(sandbox.JavaScript)
		assert.Equal(t, tmpl, body.Code)

		writeJSON(w, http.StatusOK, map[string]any{
			"run_id":       "r1",
			"language":     "javascript",
			"status":       "completed",
			"stdout":       "Hello from Node!",
			"exit_code":    0,
			"image":        "bug-ghost-sandbox-node:latest",
			"created_at":   "2025-03-04T15:04:00.123456",
			"completed_at": nil,
		})
	}))
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "run", "--language", "javascript")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Run ID: r1")
	assert.Contains(t, stdout, "Image: bug-ghost-sandbox-node:latest")
	assert.Contains(t, stdout, "Hello from Node!")
}

func TestRunCmd_PythonStdout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"run_id":"r2","language":"python","status":"completed","stdout":"1\n","stderr":"",
			"exit_code":0,"image":"bug-ghost-sandbox-python:latest","created_at":"2025-01-02T15:04:05.123456","completed_at":null}`))
	}))
	defer srv.Close()

	cmd := newRootCmd(func() *appContext { return testApp(srv.URL) })
	var stdout bytes.Buffer
	cmd.SetIn(strings.NewReader("print(1)"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--file", "-"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, stdout.String(), "Run ID: r2")
	assert.Contains(t, stdout.String(), "stdout\n1\n")
}

func TestRunCmd_StdinAndFallbackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cmd := newRootCmd(func() *appContext { return testApp(srv.URL) })
	cmd.SetIn(strings.NewReader("print(1)"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--file", "-"})

	err := cmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Run failed", err.Error())
}

func TestImagesCmd_BuildThenCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/sandbox/images/build", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"results": map[string]any{
			"python": map[string]any{"built": true, "image": "bug-ghost-sandbox-python:latest", "logs": []string{"ok"}},
		}})
	})
	mux.HandleFunc("/api/sandbox/images", func(w http.ResponseWriter, r *http.Request) {
		images := map[string]bool{}
		for _, img := range sandbox.RequiredImages {
			images[img] = true
		}
		writeJSON(w, http.StatusOK, map[string]any{"images": images})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	stdout, _, err := execute(t, testApp(srv.URL), "images", "build")

	require.NoError(t, err)
	assert.Contains(t, stdout, "=== python (bug-ghost-sandbox-python:latest) ===\nok")
	assert.Contains(t, stdout, "Images ready")
}

func TestImagesCmd_CheckUnreachable(t *testing.T) {
	stdout, stderr, err := execute(t, testApp("http://127.0.0.1:1"), "images", "check")

	require.NoError(t, err)
	assert.Contains(t, stderr, "image check failed")
	assert.Contains(t, stdout, "Images missing")
}

func TestLoginCmd_WithCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.URL.Query().Get("code"))
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": "u1", "username": "octocat"}})
	}))
	defer srv.Close()

	app := testApp(srv.URL)
	stdout, _, err := execute(t, app, "login", "--code", "abc")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as octocat (u1)")
	user, ok := app.store.User()
	require.True(t, ok)
	assert.Equal(t, "octocat", user.Username)
}

func TestTeamsCmd_AddMemberRole(t *testing.T) {
	var got models.TeamMemberAdd
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/teams/t1/members", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	_, _, err := execute(t, testApp(srv.URL), "teams", "add-member", "t1", "u2", "--role", "owner")
	assert.ErrorContains(t, err, "role must be")

	stdout, _, err := execute(t, testApp(srv.URL), "teams", "add-member", "t1", "u2", "--role", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Added\n", stdout)
	assert.Equal(t, models.TeamMemberAdd{UserID: "u2", Role: "admin"}, got)
}
