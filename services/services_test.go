package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bugghost "bugghost-client"
	"bugghost-client/apperrors"
	"bugghost-client/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *bugghost.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return bugghost.NewClient(bugghost.WithBaseURL(server.URL))
}

func TestDebugSessionCreate(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/debug-sessions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"s1","status":"completed","language":"Python","error_text":"NameError","explanation":"x was never assigned","created_at":"2025-01-02T15:04:05.123456","updated_at":"2025-01-02T15:04:07.654321"}`))
	})

	session, err := client.Sessions.Create(context.Background(), &models.DebugSessionCreate{
		Language:  "Python",
		ErrorText: "NameError: x is not defined",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if session.Status != models.SessionCompleted {
		t.Errorf("expected status completed, got %s", session.Status)
	}
	if want := time.Date(2025, 1, 2, 15, 4, 5, 123456000, time.UTC); !session.CreatedAt.Equal(want) {
		t.Errorf("expected created_at %v, got %v", want, session.CreatedAt.Time)
	}
	if models.Value(session.Explanation) != "x was never assigned" {
		t.Errorf("unexpected explanation %v", session.Explanation)
	}
	if _, ok := got["runtime_info"]; ok {
		t.Error("expected empty optional fields to be omitted")
	}
	if got["error_text"] != "NameError: x is not defined" {
		t.Errorf("unexpected error_text %v", got["error_text"])
	}
}

func TestDebugSessionCreate_Detail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"LLM provider unavailable"}`))
	})

	_, err := client.Sessions.Create(context.Background(), &models.DebugSessionCreate{Language: "Go", ErrorText: "panic"})

	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "LLM provider unavailable" {
		t.Errorf("unexpected detail %q", apiErr.Detail)
	}
	if apiErr.RequestID == "" {
		t.Error("expected request id to be recorded")
	}
}

func TestDebugSessionList_Empty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	items, err := client.Sessions.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil list, got %v", items)
	}
}

func TestDebugSessionGet_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/debug-sessions/missing" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Debug session not found"}`))
	})

	_, err := client.Sessions.Get(context.Background(), "missing")

	var nf *apperrors.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "missing" {
		t.Errorf("expected id missing, got %s", nf.ID)
	}
}

func TestRunSubmit(t *testing.T) {
	var got models.RunCreate
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"run_id":"r1","language":"python","status":"completed","stdout":"1\n","stderr":"","exit_code":0,"image":"bug-ghost-sandbox-python:latest","created_at":"2025-01-02T15:04:05.123456","completed_at":null}`))
	})

	run, err := client.Runs.Submit(context.Background(), &models.RunCreate{Language: "python", Code: "print(1)", TimeoutSec: 15})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got.TimeoutSec != 15 {
		t.Errorf("expected timeout_sec 15, got %d", got.TimeoutSec)
	}
	if run.Stdout == nil || *run.Stdout != "1\n" {
		t.Errorf("unexpected stdout %v", run.Stdout)
	}
	if run.CompletedAt != nil {
		t.Errorf("expected no completed_at, got %v", run.CompletedAt)
	}
	if run.CreatedAt.IsZero() {
		t.Error("expected created_at to be parsed")
	}
}

func TestDebugSessionList_NaiveTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"s1","language":"Python","error_snippet":"NameError","status":"completed","created_at":"2025-01-02T15:04:05.123456"},
			{"id":"s2","language":"Go","error_snippet":"panic","status":"processing","created_at":"2025-01-03T09:00:00"}]`))
	})

	items, err := client.Sessions.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].CreatedAt.Day() != 3 || items[1].CreatedAt.Location() != time.UTC {
		t.Errorf("unexpected created_at %v", items[1].CreatedAt.Time)
	}
}

func TestDebugSessionGet_NaiveTimestamps(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"s1","status":"processing","language":"Python","error_text":"NameError","runtime_info":null,
			"explanation":null,"llm_model":null,"created_at":"2025-01-02T15:04:05.123456","updated_at":"2025-01-02T15:04:05.123456"}`))
	})

	session, err := client.Sessions.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session.Status != models.SessionProcessing || session.Explanation != nil {
		t.Errorf("unexpected session %+v", session)
	}
	if session.UpdatedAt.Year() != 2025 {
		t.Errorf("unexpected updated_at %v", session.UpdatedAt.Time)
	}
}

func TestSandboxImagesAndBuild(t *testing.T) {
	var langs models.BuildImagesRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sandbox/images":
			w.Write([]byte(`{"images":{"bug-ghost-sandbox-python:latest":true,"bug-ghost-sandbox-node:latest":false}}`))
		case "/api/sandbox/images/build":
			json.NewDecoder(r.Body).Decode(&langs)
			w.Write([]byte(`{"results":{"python":{"built":true,"image":"bug-ghost-sandbox-python:latest","logs":["Step 1/6","Successfully built"]}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	images, err := client.Sandbox.Images(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !images["bug-ghost-sandbox-python:latest"] || images["bug-ghost-sandbox-node:latest"] {
		t.Errorf("unexpected images %v", images)
	}

	results, err := client.Sandbox.BuildImages(context.Background(), []string{"python", "javascript", "java"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(langs.Languages) != 3 {
		t.Errorf("expected 3 languages in request, got %v", langs.Languages)
	}
	if len(results["python"].Logs) != 2 {
		t.Errorf("unexpected python logs %v", results["python"].Logs)
	}
}

func TestExchangeGitHubCode(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"user":{"id":"u1","username":"octocat","name":"The Octocat"},"github_access_token":"gho_x"}`},
		{"bare", `{"id":"u1","username":"octocat","name":"The Octocat"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("code") != "abc 123" {
					t.Errorf("unexpected code %q", r.URL.Query().Get("code"))
				}
				w.Write([]byte(tt.body))
			})

			user, err := client.Auth.ExchangeGitHubCode(context.Background(), "abc 123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if user.ID != "u1" || user.Username != "octocat" || user.DisplayName() != "The Octocat" {
				t.Errorf("unexpected user %+v", user)
			}
		})
	}
}

func TestTeams(t *testing.T) {
	var member models.TeamMemberAdd
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/teams":
			w.Write([]byte(`{"teams":[{"id":"t1","name":"core"}]}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/teams":
			w.Write([]byte(`{"id":"t2","name":"new"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/api/teams/t1/members":
			json.NewDecoder(r.Body).Decode(&member)
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ctx := context.Background()
	teams, err := client.Teams.List(ctx)
	if err != nil || len(teams) != 1 || teams[0].Name != "core" {
		t.Fatalf("unexpected teams %v, err %v", teams, err)
	}
	if err := client.Teams.Create(ctx, "new"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := client.Teams.AddMember(ctx, "t1", "u9", models.RoleAdmin); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if member.UserID != "u9" || member.Role != "admin" {
		t.Errorf("unexpected member payload %+v", member)
	}
}

func TestTeamsList_BareArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"t1","name":"core","created_at":"2025-01-02T15:04:05.123456"}]`))
	})

	teams, err := client.Teams.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "core" || teams[0].CreatedAt == nil {
		t.Errorf("unexpected teams %+v", teams)
	}
}

func TestTeamsList_EmptyEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	teams, err := client.Teams.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if teams == nil || len(teams) != 0 {
		t.Errorf("expected empty non-nil list, got %v", teams)
	}
}

func TestNetworkError(t *testing.T) {
	client := bugghost.NewClient(bugghost.WithBaseURL("http://127.0.0.1:1"))

	_, err := client.Sessions.List(context.Background())

	var netErr *apperrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}
