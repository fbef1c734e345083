// Package models provides data structures for debug-session operations.
//
// This file defines the error report a user submits, the server-owned
// DebugSession record produced by the analysis service, and the reduced list
// projection. Sessions are read-only snapshots on the client; status changes
// are observed only by fetching again.
package models

// SessionStatus is the server-driven lifecycle state of a debug session
type SessionStatus string

const (
	SessionProcessing SessionStatus = "processing"
	SessionCompleted  SessionStatus = "completed"
	SessionFailed     SessionStatus = "failed"
)

// Terminal reports whether the analysis has finished, successfully or not.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionFailed
}

// Languages offered by the error report form
var Languages = []string{
	"JavaScript",
	"TypeScript",
	"Python",
	"Java",
	"Go",
	"Rust",
	"C++",
	"C#",
	"Ruby",
	"PHP",
	"Other",
}

// DebugSessionCreate is the user-authored error report
type DebugSessionCreate struct {
	Language           string `json:"language"`
	RuntimeInfo        string `json:"runtime_info,omitempty"`
	ErrorText          string `json:"error_text"`
	CodeSnippet        string `json:"code_snippet,omitempty"`
	ContextDescription string `json:"context_description,omitempty"`
}

type DebugSession struct {
	ID        string    `json:"id"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`

	// Input
	Language           string  `json:"language"`
	RuntimeInfo        *string `json:"runtime_info"`
	ErrorText          string  `json:"error_text"`
	CodeSnippet        *string `json:"code_snippet"`
	ContextDescription *string `json:"context_description"`

	Status SessionStatus `json:"status"`

	// Output
	ReproCode     *string `json:"repro_code"`
	TestCode      *string `json:"test_code"`
	Explanation   *string `json:"explanation"`
	FixSuggestion *string `json:"fix_suggestion"`

	LLMModel     *string `json:"llm_model"`
	ErrorMessage *string `json:"error_message"`
}

type DebugSessionListItem struct {
	ID           string        `json:"id"`
	CreatedAt    Timestamp     `json:"created_at"`
	Language     string        `json:"language"`
	ErrorSnippet string        `json:"error_snippet"`
	Status       SessionStatus `json:"status"`
}

// Value dereferences an optional string field.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
