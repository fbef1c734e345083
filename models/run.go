package models

// RunCreate is the body of a sandbox run submission
type RunCreate struct {
	Language   string `json:"language"`
	Code       string `json:"code"`
	TimeoutSec int    `json:"timeout_sec"`
}

// SandboxRun is one execution of user code in a remote container
type SandboxRun struct {
	RunID       string     `json:"run_id"`
	Language    string     `json:"language"`
	Status      string     `json:"status"` // pending, running, completed, error, timeout
	Stdout      *string    `json:"stdout,omitempty"`
	Stderr      *string    `json:"stderr,omitempty"`
	ExitCode    *int       `json:"exit_code,omitempty"`
	Error       *string    `json:"error,omitempty"`
	Image       *string    `json:"image,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
}
