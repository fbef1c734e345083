package sandbox

import (
	"context"
	"errors"
	"fmt"

	"bugghost-client/apperrors"
	"bugghost-client/internal/generation"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// TimeoutSec is the execution limit sent with every run. Only the executor
// enforces it.
const TimeoutSec = 15

// RunFailedMessage is shown when a run fails without a server detail or
// transport message
const RunFailedMessage = "Run failed"

// ErrBusy is returned by Begin while a run is in flight.
var ErrBusy = errors.New("a run is already in flight")

// Submitter is the remote operation the Runner depends on
type Submitter interface {
	Submit(ctx context.Context, req *models.RunCreate) (*models.SandboxRun, error)
}

type RunTicket struct {
	Seq     uint64
	Request models.RunCreate
}

type RunOutcome struct {
	Seq uint64
	Run *models.SandboxRun
	Err error
}

// Runner holds the code buffer and the single current run result.
type Runner struct {
	runs Submitter
	gen  generation.Counter

	language string
	code     string

	busy   bool
	result *models.SandboxRun
	errMsg string
}

// NewRunner returns a runner with the python template loaded.
func NewRunner(runs Submitter) *Runner {
	r := &Runner{runs: runs}
	r.SetLanguage(Python)
	return r
}

// SetLanguage switches the language and replaces the code buffer with that
// language's template. Edits to the buffer are discarded.
func (r *Runner) SetLanguage(lang string) error {
	tmpl, ok := Template(lang)
	if !ok {
		return fmt.Errorf("unsupported sandbox language %q", lang)
	}
	r.language = lang
	r.code = tmpl
	return nil
}

// SetCode replaces the code buffer with user edits.
func (r *Runner) SetCode(code string) { r.code = code }

// Begin marks the runner busy and clears the previous result and error.
func (r *Runner) Begin() (RunTicket, error) {
	if r.busy {
		return RunTicket{}, ErrBusy
	}

	r.busy = true
	r.result = nil
	r.errMsg = ""
	seq := r.gen.Next()
	utils.LogDebug("sandbox run #%d (language=%s, %d bytes)", seq, r.language, len(r.code))
	return RunTicket{
		Seq:     seq,
		Request: models.RunCreate{Language: r.language, Code: r.code, TimeoutSec: TimeoutSec},
	}, nil
}

// Call submits the run for t without touching runner state.
func (r *Runner) Call(ctx context.Context, t RunTicket) RunOutcome {
	req := t.Request
	run, err := r.runs.Submit(ctx, &req)
	return RunOutcome{Seq: t.Seq, Run: run, Err: err}
}

// Complete applies o and reports whether it was current.
func (r *Runner) Complete(o RunOutcome) bool {
	if r.gen.Latest(o.Seq) {
		r.busy = false
	}
	if !r.gen.Accept(o.Seq) {
		utils.LogDebug("dropping stale run outcome #%d", o.Seq)
		return false
	}

	if o.Err != nil {
		r.errMsg = apperrors.Message(o.Err, RunFailedMessage)
		utils.LogDebug("sandbox run #%d failed: %v", o.Seq, o.Err)
		return true
	}

	r.result = o.Run
	utils.LogDebug("sandbox run #%d finished: %s", o.Seq, o.Run.Status)
	return true
}

// Run submits the current buffer and waits for the result.
func (r *Runner) Run(ctx context.Context) (*models.SandboxRun, error) {
	t, err := r.Begin()
	if err != nil {
		return nil, err
	}
	o := r.Call(ctx, t)
	r.Complete(o)
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Run, nil
}

func (r *Runner) Language() string           { return r.language }
func (r *Runner) Code() string               { return r.code }
func (r *Runner) Busy() bool                 { return r.busy }
func (r *Runner) Result() *models.SandboxRun { return r.result }

// Error returns the message of the last failed run, or "".
func (r *Runner) Error() string { return r.errMsg }
