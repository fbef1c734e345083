// Package session owns the client side of the debug-session lifecycle: local
// validation and submission of an error report, and loading prior sessions
// as a list or one at a time.
//
// Controllers are plain structs driven from a single update loop. Each
// network interaction is split into Begin (mutates state, returns a ticket),
// Call (performs the request, touches no state, safe to run in a tea.Cmd) and
// Complete (applies the outcome). The synchronous helpers chain all three.
package session

import (
	"context"
	"errors"
	"strings"

	"bugghost-client/apperrors"
	"bugghost-client/internal/generation"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// Field names reported in validation errors
const (
	FieldLanguage  = "language"
	FieldErrorText = "error_text"
)

// CreateFailedMessage is shown when the server gave no detail
const CreateFailedMessage = "Failed to create session. Please try again."

// ErrBusy is returned by Begin while a previous submission is in flight.
var ErrBusy = errors.New("a submission is already in flight")

// Creator is the remote operation the Submitter depends on
type Creator interface {
	Create(ctx context.Context, req *models.DebugSessionCreate) (*models.DebugSession, error)
}

// Validate checks the required fields of an error report. It returns nil if
// the report may be submitted.
func Validate(req models.DebugSessionCreate) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	if strings.TrimSpace(req.Language) == "" {
		errs = append(errs, &apperrors.ValidationError{Field: FieldLanguage, Message: "Language is required"})
	}
	if strings.TrimSpace(req.ErrorText) == "" {
		errs = append(errs, &apperrors.ValidationError{Field: FieldErrorText, Message: "Error text is required"})
	}
	return errs
}

type SubmitTicket struct {
	Seq     uint64
	Request models.DebugSessionCreate
}

type SubmitOutcome struct {
	Seq     uint64
	Session *models.DebugSession
	Err     error
}

// Submitter validates and submits error reports
type Submitter struct {
	creator Creator
	gen     generation.Counter

	busy        bool
	fieldErrors apperrors.ValidationErrors
	errMsg      string
	session     *models.DebugSession
}

func NewSubmitter(creator Creator) *Submitter {
	return &Submitter{creator: creator}
}

// Begin validates req and, if it passes, marks the submitter busy. Field
// errors are returned as apperrors.ValidationErrors and no request may be made.
func (s *Submitter) Begin(req models.DebugSessionCreate) (SubmitTicket, error) {
	if s.busy {
		return SubmitTicket{}, ErrBusy
	}

	s.errMsg = ""
	if errs := Validate(req); errs != nil {
		s.fieldErrors = errs
		return SubmitTicket{}, errs
	}
	s.fieldErrors = nil

	s.busy = true
	seq := s.gen.Next()
	utils.LogDebug("submitting debug session #%d (language=%s)", seq, req.Language)
	return SubmitTicket{Seq: seq, Request: req}, nil
}

// Call issues the create request for t. It does not touch controller state.
func (s *Submitter) Call(ctx context.Context, t SubmitTicket) SubmitOutcome {
	req := t.Request
	session, err := s.creator.Create(ctx, &req)
	return SubmitOutcome{Seq: t.Seq, Session: session, Err: err}
}

// Complete applies o and reports whether it was current. The busy flag is
// cleared on success and failure alike.
func (s *Submitter) Complete(o SubmitOutcome) bool {
	if s.gen.Latest(o.Seq) {
		s.busy = false
	}
	if !s.gen.Accept(o.Seq) {
		utils.LogDebug("dropping stale submission outcome #%d", o.Seq)
		return false
	}

	if o.Err != nil {
		s.errMsg = apperrors.Detail(o.Err)
		if s.errMsg == "" {
			s.errMsg = CreateFailedMessage
		}
		utils.LogDebug("submission #%d failed: %v", o.Seq, o.Err)
		return true
	}

	s.session = o.Session
	utils.LogDebug("submission #%d created session %s (%s)", o.Seq, o.Session.ID, o.Session.Status)
	return true
}

// Submit runs a full validate, create, apply cycle.
func (s *Submitter) Submit(ctx context.Context, req models.DebugSessionCreate) (*models.DebugSession, error) {
	t, err := s.Begin(req)
	if err != nil {
		return nil, err
	}
	o := s.Call(ctx, t)
	s.Complete(o)
	if o.Err != nil {
		return nil, o.Err
	}
	return o.Session, nil
}

func (s *Submitter) Busy() bool                              { return s.busy }
func (s *Submitter) FieldErrors() apperrors.ValidationErrors { return s.fieldErrors }

// Error returns the message of the last failed submission, or "".
func (s *Submitter) Error() string { return s.errMsg }

// Session returns the last session handed back by the server.
func (s *Submitter) Session() *models.DebugSession { return s.session }

// Reset returns to the draft state for a new report.
func (s *Submitter) Reset() {
	s.session = nil
	s.errMsg = ""
	s.fieldErrors = nil
}
