package session

import (
	"context"
	"strings"

	"bugghost-client/apperrors"
	"bugghost-client/internal/generation"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// State is where a loader is in its one-shot fetch
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateEmpty
	StateFailed
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	case StateFailed:
		return "failed"
	case StateNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Messages shown for loader failures
const (
	ListFailedMessage      = "Failed to load sessions"
	DetailFailedMessage    = "Failed to load session"
	SessionNotFoundMessage = "Session not found"
)

type Lister interface {
	List(ctx context.Context) ([]models.DebugSessionListItem, error)
}

type Getter interface {
	Get(ctx context.Context, id string) (*models.DebugSession, error)
}

type ListOutcome struct {
	Seq   uint64
	Items []models.DebugSessionListItem
	Err   error
}

// ListLoader fetches the session list. It starts in StateLoading and moves
// to Loaded, Empty or Failed; it only loads again on an explicit call.
type ListLoader struct {
	lister Lister
	gen    generation.Counter

	state  State
	items  []models.DebugSessionListItem
	errMsg string
}

func NewListLoader(lister Lister) *ListLoader {
	return &ListLoader{lister: lister, state: StateLoading}
}

// Begin enters StateLoading and returns the sequence number of the fetch.
func (l *ListLoader) Begin() uint64 {
	l.state = StateLoading
	l.errMsg = ""
	return l.gen.Next()
}

func (l *ListLoader) Call(ctx context.Context, seq uint64) ListOutcome {
	items, err := l.lister.List(ctx)
	return ListOutcome{Seq: seq, Items: items, Err: err}
}

func (l *ListLoader) Complete(o ListOutcome) bool {
	if !l.gen.Accept(o.Seq) {
		utils.LogDebug("dropping stale session list #%d", o.Seq)
		return false
	}

	if o.Err != nil {
		utils.LogDebug("session list failed: %v", o.Err)
		l.state = StateFailed
		l.items = nil
		l.errMsg = ListFailedMessage
		return true
	}

	l.items = o.Items
	if len(o.Items) == 0 {
		l.state = StateEmpty
	} else {
		l.state = StateLoaded
	}
	return true
}

// Load fetches the list synchronously.
func (l *ListLoader) Load(ctx context.Context) ([]models.DebugSessionListItem, error) {
	o := l.Call(ctx, l.Begin())
	l.Complete(o)
	return o.Items, o.Err
}

func (l *ListLoader) State() State                         { return l.state }
func (l *ListLoader) Items() []models.DebugSessionListItem { return l.items }
func (l *ListLoader) Error() string                        { return l.errMsg }

type DetailTicket struct {
	Seq uint64
	ID  string
}

type DetailOutcome struct {
	Seq     uint64
	Session *models.DebugSession
	Err     error
}

// DetailLoader fetches a single session by identifier. A session that is
// still processing is reported as loaded; see Watch for explicit polling.
type DetailLoader struct {
	getter Getter
	gen    generation.Counter

	state   State
	id      string
	session *models.DebugSession
	errMsg  string
}

func NewDetailLoader(getter Getter) *DetailLoader {
	return &DetailLoader{getter: getter, state: StateLoading}
}

// Begin enters StateLoading for id. It returns ok=false, and moves straight
// to StateNotFound, when id is blank; no request must be made then.
func (d *DetailLoader) Begin(id string) (DetailTicket, bool) {
	d.id = strings.TrimSpace(id)
	d.session = nil
	d.errMsg = ""
	t := DetailTicket{Seq: d.gen.Next(), ID: d.id}

	if d.id == "" {
		d.gen.Accept(t.Seq)
		d.state = StateNotFound
		d.errMsg = SessionNotFoundMessage
		return t, false
	}

	d.state = StateLoading
	return t, true
}

func (d *DetailLoader) Call(ctx context.Context, t DetailTicket) DetailOutcome {
	session, err := d.getter.Get(ctx, t.ID)
	return DetailOutcome{Seq: t.Seq, Session: session, Err: err}
}

func (d *DetailLoader) Complete(o DetailOutcome) bool {
	if !d.gen.Accept(o.Seq) {
		utils.LogDebug("dropping stale session detail #%d", o.Seq)
		return false
	}

	switch {
	case apperrors.IsNotFound(o.Err):
		d.state = StateNotFound
		d.errMsg = SessionNotFoundMessage
	case o.Err != nil:
		utils.LogDebug("session %s failed to load: %v", d.id, o.Err)
		d.state = StateFailed
		d.errMsg = DetailFailedMessage
	case o.Session == nil:
		d.state = StateNotFound
		d.errMsg = SessionNotFoundMessage
	default:
		d.state = StateLoaded
		d.session = o.Session
	}
	return true
}

// Load fetches the session synchronously.
func (d *DetailLoader) Load(ctx context.Context, id string) (*models.DebugSession, error) {
	t, ok := d.Begin(id)
	if !ok {
		return nil, &apperrors.NotFoundError{Resource: "session", ID: id}
	}
	o := d.Call(ctx, t)
	d.Complete(o)
	return o.Session, o.Err
}

func (d *DetailLoader) ID() string                    { return d.id }
func (d *DetailLoader) State() State                  { return d.state }
func (d *DetailLoader) Session() *models.DebugSession { return d.session }
func (d *DetailLoader) Error() string                 { return d.errMsg }
