// Package result turns a DebugSession snapshot into what the user sees: a
// status banner, a metadata header and exactly one of five section views.
//
// The Presenter holds only the active view. Switching views is a local state
// change; nothing here performs I/O.
package result

import (
	"strings"

	"bugghost-client/models"
)

// View selects one of the five mutually exclusive result sections
type View int

const (
	ViewExplanation View = iota
	ViewFix
	ViewRepro
	ViewTest
	ViewContext
)

// Views lists every view in tab order
var Views = []View{ViewExplanation, ViewFix, ViewRepro, ViewTest, ViewContext}

// Label is the tab title of v
func (v View) Label() string {
	switch v {
	case ViewExplanation:
		return "Root Cause"
	case ViewFix:
		return "Fix Suggestion"
	case ViewRepro:
		return "Repro Code"
	case ViewTest:
		return "Test Code"
	case ViewContext:
		return "Original Error"
	default:
		return "Unknown"
	}
}

func (v View) valid() bool {
	return v >= ViewExplanation && v <= ViewContext
}

// Banner is the three-way presentation of a session status
type Banner int

const (
	BannerProcessing Banner = iota
	BannerSuccess
	BannerFailed
)

// BannerFor maps a status to its banner. Only the status is consulted; an
// unrecognized status is shown as processing since the server has not
// reported an outcome.
func BannerFor(status models.SessionStatus) Banner {
	switch status {
	case models.SessionCompleted:
		return BannerSuccess
	case models.SessionFailed:
		return BannerFailed
	default:
		return BannerProcessing
	}
}

func (b Banner) Label() string {
	switch b {
	case BannerSuccess:
		return "Success"
	case BannerFailed:
		return "Failed"
	default:
		return "Processing"
	}
}

// Placeholders rendered in place of missing artifacts
const (
	NoExplanation   = "No explanation available"
	NoFixSuggestion = "No fix suggestion available"
	NoReproCode     = "No reproduction code available"
	NoTestCode      = "No test code available"
	NotAvailable    = "N/A"
)

// CreatedLayout formats the creation time in the header
const CreatedLayout = "Jan 2, 3:04 PM"

// Block is one titled piece of a section. Code blocks carry the language
// used for highlighting.
type Block struct {
	Title    string
	Body     string
	Code     bool
	Language string
}

// Section is the rendered content of one view
type Section struct {
	View   View
	Title  string
	Blocks []Block
}

// Field is one label/value pair of the header
type Field struct {
	Label string
	Value string
}

// Presenter tracks which view of a session is active.
type Presenter struct {
	session *models.DebugSession
	active  View
}

// New returns a presenter for session with the explanation view active.
func New(session *models.DebugSession) *Presenter {
	return &Presenter{session: session, active: ViewExplanation}
}

func (p *Presenter) Session() *models.DebugSession { return p.session }
func (p *Presenter) Active() View                  { return p.active }

// Select makes v active and reports whether that changed anything.
func (p *Presenter) Select(v View) bool {
	if !v.valid() || v == p.active {
		return false
	}
	p.active = v
	return true
}

// Next moves to the following tab, wrapping around.
func (p *Presenter) Next() {
	p.active = Views[(int(p.active)+1)%len(Views)]
}

// Prev moves to the preceding tab, wrapping around.
func (p *Presenter) Prev() {
	p.active = Views[(int(p.active)+len(Views)-1)%len(Views)]
}

func (p *Presenter) Banner() Banner {
	return BannerFor(p.session.Status)
}

// Header returns the metadata shown above the tabs.
func (p *Presenter) Header() []Field {
	s := p.session
	return []Field{
		{Label: "Language", Value: s.Language},
		{Label: "Runtime", Value: orDefault(models.Value(s.RuntimeInfo), NotAvailable)},
		{Label: "Model", Value: orDefault(models.Value(s.LLMModel), NotAvailable)},
		{Label: "Created", Value: s.CreatedAt.Local().Format(CreatedLayout)},
	}
}

// FailureReason is the server-side error of a failed session, if any.
func (p *Presenter) FailureReason() string {
	if p.Banner() != BannerFailed {
		return ""
	}
	return models.Value(p.session.ErrorMessage)
}

// Section renders the active view.
func (p *Presenter) Section() Section {
	return p.SectionFor(p.active)
}

// SectionFor renders v regardless of which view is active.
func (p *Presenter) SectionFor(v View) Section {
	s := p.session
	switch v {
	case ViewFix:
		return Section{View: v, Title: "Suggested Fix", Blocks: []Block{
			{Body: orDefault(models.Value(s.FixSuggestion), NoFixSuggestion)},
		}}
	case ViewRepro:
		return Section{View: v, Title: "Reproduction Code", Blocks: []Block{
			{Body: orDefault(models.Value(s.ReproCode), NoReproCode), Code: true, Language: s.Language},
		}}
	case ViewTest:
		return Section{View: v, Title: "Unit Test", Blocks: []Block{
			{Body: orDefault(models.Value(s.TestCode), NoTestCode), Code: true, Language: s.Language},
		}}
	case ViewContext:
		blocks := []Block{{Title: "Error Message", Body: s.ErrorText, Code: true}}
		if snippet := models.Value(s.CodeSnippet); strings.TrimSpace(snippet) != "" {
			blocks = append(blocks, Block{Title: "Code Snippet", Body: snippet, Code: true, Language: s.Language})
		}
		if ctx := models.Value(s.ContextDescription); strings.TrimSpace(ctx) != "" {
			blocks = append(blocks, Block{Title: "Context", Body: ctx})
		}
		return Section{View: v, Title: "Original Error", Blocks: blocks}
	default:
		return Section{View: ViewExplanation, Title: "Root Cause Analysis", Blocks: []Block{
			{Body: orDefault(models.Value(s.Explanation), NoExplanation)},
		}}
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
