package sandbox

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"bugghost-client/apperrors"
	"bugghost-client/internal/generation"
	"bugghost-client/internal/utils"
	"bugghost-client/models"
)

// RequiredImages are the image tags that must all be present for the
// sandbox to be ready
var RequiredImages = []string{
	"bug-ghost-sandbox-python:latest",
	"bug-ghost-sandbox-node:latest",
	"bug-ghost-sandbox-java:latest",
}

// BuildFailedMessage is shown when a build fails without a server detail or
// transport message
const BuildFailedMessage = "Build failed"

// ImageService is the remote surface the Readiness controller depends on
type ImageService interface {
	Images(ctx context.Context) (models.ImageStatus, error)
	BuildImages(ctx context.Context, languages []string) (map[string]models.BuildResult, error)
}

// Ready reports whether every required image is present in status.
func Ready(status models.ImageStatus) bool {
	for _, img := range RequiredImages {
		if !status[img] {
			return false
		}
	}
	return true
}

// FormatBuildLogs renders build results as one block per language, in
// language order, separated by a blank line.
func FormatBuildLogs(results map[string]models.BuildResult) string {
	blocks := make([]string, 0, len(results))
	for _, lang := range sortedKeys(results) {
		res := results[lang]
		blocks = append(blocks, fmt.Sprintf("=== %s (%s) ===\n%s", lang, res.Image, strings.Join(res.Logs, "\n")))
	}
	return strings.Join(blocks, "\n\n")
}

type CheckOutcome struct {
	Seq    uint64
	Status models.ImageStatus
	Err    error
}

type BuildOutcome struct {
	Seq     uint64
	Results map[string]models.BuildResult
	Err     error
}

// Readiness tracks image presence and drives image builds.
type Readiness struct {
	images   ImageService
	checkGen generation.Counter
	buildGen generation.Counter

	checked  bool
	ready    bool
	building bool
	logs     string
	errMsg   string
	buildErr error
}

func NewReadiness(images ImageService) *Readiness {
	return &Readiness{images: images}
}

// BeginCheck returns the sequence number for a new presence check.
func (r *Readiness) BeginCheck() uint64 {
	return r.checkGen.Next()
}

// CallCheck queries image presence without touching controller state.
func (r *Readiness) CallCheck(ctx context.Context, seq uint64) CheckOutcome {
	status, err := r.images.Images(ctx)
	return CheckOutcome{Seq: seq, Status: status, Err: err}
}

// CompleteCheck applies o. Any failure counts as not ready.
func (r *Readiness) CompleteCheck(o CheckOutcome) bool {
	if !r.checkGen.Accept(o.Seq) {
		utils.LogDebug("dropping stale image check #%d", o.Seq)
		return false
	}

	r.checked = true
	if o.Err != nil {
		r.ready = false
		utils.LogDebug("image check #%d failed: %v", o.Seq, o.Err)
		return true
	}

	r.ready = Ready(o.Status)
	utils.LogDebug("image check #%d: ready=%t", o.Seq, r.ready)
	return true
}

// Check refreshes Ready from the executor.
func (r *Readiness) Check(ctx context.Context) bool {
	r.CompleteCheck(r.CallCheck(ctx, r.BeginCheck()))
	return r.ready
}

// BeginBuild marks a build in flight and clears the previous logs and errors.
// It returns false if a build is already running.
func (r *Readiness) BeginBuild() (uint64, bool) {
	if r.building {
		return 0, false
	}
	r.building = true
	r.logs = ""
	r.errMsg = ""
	r.buildErr = nil
	seq := r.buildGen.Next()
	utils.LogDebug("building sandbox images #%d", seq)
	return seq, true
}

// CallBuild requests a build of every sandbox language.
func (r *Readiness) CallBuild(ctx context.Context, seq uint64) BuildOutcome {
	langs := append([]string(nil), Languages...)
	results, err := r.images.BuildImages(ctx, langs)
	return BuildOutcome{Seq: seq, Results: results, Err: err}
}

// CompleteBuild applies o and reports whether a follow-up Check should run.
// A failed build leaves Ready unchanged.
func (r *Readiness) CompleteBuild(o BuildOutcome) bool {
	if r.buildGen.Latest(o.Seq) {
		r.building = false
	}
	if !r.buildGen.Accept(o.Seq) {
		utils.LogDebug("dropping stale build outcome #%d", o.Seq)
		return false
	}

	if o.Err != nil {
		r.errMsg = apperrors.Message(o.Err, BuildFailedMessage)
		utils.LogDebug("image build #%d failed: %v", o.Seq, o.Err)
		return false
	}

	r.logs = FormatBuildLogs(o.Results)

	var result *multierror.Error
	for _, lang := range sortedKeys(o.Results) {
		if msg := o.Results[lang].Error; msg != "" {
			result = multierror.Append(result, fmt.Errorf("%s: %s", lang, msg))
		}
	}
	r.buildErr = result.ErrorOrNil()

	utils.LogDebug("image build #%d finished for %d languages", o.Seq, len(o.Results))
	return true
}

// BuildAll builds every image and then re-checks presence.
func (r *Readiness) BuildAll(ctx context.Context) error {
	seq, ok := r.BeginBuild()
	if !ok {
		return ErrBusy
	}
	o := r.CallBuild(ctx, seq)
	if r.CompleteBuild(o) {
		r.Check(ctx)
	}
	return o.Err
}

// Checked reports whether any check has completed.
func (r *Readiness) Checked() bool  { return r.checked }
func (r *Readiness) Ready() bool    { return r.ready }
func (r *Readiness) Building() bool { return r.building }

// Logs returns the formatted output of the last successful build.
func (r *Readiness) Logs() string { return r.logs }

// Error returns the message of the last failed build, or "".
func (r *Readiness) Error() string { return r.errMsg }

// BuildErrors aggregates the per-language failures reported by the last
// build, or nil if every language built.
func (r *Readiness) BuildErrors() error { return r.buildErr }

func sortedKeys(m map[string]models.BuildResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
