package audit

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/gh-audit/gh-audit/pkg/cst"
	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
	"github.com/gh-audit/gh-audit/pkg/span"
)

// Document is one input the driver analyzes: either a workflow or a
// standalone action definition, never both.
type Document struct {
	Path     string
	Source   []byte
	IsAction bool
}

// Driver runs a Registry's enabled audits over a set of input documents.
// Documents are analyzed concurrently on a bounded worker pool (the
// analysis of one document never touches another's state); within one
// document, audits run sequentially in the registry's declared order, so
// a document's own finding order is reproducible regardless of how many
// workers are in flight.
type Driver struct {
	registry   *Registry
	disabled   map[string]bool
	offline    bool
	maxWorkers int
}

// NewDriver builds a Driver. maxWorkers <= 0 means "unbounded" (conc/pool's
// default of one goroutine per task).
func NewDriver(registry *Registry, disabled map[string]bool, offline bool, maxWorkers int) *Driver {
	return &Driver{registry: registry, disabled: disabled, offline: offline, maxWorkers: maxWorkers}
}

// Result is one document's analysis outcome.
type Result struct {
	Path     string
	Findings []finding.Finding
	Err      error // non-nil only when ctx was cancelled before the document started; see Run. A parse failure is a syntax-error finding, not an Err
}

// Run analyzes every document concurrently and returns one Result per
// document, in the same order docs was given (not completion order). A
// caller may cancel ctx to stop the run early: each in-flight audit
// observes cancellation at its next network await point, and any document
// not yet started is skipped.
func (d *Driver) Run(ctx context.Context, fileIDBase int, docs []Document) []Result {
	p := pool.NewWithResults[Result]()
	if d.maxWorkers > 0 {
		p = p.WithMaxGoroutines(d.maxWorkers)
	}

	for i, doc := range docs {
		i, doc := i, doc
		fileID := fileIDBase + i
		p.Go(func() Result {
			return d.runOne(ctx, fileID, doc)
		})
	}
	return p.Wait()
}

func (d *Driver) runOne(ctx context.Context, fileID int, doc Document) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: doc.Path, Err: err}
	}
	enabled := d.registry.Enabled(d.disabled, d.offline)

	if doc.IsAction {
		a, perr := model.LoadAction(fileID, doc.Path, doc.Source)
		if perr != nil {
			return Result{Path: doc.Path, Findings: []finding.Finding{syntaxErrorFinding(perr)}}
		}
		findings := d.analyzeAction(ctx, a, enabled)
		findings = finding.ApplySuppressions(a.Doc, findings)
		return Result{Path: doc.Path, Findings: finding.Normalize(findings)}
	}

	w, perr := model.LoadWorkflow(fileID, doc.Path, doc.Source)
	if perr != nil {
		return Result{Path: doc.Path, Findings: []finding.Finding{syntaxErrorFinding(perr)}}
	}
	findings := d.analyzeWorkflow(ctx, w, enabled)
	findings = finding.ApplySuppressions(w.Doc, findings)
	return Result{Path: doc.Path, Findings: finding.Normalize(findings)}
}

func syntaxErrorFinding(perr *cst.ParseError) finding.Finding {
	return finding.Finding{
		AuditID:     "syntax-error",
		Severity:    finding.High,
		Confidence:  finding.ConfidenceHigh,
		Title:       perr.Message,
		PrimarySpan: perr.Span,
	}
}

func (d *Driver) analyzeWorkflow(ctx context.Context, w *model.Workflow, enabled []Audit) []finding.Finding {
	var out []finding.Finding
	for _, a := range enabled {
		runAuditSafely(a, func(sink finding.Sink) {
			a.OnWorkflow(ctx, w, sink)
		}, &out, w.Feature.Span)

		for _, id := range w.JobOrder {
			job := w.Jobs[id]
			j := job
			runAuditSafely(a, func(sink finding.Sink) {
				a.OnJob(ctx, &j, w, sink)
			}, &out, w.Feature.Span)

			for i := range j.Steps {
				s := j.Steps[i]
				runAuditSafely(a, func(sink finding.Sink) {
					a.OnStep(ctx, &s, &j, w, sink)
				}, &out, w.Feature.Span)
			}
		}
	}
	return out
}

func (d *Driver) analyzeAction(ctx context.Context, a *model.Action, enabled []Audit) []finding.Finding {
	var out []finding.Finding
	for _, aud := range enabled {
		runAuditSafely(aud, func(sink finding.Sink) {
			aud.OnAction(ctx, a, sink)
		}, &out, a.Feature.Span)
	}
	return out
}

// runAuditSafely invokes one audit's entry point under a recover()
// boundary: a panicking audit is isolated (it never brings down the rest
// of the analysis), and contributes a single Unknown-severity finding at
// the document's root span describing the failure, per spec.md §7's
// AuditPanic handling.
func runAuditSafely(a Audit, call func(finding.Sink), out *[]finding.Finding, root span.Span) {
	defer func() {
		if r := recover(); r != nil {
			*out = append(*out, finding.Finding{
				AuditID:     a.ID(),
				Severity:    finding.Unknown,
				Confidence:  finding.ConfidenceLow,
				Title:       fmt.Sprintf("audit %s panicked: %v", a.ID(), r),
				PrimarySpan: root,
			})
		}
	}()
	call(finding.NewSink(a.ID(), a.Persona(), out))
}
