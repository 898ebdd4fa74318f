package audit

import (
	"context"
	"io"

	"github.com/rhysd/actionlint"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
	"github.com/gh-audit/gh-audit/pkg/span"
)

// ActionlintDiagnostics runs actionlint's own rule set over a workflow
// document and surfaces whatever it finds as informational, pedantic-only
// findings. It is a second opinion alongside this package's own audits,
// not a replacement for them: actionlint catches schema and expression
// mistakes this analyzer doesn't attempt to duplicate (job dependency
// cycles, matrix shape errors, shellcheck diagnostics on `run:` blocks
// when a shellcheck binary is on PATH).
type ActionlintDiagnostics struct {
	Base
}

func NewActionlintDiagnostics() *ActionlintDiagnostics {
	return &ActionlintDiagnostics{
		Base: NewBase("actionlint", finding.Informational, false, finding.PersonaPedantic),
	}
}

func (a *ActionlintDiagnostics) OnWorkflow(ctx context.Context, w *model.Workflow, sink finding.Sink) {
	if w.Doc == nil {
		return
	}
	if ctx.Err() != nil {
		return
	}
	linter, err := actionlint.NewLinter(io.Discard, &actionlint.LinterOptions{})
	if err != nil {
		return
	}
	errs, err := linter.Lint(w.Doc.Path, w.Doc.Source, nil)
	if err != nil {
		return
	}
	for _, e := range errs {
		sp := span.Span{
			FileID:    w.Doc.FileID,
			Path:      w.Doc.Path,
			StartLine: e.Line,
			StartCol:  e.Column,
			EndLine:   e.Line,
			EndCol:    e.Column + 1,
		}
		sink.Report(finding.Informational, finding.ConfidenceHigh, e.Message, sp, nil)
	}
}
