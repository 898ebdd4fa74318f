package audit

import (
	"context"
	"fmt"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// dangerousTriggerNames are matched case-sensitively as YAML keys, per
// spec.md §4.4.
var dangerousTriggerNames = []string{"pull_request_target", "workflow_run", "issue_comment"}

// DangerousTriggers flags `on:` triggers that are "almost always used
// insecurely": they run with privileged context (write permissions,
// secrets) against attacker-influenced input.
type DangerousTriggers struct{ Base }

func NewDangerousTriggers() *DangerousTriggers {
	return &DangerousTriggers{Base: NewBase("dangerous-triggers", finding.Medium, false, finding.PersonaRegular)}
}

func (a *DangerousTriggers) OnWorkflow(ctx context.Context, w *model.Workflow, sink finding.Sink) {
	for _, name := range dangerousTriggerNames {
		t, ok := w.On.Triggers[name]
		if !ok {
			continue
		}
		sink.Report(finding.Medium, finding.ConfidenceMedium,
			fmt.Sprintf("%q is a trigger that frequently grants attacker-influenced input privileged access", name),
			t.Feature.Span, nil)
	}
}
