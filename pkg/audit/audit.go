// Package audit drives a registry of named analysis passes over a decoded
// workflow/action model, each emitting findings through a per-document
// finding.Sink.
package audit

import (
	"context"

	"github.com/gh-audit/gh-audit/pkg/finding"
	"github.com/gh-audit/gh-audit/pkg/model"
)

// Audit is one named analysis pass. An audit implements any subset of the
// On* entry points; the zero-value embed Base gives every one of them a
// no-op default so a concrete audit only overrides what it inspects. ctx
// is the driver's per-run context: a network-requiring audit awaits on it
// at every call it makes, so cancelling the driver's context stops an
// in-flight audit at its next network round trip.
type Audit interface {
	ID() string
	LevelFloor() finding.Severity
	RequiresNetwork() bool
	Persona() finding.Persona

	OnWorkflow(ctx context.Context, w *model.Workflow, sink finding.Sink)
	OnJob(ctx context.Context, j *model.Job, w *model.Workflow, sink finding.Sink)
	OnStep(ctx context.Context, s *model.Step, j *model.Job, w *model.Workflow, sink finding.Sink)
	OnAction(ctx context.Context, a *model.Action, sink finding.Sink)
}

// Base gives every entry point a no-op implementation and carries the
// audit's declared identity, so a concrete audit type only needs to embed
// Base and override the On* methods it actually cares about.
type Base struct {
	id         string
	levelFloor finding.Severity
	network    bool
	persona    finding.Persona
}

// NewBase constructs a Base with the audit's declared identity.
func NewBase(id string, levelFloor finding.Severity, requiresNetwork bool, persona finding.Persona) Base {
	return Base{id: id, levelFloor: levelFloor, network: requiresNetwork, persona: persona}
}

func (b Base) ID() string                  { return b.id }
func (b Base) LevelFloor() finding.Severity { return b.levelFloor }
func (b Base) RequiresNetwork() bool        { return b.network }
func (b Base) Persona() finding.Persona     { return b.persona }

func (b Base) OnWorkflow(context.Context, *model.Workflow, finding.Sink)                      {}
func (b Base) OnJob(context.Context, *model.Job, *model.Workflow, finding.Sink)               {}
func (b Base) OnStep(context.Context, *model.Step, *model.Job, *model.Workflow, finding.Sink) {}
func (b Base) OnAction(context.Context, *model.Action, finding.Sink)                          {}
