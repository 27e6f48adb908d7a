// Package workflow implements the bulk change lifecycle: the 7-step
// wizard state machine, step gates, approval routing, and commit.
package workflow

import (
	"context"
	"fmt"

	"github.com/anthropics/bulkchange-engine/internal/domain"
	"github.com/anthropics/bulkchange-engine/internal/review"
)

// Gate evaluates whether a bulk change may exit its current step.
type Gate interface {
	Name() string
	Evaluate(ctx context.Context, bc domain.BulkChange) (domain.GateDecision, error)
}

// DefaultGate only refuses committed bulk changes; any draft may move on.
type DefaultGate struct{}

// Name returns the gate name.
func (g *DefaultGate) Name() string {
	return "default"
}

// Evaluate allows the transition unless the change is already committed.
func (g *DefaultGate) Evaluate(ctx context.Context, bc domain.BulkChange) (domain.GateDecision, error) {
	if bc.Status == domain.StatusCommitted {
		return domain.GateDecision{
			Blockers: []string{"bulk change is already committed"},
		}, nil
	}
	return domain.GateDecision{Allow: true}, nil
}

// ReviewGate blocks step exit while blocking validation findings remain.
type ReviewGate struct {
	Aggregator *review.Aggregator
}

// Name returns the gate name.
func (g *ReviewGate) Name() string {
	return "review"
}

// Evaluate refuses the transition while any blocking item is unresolved.
func (g *ReviewGate) Evaluate(ctx context.Context, bc domain.BulkChange) (domain.GateDecision, error) {
	counts := g.Aggregator.Summarize(&bc)
	if counts.Blocking > 0 {
		return domain.GateDecision{
			Blockers: g.Aggregator.Blockers(&bc),
		}, nil
	}
	return domain.GateDecision{Allow: true}, nil
}

// ApprovalGate requires full approval before leaving the approval step.
type ApprovalGate struct{}

// Name returns the gate name.
func (g *ApprovalGate) Name() string {
	return "approval"
}

// Evaluate allows the transition only once every approver has approved
// and the change has moved past draft.
func (g *ApprovalGate) Evaluate(ctx context.Context, bc domain.BulkChange) (domain.GateDecision, error) {
	var blockers []string
	if bc.Status == domain.StatusDraft {
		blockers = append(blockers, "approval has not been requested")
	}
	for _, a := range bc.Approvers {
		if a.Status != domain.ApproverApproved {
			blockers = append(blockers, fmt.Sprintf("%s approval from %s is %s", a.Scope, a.ApproverName, a.Status))
		}
	}
	if len(blockers) > 0 {
		return domain.GateDecision{Blockers: blockers}, nil
	}
	return domain.GateDecision{Allow: true}, nil
}

// StepGateRegistry maps each wizard step to its exit gate.
type StepGateRegistry struct {
	gates map[domain.Step]Gate
}

// NewStepGateRegistry wires the default gates: every step passes freely
// except review, which holds while blocking findings remain, and
// approval, which holds until every approver signs off.
func NewStepGateRegistry(agg *review.Aggregator) *StepGateRegistry {
	defaultGate := &DefaultGate{}
	gates := map[domain.Step]Gate{
		domain.StepCreate:        defaultGate,
		domain.StepBuildActions:  defaultGate,
		domain.StepReview:        &ReviewGate{Aggregator: agg},
		domain.StepEffectiveDate: defaultGate,
		domain.StepSelfApproval:  defaultGate,
		domain.StepApproval:      &ApprovalGate{},
		domain.StepMonitor:       defaultGate,
	}
	return &StepGateRegistry{gates: gates}
}

// Register sets a custom gate for a step.
func (r *StepGateRegistry) Register(step domain.Step, gate Gate) {
	r.gates[step] = gate
}

// Get returns the gate for a step, or an error if none is registered.
func (r *StepGateRegistry) Get(step domain.Step) (Gate, error) {
	g, ok := r.gates[step]
	if !ok {
		return nil, domain.ErrInvalidStep
	}
	return g, nil
}
