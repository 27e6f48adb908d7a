package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anthropics/bulkchange-engine/internal/domain"
	"github.com/anthropics/bulkchange-engine/internal/review"
	"github.com/anthropics/bulkchange-engine/internal/store"
)

// Engine manages bulk change lifecycle state. Every mutation runs in a
// single transaction with optimistic locking on the root row, and derived
// fields are recomputed inside the same transaction.
type Engine struct {
	DB             *sql.DB
	BulkChangeRepo *store.BulkChangeRepo
	ActionRepo     *store.ActionRepo
	ApproverRepo   *store.ApproverRepo
	EventRepo      *store.EventRepo
	SnapshotRepo   *store.SnapshotRepo
	AuditRepo      *store.AuditRepo
	GateRegistry   *StepGateRegistry
	Aggregator     *review.Aggregator

	// ApprovalDueDays is the decision window granted to approvers.
	ApprovalDueDays int
}

// NewEngine creates an engine with all repositories and default gates.
func NewEngine(db *sql.DB) *Engine {
	agg := &review.Aggregator{}
	return &Engine{
		DB:              db,
		BulkChangeRepo:  &store.BulkChangeRepo{},
		ActionRepo:      &store.ActionRepo{},
		ApproverRepo:    &store.ApproverRepo{},
		EventRepo:       &store.EventRepo{},
		SnapshotRepo:    &store.SnapshotRepo{},
		AuditRepo:       &store.AuditRepo{},
		GateRegistry:    NewStepGateRegistry(agg),
		Aggregator:      agg,
		ApprovalDueDays: 3,
	}
}

// Create starts a new draft bulk change. Creation itself completes step 1,
// so new drafts sit on step 2 with step 1 marked done.
func (e *Engine) Create(ctx context.Context, name, description string) (*domain.BulkChange, error) {
	now := time.Now().Unix()
	bc := domain.BulkChange{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    description,
		Status:         domain.StatusDraft,
		CurrentStep:    domain.StepBuildActions,
		CompletedSteps: []domain.Step{domain.StepCreate},
		Actions:        []domain.Action{},
		Approvers:      []domain.ApproverEntry{},
		Validation:     []domain.ValidationItem{},
		StateVersion:   1,
		LastEventSeq:   1, // the creation event uses seq 1
		CreatedAtUnix:  now,
		UpdatedAtUnix:  now,
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := e.BulkChangeRepo.CreateTx(ctx, tx, bc); err != nil {
		return nil, err
	}

	event := domain.WorkflowEvent{
		BulkChangeID: bc.ID,
		SeqNo:        1,
		Step:         domain.StepCreate,
		EventType:    "bulk_change_created",
		PayloadJSON:  fmt.Sprintf(`{"name":%q}`, name),
		CreatedAt:    now,
	}
	if err := e.EventRepo.AppendTx(ctx, tx, event); err != nil {
		return nil, err
	}

	audit := domain.AuditRecord{
		ID:           uuid.NewString(),
		BulkChangeID: bc.ID,
		Category:     "lifecycle",
		Action:       "create",
		DetailJSON:   fmt.Sprintf(`{"name":%q}`, name),
		Severity:     "info",
		CreatedAt:    now,
	}
	if err := e.AuditRepo.RecordTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	log.Info().Str("bulk_change_id", bc.ID).Str("name", name).Msg("bulk change created")
	return &bc, nil
}

// Get loads one bulk change aggregate: root, actions, and approvers.
func (e *Engine) Get(ctx context.Context, id string) (*domain.BulkChange, error) {
	bc, err := e.BulkChangeRepo.GetByID(ctx, e.DB, id)
	if err != nil {
		return nil, err
	}
	if err := e.loadChildren(ctx, e.DB, bc); err != nil {
		return nil, err
	}
	return bc, nil
}

// List returns every bulk change aggregate, newest first.
func (e *Engine) List(ctx context.Context) ([]domain.BulkChange, error) {
	roots, err := e.BulkChangeRepo.List(ctx, e.DB)
	if err != nil {
		return nil, err
	}
	for i := range roots {
		if err := e.loadChildren(ctx, e.DB, &roots[i]); err != nil {
			return nil, err
		}
	}
	return roots, nil
}

func (e *Engine) loadChildren(ctx context.Context, q store.Querier, bc *domain.BulkChange) error {
	actions, err := e.ActionRepo.ListByBulkChange(ctx, q, bc.ID)
	if err != nil {
		return err
	}
	approvers, err := e.ApproverRepo.ListByBulkChange(ctx, q, bc.ID)
	if err != nil {
		return err
	}
	if actions == nil {
		actions = []domain.Action{}
	}
	if approvers == nil {
		approvers = []domain.ApproverEntry{}
	}
	bc.Actions = actions
	bc.Approvers = approvers
	return nil
}

// UpdateInput carries a partial update; nil fields are left untouched.
// The employee count is derived and never caller-settable.
type UpdateInput struct {
	Name          *string
	Description   *string
	Reason        *string
	EffectiveDate *string
}

// Update merges the provided fields into the bulk change.
func (e *Engine) Update(ctx context.Context, id string, in UpdateInput) (*domain.BulkChange, error) {
	return e.mutate(ctx, id, "bulk_change_updated", func(bc *domain.BulkChange) error {
		if bc.Status == domain.StatusCommitted {
			return domain.ErrAlreadyCommitted
		}
		if in.Name != nil {
			bc.Name = *in.Name
		}
		if in.Description != nil {
			bc.Description = *in.Description
		}
		if in.Reason != nil {
			bc.Reason = *in.Reason
		}
		if in.EffectiveDate != nil {
			bc.EffectiveDate = *in.EffectiveDate
		}
		return nil
	})
}

// Delete removes a bulk change and all of its child rows. Workflow events,
// snapshots, and audit records are retained for traceability.
func (e *Engine) Delete(ctx context.Context, id string) error {
	if _, err := e.BulkChangeRepo.GetByID(ctx, e.DB, id); err != nil {
		return err
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := e.ActionRepo.DeleteByBulkChangeTx(ctx, tx, id); err != nil {
		return err
	}
	if err := e.ApproverRepo.DeleteByBulkChangeTx(ctx, tx, id); err != nil {
		return err
	}
	if err := e.BulkChangeRepo.DeleteTx(ctx, tx, id); err != nil {
		return err
	}

	audit := domain.AuditRecord{
		ID:           uuid.NewString(),
		BulkChangeID: id,
		Category:     "lifecycle",
		Action:       "delete",
		DetailJSON:   "{}",
		Severity:     "info",
		CreatedAt:    time.Now().Unix(),
	}
	if err := e.AuditRepo.RecordTx(ctx, tx, audit); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	log.Info().Str("bulk_change_id", id).Msg("bulk change deleted")
	return nil
}

// AddAction appends a built action and recomputes the employee count.
func (e *Engine) AddAction(ctx context.Context, id string, action domain.Action) (*domain.BulkChange, error) {
	return e.mutateWithActions(ctx, id, "action_added", func(ctx context.Context, tx *sql.Tx, bc *domain.BulkChange) error {
		if bc.Status == domain.StatusCommitted {
			return domain.ErrAlreadyCommitted
		}
		action.BulkChangeID = bc.ID
		if action.ID == "" {
			action.ID = uuid.NewString()
		}
		if action.CreatedAtUnix == 0 {
			action.CreatedAtUnix = time.Now().Unix()
		}
		return e.ActionRepo.InsertTx(ctx, tx, action)
	})
}

// UpdateAction replaces an existing action wholesale. An unknown action id
// is an error, not a silent no-op.
func (e *Engine) UpdateAction(ctx context.Context, id string, action domain.Action) (*domain.BulkChange, error) {
	return e.mutateWithActions(ctx, id, "action_updated", func(ctx context.Context, tx *sql.Tx, bc *domain.BulkChange) error {
		if bc.Status == domain.StatusCommitted {
			return domain.ErrAlreadyCommitted
		}
		action.BulkChangeID = bc.ID
		return e.ActionRepo.ReplaceTx(ctx, tx, action)
	})
}

// RemoveAction deletes one action and recomputes the employee count.
func (e *Engine) RemoveAction(ctx context.Context, id, actionID string) (*domain.BulkChange, error) {
	return e.mutateWithActions(ctx, id, "action_removed", func(ctx context.Context, tx *sql.Tx, bc *domain.BulkChange) error {
		if bc.Status == domain.StatusCommitted {
			return domain.ErrAlreadyCommitted
		}
		return e.ActionRepo.DeleteTx(ctx, tx, bc.ID, actionID)
	})
}

// AdvanceStep evaluates the current step's gate and, when allowed, marks
// the step completed and moves forward. Completion is idempotent and the
// step number is capped at the final step.
func (e *Engine) AdvanceStep(ctx context.Context, id string) (*domain.BulkChange, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	gate, err := e.GateRegistry.Get(bc.CurrentStep)
	if err != nil {
		return nil, err
	}
	decision, err := gate.Evaluate(ctx, *bc)
	if err != nil {
		return nil, fmt.Errorf("evaluate gate: %w", err)
	}
	if !decision.Allow {
		return nil, domain.NewEngineError(
			domain.ErrStepGateBlocked.Code,
			fmt.Sprintf("step %d gate blocked: %v", bc.CurrentStep, decision.Blockers),
		)
	}

	now := time.Now().Unix()
	from := bc.CurrentStep
	if !bc.StepCompleted(from) {
		bc.CompletedSteps = append(bc.CompletedSteps, from)
	}
	if bc.CurrentStep < domain.MaxStep {
		bc.CurrentStep++
	}
	bc.UpdatedAtUnix = now

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	payload := fmt.Sprintf(`{"from":%d,"to":%d}`, from, bc.CurrentStep)
	if err := e.appendEventTx(ctx, tx, bc, "step_advanced", payload, now); err != nil {
		return nil, err
	}

	snapJSON, err := json.Marshal(bc)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	snap := domain.StepSnapshot{
		BulkChangeID: bc.ID,
		Step:         bc.CurrentStep,
		SnapshotJSON: string(snapJSON),
		CreatedAt:    now,
	}
	if err := e.SnapshotRepo.SaveTx(ctx, tx, snap); err != nil {
		return nil, err
	}

	if err := e.BulkChangeRepo.UpdateStateTx(ctx, tx, *bc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bc.StateVersion++
	return bc, nil
}

// GoToStep jumps directly to a step without touching the completed set.
func (e *Engine) GoToStep(ctx context.Context, id string, step domain.Step) (*domain.BulkChange, error) {
	if step < domain.MinStep || step > domain.MaxStep {
		return nil, domain.ErrInvalidStep
	}
	return e.mutate(ctx, id, "step_jumped", func(bc *domain.BulkChange) error {
		bc.CurrentStep = step
		return nil
	})
}

// SetEffectiveDate records when the bulk change takes effect.
func (e *Engine) SetEffectiveDate(ctx context.Context, id, date, reason string) (*domain.BulkChange, error) {
	if date == "" {
		return nil, domain.ErrNoEffectiveDate
	}
	return e.mutate(ctx, id, "effective_date_set", func(bc *domain.BulkChange) error {
		if bc.Status == domain.StatusCommitted {
			return domain.ErrAlreadyCommitted
		}
		bc.EffectiveDate = date
		if reason != "" {
			bc.Reason = reason
		}
		return nil
	})
}

// SetValidation replaces the bulk-level validation findings.
func (e *Engine) SetValidation(ctx context.Context, id string, items []domain.ValidationItem) (*domain.BulkChange, error) {
	return e.mutate(ctx, id, "validation_updated", func(bc *domain.BulkChange) error {
		if bc.Status == domain.StatusCommitted {
			return domain.ErrAlreadyCommitted
		}
		if items == nil {
			items = []domain.ValidationItem{}
		}
		bc.Validation = items
		return nil
	})
}

// Events returns the workflow event log past the given sequence number.
func (e *Engine) Events(ctx context.Context, id string, sinceSeq int64) ([]domain.WorkflowEvent, error) {
	if _, err := e.BulkChangeRepo.GetByID(ctx, e.DB, id); err != nil {
		return nil, err
	}
	return e.EventRepo.ListByBulkChange(ctx, e.DB, id, sinceSeq)
}

// Audit returns the audit trail for one bulk change.
func (e *Engine) Audit(ctx context.Context, id string) ([]domain.AuditRecord, error) {
	return e.AuditRepo.ListByBulkChange(ctx, e.DB, id)
}

// mutate runs a plain root mutation in one transaction: load aggregate,
// apply fn, append an event, save with optimistic locking.
func (e *Engine) mutate(ctx context.Context, id, eventType string, fn func(*domain.BulkChange) error) (*domain.BulkChange, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(bc); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	bc.UpdatedAtUnix = now

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := e.appendEventTx(ctx, tx, bc, eventType, "{}", now); err != nil {
		return nil, err
	}
	if err := e.BulkChangeRepo.UpdateStateTx(ctx, tx, *bc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bc.StateVersion++
	return bc, nil
}

// mutateWithActions runs an action-list mutation, then recomputes the
// derived employee count from the post-mutation action set in the same
// transaction.
func (e *Engine) mutateWithActions(ctx context.Context, id, eventType string, fn func(context.Context, *sql.Tx, *domain.BulkChange) error) (*domain.BulkChange, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx, bc); err != nil {
		return nil, err
	}

	actions, err := e.ActionRepo.ListByBulkChange(ctx, tx, bc.ID)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []domain.Action{}
	}
	bc.Actions = actions
	bc.EmployeeCount = distinctEmployeeCount(actions)
	bc.UpdatedAtUnix = now

	if err := e.appendEventTx(ctx, tx, bc, eventType, "{}", now); err != nil {
		return nil, err
	}
	if err := e.BulkChangeRepo.UpdateStateTx(ctx, tx, *bc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bc.StateVersion++
	return bc, nil
}

// appendEventTx allocates the next sequence number on the aggregate and
// writes the event row.
func (e *Engine) appendEventTx(ctx context.Context, tx *sql.Tx, bc *domain.BulkChange, eventType, payload string, now int64) error {
	bc.LastEventSeq++
	event := domain.WorkflowEvent{
		BulkChangeID: bc.ID,
		SeqNo:        bc.LastEventSeq,
		Step:         bc.CurrentStep,
		EventType:    eventType,
		PayloadJSON:  payload,
		CreatedAt:    now,
	}
	return e.EventRepo.AppendTx(ctx, tx, event)
}

// distinctEmployeeCount counts the union of employee ids across actions.
// An employee touched by several actions counts once.
func distinctEmployeeCount(actions []domain.Action) int {
	seen := make(map[string]bool)
	for _, a := range actions {
		for _, ec := range a.Employees {
			seen[ec.EmployeeID] = true
		}
	}
	return len(seen)
}
