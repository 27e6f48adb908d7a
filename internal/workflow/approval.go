package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// ApproverInput describes one approval scope to route.
type ApproverInput struct {
	Scope         string
	EmployeeCount int
	ApproverID    string
	ApproverName  string
	ApproverEmail string
	BackupName    string
	BackupEmail   string
}

// RouteForApproval sends a draft bulk change to its approvers. The
// effective date must be set first; routing moves the status to
// pending_approval and stamps each entry's decision window.
func (e *Engine) RouteForApproval(ctx context.Context, id string, approvers []ApproverInput) (*domain.BulkChange, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if bc.Status != domain.StatusDraft {
		return nil, domain.NewEngineError(
			domain.ErrInvalidStatus.Code,
			fmt.Sprintf("cannot route for approval from status %s", bc.Status),
		)
	}
	if bc.EffectiveDate == "" {
		return nil, domain.ErrNoEffectiveDate
	}

	now := time.Now().Unix()
	dueAt := now + int64(e.ApprovalDueDays)*24*3600

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	entries := make([]domain.ApproverEntry, 0, len(approvers))
	for _, in := range approvers {
		entry := domain.ApproverEntry{
			ID:            uuid.NewString(),
			BulkChangeID:  bc.ID,
			Scope:         in.Scope,
			EmployeeCount: in.EmployeeCount,
			ApproverID:    in.ApproverID,
			ApproverName:  in.ApproverName,
			ApproverEmail: in.ApproverEmail,
			BackupName:    in.BackupName,
			BackupEmail:   in.BackupEmail,
			Status:        domain.ApproverPending,
			SentAtUnix:    now,
			DueAtUnix:     dueAt,
		}
		if err := e.ApproverRepo.InsertTx(ctx, tx, entry); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	bc.Status = domain.StatusPendingApproval
	bc.Approvers = append(bc.Approvers, entries...)
	bc.UpdatedAtUnix = now

	payload := fmt.Sprintf(`{"approver_count":%d}`, len(entries))
	if err := e.appendEventTx(ctx, tx, bc, "approval_requested", payload, now); err != nil {
		return nil, err
	}
	audit := domain.AuditRecord{
		ID:           uuid.NewString(),
		BulkChangeID: bc.ID,
		Category:     "approval",
		Action:       "route",
		DetailJSON:   payload,
		Severity:     "info",
		CreatedAt:    now,
	}
	if err := e.AuditRepo.RecordTx(ctx, tx, audit); err != nil {
		return nil, err
	}
	if err := e.BulkChangeRepo.UpdateStateTx(ctx, tx, *bc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bc.StateVersion++
	log.Info().Str("bulk_change_id", bc.ID).Int("approvers", len(entries)).Msg("routed for approval")
	return bc, nil
}

// RecordDecision applies one approver's verdict. A rejected entry keeps
// the bulk change in pending_approval; once every entry is approved, the
// bulk change becomes approved.
func (e *Engine) RecordDecision(ctx context.Context, id, approverEntryID string, approve bool, actor string) (*domain.BulkChange, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if bc.Status != domain.StatusPendingApproval {
		return nil, domain.NewEngineError(
			domain.ErrInvalidStatus.Code,
			fmt.Sprintf("cannot record a decision in status %s", bc.Status),
		)
	}

	idx := -1
	for i, a := range bc.Approvers {
		if a.ID == approverEntryID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, domain.ErrApproverNotFound
	}
	entry := &bc.Approvers[idx]
	if entry.Status == domain.ApproverApproved || entry.Status == domain.ApproverRejected {
		return nil, domain.ErrApproverDecided
	}

	now := time.Now().Unix()
	verdict := domain.ApproverRejected
	if approve {
		verdict = domain.ApproverApproved
	}
	entry.Status = verdict
	entry.DecidedAtUnix = now

	if bc.FullyApproved() {
		bc.Status = domain.StatusApproved
	}
	bc.UpdatedAtUnix = now

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := e.ApproverRepo.UpdateStatusTx(ctx, tx, entry.ID, verdict, now); err != nil {
		return nil, err
	}

	payload := fmt.Sprintf(`{"approver_id":%q,"scope":%q,"verdict":%q}`, entry.ID, entry.Scope, verdict)
	if err := e.appendEventTx(ctx, tx, bc, "approval_decision", payload, now); err != nil {
		return nil, err
	}
	audit := domain.AuditRecord{
		ID:           uuid.NewString(),
		BulkChangeID: bc.ID,
		Category:     "approval",
		Actor:        actor,
		Action:       string(verdict),
		DetailJSON:   payload,
		Severity:     "info",
		CreatedAt:    now,
	}
	if err := e.AuditRepo.RecordTx(ctx, tx, audit); err != nil {
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

// MarkOverdue flips pending approver entries whose decision window has
// passed. It reports how many entries changed.
func (e *Engine) MarkOverdue(ctx context.Context, id string, now time.Time) (*domain.BulkChange, int, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	nowUnix := now.Unix()
	var overdue []string
	for i := range bc.Approvers {
		a := &bc.Approvers[i]
		if a.Status == domain.ApproverPending && a.DueAtUnix > 0 && a.DueAtUnix < nowUnix {
			a.Status = domain.ApproverOverdue
			overdue = append(overdue, a.ID)
		}
	}
	if len(overdue) == 0 {
		return bc, 0, nil
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, entryID := range overdue {
		if err := e.ApproverRepo.UpdateStatusTx(ctx, tx, entryID, domain.ApproverOverdue, 0); err != nil {
			return nil, 0, err
		}
	}

	bc.UpdatedAtUnix = nowUnix
	payload := fmt.Sprintf(`{"overdue_count":%d}`, len(overdue))
	if err := e.appendEventTx(ctx, tx, bc, "approvals_overdue", payload, nowUnix); err != nil {
		return nil, 0, err
	}
	if err := e.BulkChangeRepo.UpdateStateTx(ctx, tx, *bc); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit tx: %w", err)
	}

	bc.StateVersion++
	return bc, len(overdue), nil
}

// Commit finalizes a fully approved bulk change: all or nothing. The
// status becomes committed and the wizard lands on the monitoring step.
func (e *Engine) Commit(ctx context.Context, id, actor string) (*domain.BulkChange, error) {
	bc, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if bc.Status == domain.StatusCommitted {
		return nil, domain.ErrAlreadyCommitted
	}
	if bc.Status != domain.StatusApproved || !bc.FullyApproved() {
		return nil, domain.ErrNotFullyApproved
	}

	now := time.Now().Unix()
	if !bc.StepCompleted(domain.StepApproval) {
		bc.CompletedSteps = append(bc.CompletedSteps, domain.StepApproval)
	}
	bc.Status = domain.StatusCommitted
	bc.CurrentStep = domain.StepMonitor
	bc.UpdatedAtUnix = now

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	payload := fmt.Sprintf(`{"employee_count":%d,"action_count":%d}`, bc.EmployeeCount, len(bc.Actions))
	if err := e.appendEventTx(ctx, tx, bc, "committed", payload, now); err != nil {
		return nil, err
	}

	snapJSON, err := json.Marshal(bc)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	snap := domain.StepSnapshot{
		BulkChangeID: bc.ID,
		Step:         domain.StepMonitor,
		SnapshotJSON: string(snapJSON),
		CreatedAt:    now,
	}
	if err := e.SnapshotRepo.SaveTx(ctx, tx, snap); err != nil {
		return nil, err
	}

	audit := domain.AuditRecord{
		ID:           uuid.NewString(),
		BulkChangeID: bc.ID,
		Category:     "lifecycle",
		Actor:        actor,
		Action:       "commit",
		DetailJSON:   payload,
		Severity:     "info",
		CreatedAt:    now,
	}
	if err := e.AuditRepo.RecordTx(ctx, tx, audit); err != nil {
		return nil, err
	}

	if err := e.BulkChangeRepo.UpdateStateTx(ctx, tx, *bc); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	bc.StateVersion++
	log.Info().Str("bulk_change_id", bc.ID).Int("employees", bc.EmployeeCount).Msg("bulk change committed")
	return bc, nil
}
