package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/anthropics/bulkchange-engine/internal/domain"
	"github.com/anthropics/bulkchange-engine/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	db, err := store.NewDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEngine(db)
}

// engineErrCode reports whether err carries the given engine error code,
// directly or wrapped.
func engineErrCode(err error, want *domain.EngineError) bool {
	var ee *domain.EngineError
	if errors.As(err, &ee) {
		return ee.Code == want.Code
	}
	return false
}

func compAction(id string, employeeIDs ...string) domain.Action {
	emps := make([]domain.EmployeeChange, 0, len(employeeIDs))
	for _, eid := range employeeIDs {
		delta := 5000.0
		emps = append(emps, domain.EmployeeChange{
			EmployeeID: eid,
			Changes:    map[string]domain.Change{"salary": {Current: 100000.0, New: 105000.0, Delta: &delta}},
		})
	}
	return domain.Action{
		ID:            id,
		Type:          domain.ActionUpdateCompensation,
		Name:          "Merit increases",
		Attributes:    []string{"salary"},
		Employees:     emps,
		EmployeeCount: len(emps),
		Summary:       domain.Summary{Kind: domain.SummaryHeadcount, EmployeeCount: len(emps)},
	}
}

func TestEngine_Create(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Q3 Compensation Cycle", "Annual merit increases")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if bc.Status != domain.StatusDraft {
		t.Errorf("status = %q, want draft", bc.Status)
	}
	if bc.CurrentStep != domain.StepBuildActions {
		t.Errorf("current step = %d, want 2", bc.CurrentStep)
	}
	if len(bc.CompletedSteps) != 1 || bc.CompletedSteps[0] != domain.StepCreate {
		t.Errorf("completed steps = %v, want [1]", bc.CompletedSteps)
	}
	if bc.EmployeeCount != 0 {
		t.Errorf("employee count = %d, want 0", bc.EmployeeCount)
	}

	got, err := e.Get(ctx, bc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Q3 Compensation Cycle" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Actions == nil || got.Approvers == nil {
		t.Error("children should load as empty slices, not nil")
	}
}

func TestEngine_GetMissing(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Get(context.Background(), "nope")
	if !engineErrCode(err, domain.ErrBulkChangeNotFound) {
		t.Errorf("Get(missing) = %v, want ErrBulkChangeNotFound", err)
	}
}

func TestEngine_Update(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Original", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Renamed"
	reason := "Performance cycle"
	got, err := e.Update(ctx, bc.ID, UpdateInput{Name: &name, Reason: &reason})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Renamed" || got.Reason != "Performance cycle" {
		t.Errorf("updated = %q / %q", got.Name, got.Reason)
	}
	// Untouched fields survive a partial update.
	if got.Status != domain.StatusDraft {
		t.Errorf("status = %q", got.Status)
	}
	if got.StateVersion != bc.StateVersion+1 {
		t.Errorf("state version = %d, want %d", got.StateVersion, bc.StateVersion+1)
	}
}

func TestEngine_EmployeeCountIsDistinctUnion(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Transfers", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := e.AddAction(ctx, bc.ID, compAction("act-1", "EMP0001", "EMP0002"))
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if got.EmployeeCount != 2 {
		t.Errorf("employee count = %d, want 2", got.EmployeeCount)
	}

	// Overlapping selection counts each employee once.
	got, err = e.AddAction(ctx, bc.ID, compAction("act-2", "EMP0002", "EMP0003"))
	if err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if got.EmployeeCount != 3 {
		t.Errorf("employee count after overlap = %d, want 3", got.EmployeeCount)
	}

	got, err = e.RemoveAction(ctx, bc.ID, "act-1")
	if err != nil {
		t.Fatalf("RemoveAction: %v", err)
	}
	if got.EmployeeCount != 2 {
		t.Errorf("employee count after removal = %d, want 2", got.EmployeeCount)
	}

	got, err = e.RemoveAction(ctx, bc.ID, "act-2")
	if err != nil {
		t.Fatalf("RemoveAction: %v", err)
	}
	if got.EmployeeCount != 0 {
		t.Errorf("employee count with no actions = %d, want 0", got.EmployeeCount)
	}
}

func TestEngine_UpdateActionMissing(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Transfers", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = e.UpdateAction(ctx, bc.ID, compAction("act-missing", "EMP0001"))
	if !engineErrCode(err, domain.ErrActionNotFound) {
		t.Errorf("UpdateAction(missing) = %v, want ErrActionNotFound", err)
	}
}

func TestEngine_RemoveActionMissing(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Transfers", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = e.RemoveAction(ctx, bc.ID, "act-missing")
	if !engineErrCode(err, domain.ErrActionNotFound) {
		t.Errorf("RemoveAction(missing) = %v, want ErrActionNotFound", err)
	}
}

func TestEngine_AdvanceStep(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Wizard", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := e.AdvanceStep(ctx, bc.ID)
	if err != nil {
		t.Fatalf("AdvanceStep: %v", err)
	}
	if got.CurrentStep != domain.StepReview {
		t.Errorf("current step = %d, want 3", got.CurrentStep)
	}
	if !got.StepCompleted(domain.StepBuildActions) {
		t.Errorf("step 2 not in completed set: %v", got.CompletedSteps)
	}
}

func TestEngine_AdvanceStep_IdempotentCompletion(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Wizard", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Revisit step 2 and advance again; the completed set must not grow.
	if _, err := e.AdvanceStep(ctx, bc.ID); err != nil {
		t.Fatalf("AdvanceStep: %v", err)
	}
	if _, err := e.GoToStep(ctx, bc.ID, domain.StepBuildActions); err != nil {
		t.Fatalf("GoToStep: %v", err)
	}
	got, err := e.AdvanceStep(ctx, bc.ID)
	if err != nil {
		t.Fatalf("AdvanceStep: %v", err)
	}

	seen := 0
	for _, s := range got.CompletedSteps {
		if s == domain.StepBuildActions {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("step 2 appears %d times in %v, want once", seen, got.CompletedSteps)
	}
}

func TestEngine_ReviewGateBlocksOnBlockingFindings(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Relocation", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.AdvanceStep(ctx, bc.ID); err != nil {
		t.Fatalf("advance to review: %v", err)
	}

	_, err = e.SetValidation(ctx, bc.ID, []domain.ValidationItem{
		{Type: domain.ValidationError, Code: "visa_hold", Message: "Legal review required", Count: 11, Blocking: true},
	})
	if err != nil {
		t.Fatalf("SetValidation: %v", err)
	}

	_, err = e.AdvanceStep(ctx, bc.ID)
	if !engineErrCode(err, domain.ErrStepGateBlocked) {
		t.Fatalf("AdvanceStep with blocking findings = %v, want ErrStepGateBlocked", err)
	}

	// Clearing the findings unblocks the gate.
	if _, err := e.SetValidation(ctx, bc.ID, nil); err != nil {
		t.Fatalf("SetValidation(nil): %v", err)
	}
	got, err := e.AdvanceStep(ctx, bc.ID)
	if err != nil {
		t.Fatalf("AdvanceStep after clearing: %v", err)
	}
	if got.CurrentStep != domain.StepEffectiveDate {
		t.Errorf("current step = %d, want 4", got.CurrentStep)
	}
}

func TestEngine_ReviewGateAllowsWarnings(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Raises", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.AdvanceStep(ctx, bc.ID); err != nil {
		t.Fatalf("advance to review: %v", err)
	}
	_, err = e.SetValidation(ctx, bc.ID, []domain.ValidationItem{
		{Type: domain.ValidationWarning, Code: "large_change", Message: "Raise exceeds threshold", Count: 4},
	})
	if err != nil {
		t.Fatalf("SetValidation: %v", err)
	}
	if _, err := e.AdvanceStep(ctx, bc.ID); err != nil {
		t.Errorf("warnings should not block review exit: %v", err)
	}
}

func TestEngine_GoToStepOutOfRange(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Wizard", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.GoToStep(ctx, bc.ID, 0); !engineErrCode(err, domain.ErrInvalidStep) {
		t.Errorf("GoToStep(0) = %v, want ErrInvalidStep", err)
	}
	if _, err := e.GoToStep(ctx, bc.ID, 8); !engineErrCode(err, domain.ErrInvalidStep) {
		t.Errorf("GoToStep(8) = %v, want ErrInvalidStep", err)
	}
	got, err := e.GoToStep(ctx, bc.ID, domain.StepEffectiveDate)
	if err != nil {
		t.Fatalf("GoToStep(4): %v", err)
	}
	if got.CurrentStep != domain.StepEffectiveDate {
		t.Errorf("current step = %d, want 4", got.CurrentStep)
	}
}

func TestEngine_SetEffectiveDate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Schedule", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.SetEffectiveDate(ctx, bc.ID, "", ""); !engineErrCode(err, domain.ErrNoEffectiveDate) {
		t.Errorf("blank date = %v, want ErrNoEffectiveDate", err)
	}
	got, err := e.SetEffectiveDate(ctx, bc.ID, "2026-10-01", "Start of Q4 payroll")
	if err != nil {
		t.Fatalf("SetEffectiveDate: %v", err)
	}
	if got.EffectiveDate != "2026-10-01" || got.Reason != "Start of Q4 payroll" {
		t.Errorf("date/reason = %q / %q", got.EffectiveDate, got.Reason)
	}
}

func TestEngine_Delete(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Ephemeral", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.AddAction(ctx, bc.ID, compAction("act-1", "EMP0001")); err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if err := e.Delete(ctx, bc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := e.Get(ctx, bc.ID); !engineErrCode(err, domain.ErrBulkChangeNotFound) {
		t.Errorf("Get after delete = %v, want ErrBulkChangeNotFound", err)
	}
	// Audit survives deletion.
	records, err := e.Audit(ctx, bc.ID)
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(records) == 0 {
		t.Error("audit trail was lost on delete")
	}
}

func TestEngine_EventLog(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Observable", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.AddAction(ctx, bc.ID, compAction("act-1", "EMP0001")); err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if _, err := e.AdvanceStep(ctx, bc.ID); err != nil {
		t.Fatalf("AdvanceStep: %v", err)
	}

	events, err := e.Events(ctx, bc.ID, 0)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	wantTypes := []string{"bulk_change_created", "action_added", "step_advanced"}
	for i, want := range wantTypes {
		if events[i].EventType != want {
			t.Errorf("event %d = %q, want %q", i, events[i].EventType, want)
		}
		if events[i].SeqNo != int64(i+1) {
			t.Errorf("event %d seq = %d, want %d", i, events[i].SeqNo, i+1)
		}
	}

	// sinceSeq filters already-seen events.
	tail, err := e.Events(ctx, bc.ID, 2)
	if err != nil {
		t.Fatalf("Events(since 2): %v", err)
	}
	if len(tail) != 1 || tail[0].EventType != "step_advanced" {
		t.Errorf("tail = %+v", tail)
	}

	if _, err := e.Events(ctx, "nope", 0); !engineErrCode(err, domain.ErrBulkChangeNotFound) {
		t.Errorf("Events(missing) = %v, want ErrBulkChangeNotFound", err)
	}
}

func TestEngine_SnapshotAtStepBoundary(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	bc, err := e.Create(ctx, "Snapshots", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := e.AdvanceStep(ctx, bc.ID); err != nil {
		t.Fatalf("AdvanceStep: %v", err)
	}

	snap, err := e.SnapshotRepo.GetLatest(ctx, e.DB, bc.ID, domain.StepReview)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if snap == nil {
		t.Fatal("no snapshot written at step boundary")
	}
}
