package ipc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/anthropics/bulkchange-engine/internal/builder"
	"github.com/anthropics/bulkchange-engine/internal/catalog"
	"github.com/anthropics/bulkchange-engine/internal/directory"
	"github.com/anthropics/bulkchange-engine/internal/domain"
	"github.com/anthropics/bulkchange-engine/internal/impact"
	"github.com/anthropics/bulkchange-engine/internal/store"
	"github.com/anthropics/bulkchange-engine/internal/workflow"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	db, err := store.NewDB(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	employees := directory.Generate(1, 240)
	cat := catalog.New()
	h := &Handler{
		Engine:   workflow.NewEngine(db),
		Builder:  builder.New(employees, cat),
		Catalog:  cat,
		Dir:      employees,
		Reporter: impact.NewReporter(1),
	}
	srv := NewServer(h, ":0")
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func createBulkChange(t *testing.T, ts *httptest.Server, name string) domain.BulkChange {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/bulk-changes",
		map[string]string{"name": name, "description": "integration test"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var bc domain.BulkChange
	if err := json.Unmarshal(body, &bc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return bc
}

func TestAPI_Health(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestAPI_CreateAndGet(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Q3 Compensation Cycle")

	if bc.Status != domain.StatusDraft || bc.CurrentStep != domain.StepBuildActions {
		t.Errorf("created = %q step %d", bc.Status, bc.CurrentStep)
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/bulk-changes/"+bc.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d: %s", resp.StatusCode, body)
	}
	var got domain.BulkChange
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Q3 Compensation Cycle" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestAPI_CreateValidation(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/bulk-changes", map[string]string{"description": "no name"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var verr ValidationErrorResponse
	if err := json.Unmarshal(body, &verr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if verr.Fields["Name"] != "required" {
		t.Errorf("fields = %v, want Name: required", verr.Fields)
	}
}

func TestAPI_GetMissing(t *testing.T) {
	ts := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/bulk-changes/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != domain.ErrBulkChangeNotFound.Code {
		t.Errorf("code = %d", apiErr.Code)
	}
}

func TestAPI_ActionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Merit Raises")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/bulk-changes/"+bc.ID+"/actions", map[string]any{
		"type":           "update_compensation",
		"attributes":     []string{"salary"},
		"employee_ids":   []string{"EMP0001", "EMP0002"},
		"mode":           "uniform",
		"uniform_values": map[string]any{"salary": 150000},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add action status = %d: %s", resp.StatusCode, body)
	}
	var got domain.BulkChange
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Actions) != 1 {
		t.Fatalf("actions = %d, want 1", len(got.Actions))
	}
	if got.EmployeeCount != 2 {
		t.Errorf("employee count = %d, want 2", got.EmployeeCount)
	}
	actionID := got.Actions[0].ID

	resp, body = doJSON(t, http.MethodDelete,
		ts.URL+"/api/v1/bulk-changes/"+bc.ID+"/actions/"+actionID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove action status = %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.EmployeeCount != 0 {
		t.Errorf("employee count after removal = %d, want 0", got.EmployeeCount)
	}
}

func TestAPI_ActionBadAttribute(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Bad Action")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/bulk-changes/"+bc.ID+"/actions", map[string]any{
		"type":           "custom",
		"attributes":     []string{"compaRatio"},
		"employee_ids":   []string{"EMP0001"},
		"mode":           "uniform",
		"uniform_values": map[string]any{"compaRatio": 1.1},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != domain.ErrAttributeNotEditable.Code {
		t.Errorf("code = %d, want %d", apiErr.Code, domain.ErrAttributeNotEditable.Code)
	}
}

func TestAPI_FullLifecycle(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Office Consolidation")
	base := ts.URL + "/api/v1/bulk-changes/" + bc.ID

	// Build one action, walk the wizard forward.
	resp, body := doJSON(t, http.MethodPost, base+"/actions", map[string]any{
		"type":           "update_compensation",
		"attributes":     []string{"salary"},
		"employee_ids":   []string{"EMP0003"},
		"mode":           "uniform",
		"uniform_values": map[string]any{"salary": 260000},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add action: %d %s", resp.StatusCode, body)
	}

	// Step 2 -> 3, 3 -> 4.
	for i := 0; i < 2; i++ {
		resp, body = doJSON(t, http.MethodPost, base+"/advance", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("advance %d: %d %s", i, resp.StatusCode, body)
		}
	}

	resp, body = doJSON(t, http.MethodPost, base+"/effective-date",
		map[string]string{"effective_date": "2026-10-01", "reason": "Q4 payroll start"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("effective date: %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, base+"/route", map[string]any{
		"approvers": []map[string]any{
			{"scope": "Engineering", "employee_count": 1, "approver_id": "EMP0001"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("route: %d %s", resp.StatusCode, body)
	}
	var routed domain.BulkChange
	if err := json.Unmarshal(body, &routed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if routed.Status != domain.StatusPendingApproval || len(routed.Approvers) != 1 {
		t.Fatalf("routed = %q with %d approvers", routed.Status, len(routed.Approvers))
	}

	// Commit before approval must be refused.
	resp, body = doJSON(t, http.MethodPost, base+"/commit", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("early commit: %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, base+"/decisions", map[string]string{
		"approver_entry_id": routed.Approvers[0].ID,
		"decision":          "approve",
		"actor":             "sarah.kim",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("decision: %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, base+"/commit", map[string]string{"actor": "hr_admin"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit: %d %s", resp.StatusCode, body)
	}
	var committed domain.BulkChange
	if err := json.Unmarshal(body, &committed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if committed.Status != domain.StatusCommitted || committed.CurrentStep != domain.StepMonitor {
		t.Errorf("committed = %q step %d", committed.Status, committed.CurrentStep)
	}

	// A second commit conflicts.
	resp, body = doJSON(t, http.MethodPost, base+"/commit", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("double commit: %d %s", resp.StatusCode, body)
	}

	// Monitoring is available only now.
	resp, body = doJSON(t, http.MethodGet, base+"/monitoring", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("monitoring: %d %s", resp.StatusCode, body)
	}

	// The event log recorded the whole journey.
	resp, body = doJSON(t, http.MethodGet, base+"/events", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("events: %d %s", resp.StatusCode, body)
	}
	var events []domain.WorkflowEvent
	if err := json.Unmarshal(body, &events); err != nil {
		t.Fatalf("decode: %v", err)
	}
	last := events[len(events)-1]
	if last.EventType != "committed" {
		t.Errorf("last event = %q", last.EventType)
	}
}

func TestAPI_MonitoringBeforeCommit(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Draft Only")

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/bulk-changes/"+bc.ID+"/monitoring", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
}

func TestAPI_ValidationSummary(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Relocation")
	base := ts.URL + "/api/v1/bulk-changes/" + bc.ID

	// Relocating the visa-holding SF filler employees produces blocking
	// findings on the affected rows.
	resp, body := doJSON(t, http.MethodPost, base+"/actions", map[string]any{
		"type":           "reassign_location",
		"attributes":     []string{"location"},
		"employee_ids":   []string{"EMP0133"},
		"mode":           "uniform",
		"uniform_values": map[string]any{"location": "Austin"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add action: %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, base+"/validation", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validation: %d %s", resp.StatusCode, body)
	}
	var summary struct {
		Counts   domain.ValidationCounts `json:"counts"`
		Blockers []string                `json:"blockers"`
	}
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if summary.Counts.Errors == 0 || len(summary.Blockers) == 0 {
		t.Errorf("expected blocking findings for a visa holder relocation, got %+v", summary)
	}
}

func TestAPI_Impact(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Raises")
	base := ts.URL + "/api/v1/bulk-changes/" + bc.ID

	resp, body := doJSON(t, http.MethodPost, base+"/actions", map[string]any{
		"type":           "update_compensation",
		"attributes":     []string{"salary"},
		"employee_ids":   []string{"EMP0001"},
		"mode":           "uniform",
		"uniform_values": map[string]any{"salary": 300000},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add action: %d %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodGet, base+"/impact", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("impact: %d %s", resp.StatusCode, body)
	}
	var report impact.Report
	if err := json.Unmarshal(body, &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, app := range report.PlatformApps {
		if app.ID == "payroll" {
			found = true
		}
	}
	if !found {
		t.Errorf("salary change did not report Payroll: %+v", report.PlatformApps)
	}
}

func TestAPI_Employees(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/employees?department=AI/ML&location=San+Francisco", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: %d %s", resp.StatusCode, body)
	}
	var emps []domain.Employee
	if err := json.Unmarshal(body, &emps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(emps) == 0 {
		t.Error("filtered employee list is empty")
	}
	for _, e := range emps {
		if e.Department != "AI/ML" || e.Location != "San Francisco" {
			t.Errorf("filter leaked %s (%s, %s)", e.ID, e.Department, e.Location)
		}
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/v1/employees/EMP0001", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get employee: %d %s", resp.StatusCode, body)
	}
	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/employees/EMP9999", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing employee status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, ts.URL+"/api/v1/employees/resolve",
		map[string]any{"refs": []string{"EMP0001", "nobody@company.com"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve: %d %s", resp.StatusCode, body)
	}
	var resolved struct {
		Matched   []domain.Employee `json:"matched"`
		Unmatched []string          `json:"unmatched"`
	}
	if err := json.Unmarshal(body, &resolved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resolved.Matched) != 1 || len(resolved.Unmatched) != 1 {
		t.Errorf("resolved = %d matched, %d unmatched", len(resolved.Matched), len(resolved.Unmatched))
	}
}

func TestAPI_Catalog(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/v1/catalog/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories: %d %s", resp.StatusCode, body)
	}
	var categories []json.RawMessage
	if err := json.Unmarshal(body, &categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) == 0 {
		t.Error("no catalog categories")
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/v1/catalog/templates", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("templates: %d %s", resp.StatusCode, body)
	}
	var templates []json.RawMessage
	if err := json.Unmarshal(body, &templates); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(templates) == 0 {
		t.Error("no action templates")
	}
}

func TestAPI_GateBlockedAdvance(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Blocked Relocation")
	base := ts.URL + "/api/v1/bulk-changes/" + bc.ID

	resp, body := doJSON(t, http.MethodPost, base+"/actions", map[string]any{
		"type":           "reassign_location",
		"attributes":     []string{"location"},
		"employee_ids":   []string{"EMP0133"},
		"mode":           "uniform",
		"uniform_values": map[string]any{"location": "Austin"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add action: %d %s", resp.StatusCode, body)
	}

	// Into the review step, then the blocking finding pins us there.
	resp, body = doJSON(t, http.MethodPost, base+"/advance", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("advance to review: %d %s", resp.StatusCode, body)
	}
	resp, body = doJSON(t, http.MethodPost, base+"/advance", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("blocked advance = %d: %s", resp.StatusCode, body)
	}
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != domain.ErrStepGateBlocked.Code {
		t.Errorf("code = %d, want %d", apiErr.Code, domain.ErrStepGateBlocked.Code)
	}
}

func TestAPI_GoToStepValidation(t *testing.T) {
	ts := newTestServer(t)
	bc := createBulkChange(t, ts, "Navigation")
	url := fmt.Sprintf("%s/api/v1/bulk-changes/%s/goto", ts.URL, bc.ID)

	resp, body := doJSON(t, http.MethodPost, url, map[string]int{"step": 9})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("goto 9 = %d: %s", resp.StatusCode, body)
	}
	resp, body = doJSON(t, http.MethodPost, url, map[string]int{"step": 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("goto 5 = %d: %s", resp.StatusCode, body)
	}
	var got domain.BulkChange
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.CurrentStep != domain.StepSelfApproval {
		t.Errorf("current step = %d, want 5", got.CurrentStep)
	}
}
