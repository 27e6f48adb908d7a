package impact

import (
	"testing"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

func findApp(apps []AffectedApp, id string) *AffectedApp {
	for i := range apps {
		if apps[i].ID == id {
			return &apps[i]
		}
	}
	return nil
}

func TestAssess_SalaryChange(t *testing.T) {
	r := NewReporter(1)
	report := r.Assess([]string{"salary"}, 85)

	payroll := findApp(report.PlatformApps, "payroll")
	if payroll == nil {
		t.Fatal("salary change did not trigger Payroll")
	}
	if payroll.EmployeeCount != 85 {
		t.Errorf("payroll employee count = %d, want 85", payroll.EmployeeCount)
	}
	if len(payroll.Descriptions) != 1 || payroll.Descriptions[0] != "Recalculation for next pay cycle" {
		t.Errorf("payroll descriptions = %v", payroll.Descriptions)
	}
	if findApp(report.PlatformApps, "benefits") == nil {
		t.Error("salary change did not trigger Benefits")
	}
	if findApp(report.PlatformApps, "device_management") != nil {
		t.Error("salary change should not trigger Device Management")
	}
	if findApp(report.ConnectedApps, "slack") != nil {
		t.Error("salary change should not trigger Slack")
	}
}

func TestAssess_WorkdayWildcard(t *testing.T) {
	r := NewReporter(1)

	// Workday syncs everything, even attributes no other app watches.
	report := r.Assess([]string{"middleName"}, 3)
	wd := findApp(report.ConnectedApps, "workday")
	if wd == nil {
		t.Fatal("wildcard app not triggered")
	}
	if len(wd.TriggeredAttrs) != 1 || wd.TriggeredAttrs[0] != "middleName" {
		t.Errorf("triggered attrs = %v", wd.TriggeredAttrs)
	}
	if len(wd.Descriptions) != 1 || wd.Descriptions[0] != "Data sync on next scheduled pull" {
		t.Errorf("descriptions = %v", wd.Descriptions)
	}
}

func TestAssess_DuplicateDescriptionsCollapse(t *testing.T) {
	r := NewReporter(1)

	// Both attributes map to Workday's default sync text; the report keeps
	// one description, not two.
	report := r.Assess([]string{"salary", "bonusTarget"}, 10)
	wd := findApp(report.ConnectedApps, "workday")
	if wd == nil {
		t.Fatal("Workday not triggered")
	}
	if len(wd.TriggeredAttrs) != 2 {
		t.Errorf("triggered attrs = %v", wd.TriggeredAttrs)
	}
	if len(wd.Descriptions) != 1 {
		t.Errorf("descriptions = %v, want the default sync text once", wd.Descriptions)
	}
}

func TestAssess_NothingTriggered(t *testing.T) {
	r := NewReporter(1)
	report := r.Assess(nil, 10)
	if len(report.PlatformApps) != 0 {
		t.Errorf("platform apps = %v, want none", report.PlatformApps)
	}
	if len(report.ConnectedApps) != 0 {
		t.Errorf("connected apps = %v, want none", report.ConnectedApps)
	}
}

func TestChangedAttributes(t *testing.T) {
	bc := &domain.BulkChange{
		Actions: []domain.Action{
			{Attributes: []string{"salary", "bonusTarget"}},
			{Attributes: []string{"salary", "department"}},
		},
	}
	got := ChangedAttributes(bc)
	want := []string{"salary", "bonusTarget", "department"}
	if len(got) != len(want) {
		t.Fatalf("attrs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("attrs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMonitoring(t *testing.T) {
	r := NewReporter(1)
	bc := &domain.BulkChange{EmployeeCount: 220}

	status := r.Monitoring(bc)

	if status.EmployeeGraph.Status != "complete" || status.EmployeeGraph.Message != "All changes applied" {
		t.Errorf("employee graph = %+v", status.EmployeeGraph)
	}
	if status.EmployeeGraph.EmployeeCount != 220 {
		t.Errorf("employee graph count = %d", status.EmployeeGraph.EmployeeCount)
	}
	if len(status.PlatformApps) != len(platformApps) {
		t.Errorf("platform statuses = %d, want %d", len(status.PlatformApps), len(platformApps))
	}
	if len(status.ConnectedApps) != len(connectedApps) {
		t.Errorf("connected statuses = %d, want %d", len(status.ConnectedApps), len(connectedApps))
	}

	valid := map[string]bool{"complete": true, "scheduled": true, "pending": true, "error": true}
	for _, s := range append(status.PlatformApps, status.ConnectedApps...) {
		if !valid[s.Status] {
			t.Errorf("app %s has status %q", s.ID, s.Status)
		}
		if s.StatusMessage == "" {
			t.Errorf("app %s has no status message", s.ID)
		}
	}
}
