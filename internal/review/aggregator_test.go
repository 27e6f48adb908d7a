package review

import (
	"testing"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

func sampleBulkChange() *domain.BulkChange {
	return &domain.BulkChange{
		Validation: []domain.ValidationItem{
			{Type: domain.ValidationError, Code: "visa_hold", Message: "Legal review required", Count: 11, Blocking: true},
			{Type: domain.ValidationWarning, Code: "overtime_review", Message: "Overtime re-evaluation", Count: 23},
			{Type: domain.ValidationInfo, Code: "notice", Message: "FYI"},
			{Type: domain.ValidationDependency, Code: "payroll_cutoff", Message: "Past cutoff", Blocking: true},
		},
		Actions: []domain.Action{
			{
				Employees: []domain.EmployeeChange{
					{
						EmployeeID: "EMP0001",
						Validation: []domain.ValidationItem{
							{Type: domain.ValidationError, Code: "min_wage", Message: "Below CA minimum", Blocking: true},
						},
					},
					{EmployeeID: "EMP0002"},
				},
			},
		},
	}
}

func TestAggregator_Summarize(t *testing.T) {
	agg := &Aggregator{}
	counts := agg.Summarize(sampleBulkChange())

	if counts.Errors != 12 {
		t.Errorf("errors = %d, want 12 (11 weighted + 1 per-employee)", counts.Errors)
	}
	if counts.Warnings != 23 {
		t.Errorf("warnings = %d, want 23", counts.Warnings)
	}
	if counts.Info != 1 {
		t.Errorf("info = %d, want 1", counts.Info)
	}
	if counts.Dependencies != 1 {
		t.Errorf("dependencies = %d, want 1", counts.Dependencies)
	}
	// Errors always block; the flagged dependency blocks too.
	if counts.Blocking != 13 {
		t.Errorf("blocking = %d, want 13", counts.Blocking)
	}
}

func TestAggregator_SummarizeEmpty(t *testing.T) {
	agg := &Aggregator{}
	counts := agg.Summarize(&domain.BulkChange{})
	if counts != (domain.ValidationCounts{}) {
		t.Errorf("counts = %+v, want all zero", counts)
	}
}

func TestAggregator_Blockers(t *testing.T) {
	agg := &Aggregator{}
	reasons := agg.Blockers(sampleBulkChange())

	if len(reasons) != 3 {
		t.Fatalf("blockers = %v, want 3 entries", reasons)
	}
	if reasons[0] != "visa_hold (11 affected): Legal review required" {
		t.Errorf("weighted blocker = %q", reasons[0])
	}
	if reasons[1] != "payroll_cutoff: Past cutoff" {
		t.Errorf("dependency blocker = %q", reasons[1])
	}
	if reasons[2] != "min_wage: Below CA minimum" {
		t.Errorf("per-employee blocker = %q", reasons[2])
	}
}

func TestAggregator_WarningsDoNotBlock(t *testing.T) {
	agg := &Aggregator{}
	bc := &domain.BulkChange{
		Validation: []domain.ValidationItem{
			{Type: domain.ValidationWarning, Code: "large_change", Message: "Raise exceeds threshold"},
		},
	}
	if got := agg.Summarize(bc).Blocking; got != 0 {
		t.Errorf("blocking = %d, want 0", got)
	}
	if got := agg.Blockers(bc); len(got) != 0 {
		t.Errorf("blockers = %v, want none", got)
	}
}
