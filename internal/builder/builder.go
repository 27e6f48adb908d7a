// Package builder constructs bulk change actions from employee selections
// and attribute edits, and computes their per-type summaries.
package builder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anthropics/bulkchange-engine/internal/catalog"
	"github.com/anthropics/bulkchange-engine/internal/directory"
	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// ChangeMode selects how attribute values map onto employees.
type ChangeMode string

const (
	// ModeUniform applies the same value to every selected employee.
	ModeUniform ChangeMode = "uniform"
	// ModePerEmployee applies individually supplied values; blank values
	// are skipped entirely.
	ModePerEmployee ChangeMode = "per_employee"
)

// Input describes one action to build.
type Input struct {
	Type              domain.ActionType
	Name              string
	Attributes        []string
	EmployeeIDs       []string
	Mode              ChangeMode
	UniformValues     map[string]any
	PerEmployeeValues map[string]map[string]any
}

// Builder turns Inputs into immutable Actions. It is pure given its
// directory and catalog snapshots.
type Builder struct {
	dir *directory.Directory
	cat *catalog.Catalog
}

// New constructs a Builder.
func New(dir *directory.Directory, cat *catalog.Catalog) *Builder {
	return &Builder{dir: dir, cat: cat}
}

// California minimum hourly wage used for the pay floor check.
const caMinimumHourlyWage = 16.50

// Build validates the input, constructs the per-employee change set, runs
// the per-employee validation rules, and computes the summary.
func (b *Builder) Build(in Input) (domain.Action, error) {
	if len(in.EmployeeIDs) == 0 {
		return domain.Action{}, domain.ErrNoEmployees
	}
	if len(in.Attributes) == 0 {
		return domain.Action{}, domain.ErrNoAttributes
	}
	switch in.Mode {
	case ModeUniform, ModePerEmployee:
	default:
		return domain.Action{}, domain.ErrUnknownChangeMode
	}
	if !knownActionType(in.Type) {
		return domain.Action{}, domain.ErrUnknownActionType
	}
	for _, attr := range in.Attributes {
		if err := b.cat.Editable(attr); err != nil {
			return domain.Action{}, fmt.Errorf("attribute %q: %w", attr, err)
		}
	}

	emps, err := b.dir.ByIDs(in.EmployeeIDs)
	if err != nil {
		return domain.Action{}, err
	}

	name := in.Name
	if name == "" {
		if tmpl, ok := b.cat.Template(in.Type); ok {
			name = tmpl.Name
		} else {
			name = "Custom Attribute Update"
		}
	}

	employees := make([]domain.EmployeeChange, 0, len(emps))
	for _, emp := range emps {
		changes := b.changesFor(emp, in)
		ec := domain.EmployeeChange{
			EmployeeID: emp.ID,
			Changes:    changes,
			Validation: b.validateEmployee(emp, in.Type, changes),
		}
		employees = append(employees, ec)
	}

	return domain.Action{
		ID:            uuid.NewString(),
		Type:          in.Type,
		Name:          name,
		Attributes:    append([]string(nil), in.Attributes...),
		Employees:     employees,
		EmployeeCount: len(employees),
		Summary:       b.summarize(in, emps),
		CreatedAtUnix: time.Now().Unix(),
	}, nil
}

func knownActionType(t domain.ActionType) bool {
	switch t {
	case domain.ActionUpdateCompensation, domain.ActionChangeDepartment,
		domain.ActionChangeManager, domain.ActionReassignLocation,
		domain.ActionUpdateTitleLevel, domain.ActionChangeTeam,
		domain.ActionUpdateSchedule, domain.ActionCustom:
		return true
	}
	return false
}

func (b *Builder) changesFor(emp domain.Employee, in Input) map[string]domain.Change {
	changes := make(map[string]domain.Change)

	var values map[string]any
	if in.Mode == ModeUniform {
		values = in.UniformValues
	} else {
		values = in.PerEmployeeValues[emp.ID]
	}

	for _, attr := range in.Attributes {
		v, ok := values[attr]
		if !ok || isBlank(v) {
			// Per-employee blanks are skipped; uniform mode only applies
			// attributes that were actually given a value.
			continue
		}
		current := directory.AttributeValue(emp, attr)
		ch := domain.Change{Current: current, New: v}
		if nv, ok := asNumber(v); ok {
			cv, _ := asNumber(current)
			delta := nv - cv
			ch.Delta = &delta
		}
		changes[attr] = ch
	}
	return changes
}

// validateEmployee applies the per-employee policy checks for one change
// set. Returned items are annotations on the employee row; blocking ones
// gate the review step.
func (b *Builder) validateEmployee(emp domain.Employee, t domain.ActionType, changes map[string]domain.Change) []domain.ValidationItem {
	var items []domain.ValidationItem

	locationChanging := changed(changes, "location") || changed(changes, "state")
	termsChanging := locationChanging ||
		changed(changes, "employmentType") || changed(changes, "hoursPerWeek")

	if locationChanging && emp.VisaType != "" {
		items = append(items, domain.ValidationItem{
			Type:     domain.ValidationError,
			Code:     "visa_hold",
			Message:  fmt.Sprintf("Employee on %s visa requires legal review before location change", emp.VisaType),
			Blocking: true,
		})
	}
	if termsChanging && emp.OnLeave {
		items = append(items, domain.ValidationItem{
			Type:     domain.ValidationError,
			Code:     "active_leave",
			Message:  fmt.Sprintf("Employee on %s leave, employment terms cannot be changed", emp.LeaveType),
			Blocking: true,
		})
	}
	if locationChanging && emp.IsHourly {
		items = append(items, domain.ValidationItem{
			Type:    domain.ValidationWarning,
			Code:    "overtime_review",
			Message: "Overtime eligibility requires re-evaluation under destination state law",
		})
	}
	if locationChanging && emp.State == "CA" {
		items = append(items, domain.ValidationItem{
			Type:    domain.ValidationWarning,
			Code:    "benefits_reenrollment",
			Message: "California-mandated benefits coverage ends, 30-day re-enrollment required",
		})
	}

	if ch, ok := changes["hourlyRate"]; ok {
		if nv, numOK := asNumber(ch.New); numOK && nv < caMinimumHourlyWage && emp.State == "CA" {
			items = append(items, domain.ValidationItem{
				Type:     domain.ValidationError,
				Code:     "min_wage",
				Message:  fmt.Sprintf("New pay rate %.2f is below the CA minimum wage threshold", nv),
				Blocking: true,
			})
		}
	}
	if ch, ok := changes["salary"]; ok && emp.Salary > 0 {
		if nv, numOK := asNumber(ch.New); numOK {
			raise := (nv - emp.Salary) / emp.Salary
			if raise > 0.20 {
				items = append(items, domain.ValidationItem{
					Type:    domain.ValidationWarning,
					Code:    "large_change",
					Message: fmt.Sprintf("Salary increase of %.0f%% exceeds 20%% threshold", raise*100),
				})
			}
		}
	}

	if t == domain.ActionChangeManager {
		if ch, ok := changes["managerId"]; ok {
			if newMgr, _ := ch.New.(string); newMgr == emp.ID {
				items = append(items, domain.ValidationItem{
					Type:     domain.ValidationError,
					Code:     "circular_manager",
					Message:  "Employee cannot be their own manager",
					Blocking: true,
				})
			}
		}
	}

	return items
}

func changed(changes map[string]domain.Change, attr string) bool {
	ch, ok := changes[attr]
	if !ok {
		return false
	}
	return fmt.Sprintf("%v", ch.New) != fmt.Sprintf("%v", ch.Current)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// asNumber coerces JSON-decoded numeric representations to float64.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
