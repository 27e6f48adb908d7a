package builder

import (
	"fmt"
	"sort"

	"github.com/anthropics/bulkchange-engine/internal/catalog"
	"github.com/anthropics/bulkchange-engine/internal/directory"
	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// summarize dispatches on the action type. Custom and unknown types fall
// back to a plain headcount.
func (b *Builder) summarize(in Input, emps []domain.Employee) domain.Summary {
	switch in.Type {
	case domain.ActionUpdateCompensation:
		return b.summarizeCompensation(in, emps)
	case domain.ActionChangeDepartment:
		return b.summarizeDepartment(in, emps)
	case domain.ActionUpdateTitleLevel:
		return b.summarizeTitleLevel(in, emps)
	case domain.ActionReassignLocation:
		return b.summarizeRelocation(in, emps)
	case domain.ActionChangeManager:
		return b.summarizeManager(in, emps)
	case domain.ActionChangeTeam:
		return b.summarizeTeam(in, emps)
	case domain.ActionUpdateSchedule:
		return b.summarizeSchedule(in, emps)
	default:
		return headcount(len(emps))
	}
}

func headcount(n int) domain.Summary {
	return domain.Summary{Kind: domain.SummaryHeadcount, EmployeeCount: n}
}

// value reads the proposed value for one employee and attribute according
// to the change mode, or nil when none was supplied.
func (in Input) value(emp domain.Employee, attr string) any {
	if in.Mode == ModeUniform {
		v := in.UniformValues[attr]
		if isBlank(v) {
			return nil
		}
		return v
	}
	v := in.PerEmployeeValues[emp.ID][attr]
	if isBlank(v) {
		return nil
	}
	return v
}

func (in Input) stringValue(emp domain.Employee, attr string) string {
	v := in.value(emp, attr)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// numericDeltas collects new-minus-current for every employee with a
// numeric value supplied for the attribute.
func (in Input) numericDeltas(emps []domain.Employee, attr string) []float64 {
	var out []float64
	for _, emp := range emps {
		v := in.value(emp, attr)
		if v == nil {
			continue
		}
		nv, ok := asNumber(v)
		if !ok {
			continue
		}
		cv, _ := asNumber(directory.AttributeValue(emp, attr))
		out = append(out, nv-cv)
	}
	return out
}

func (b *Builder) summarizeCompensation(in Input, emps []domain.Employee) domain.Summary {
	deltas := in.numericDeltas(emps, "salary")
	if len(deltas) == 0 {
		deltas = in.numericDeltas(emps, "bonusTarget")
	}
	if len(deltas) == 0 {
		return headcount(len(emps))
	}

	sorted := append([]float64(nil), deltas...)
	sort.Float64s(sorted)

	var total float64
	for _, d := range deltas {
		total += d
	}
	return domain.Summary{
		Kind: domain.SummaryCompensation,
		Compensation: &domain.CompensationSummary{
			MinChange:         sorted[0],
			MaxChange:         sorted[len(sorted)-1],
			MedianChange:      sorted[len(sorted)/2],
			TotalAnnualImpact: total,
		},
	}
}

func (b *Builder) summarizeDepartment(in Input, emps []domain.Employee) domain.Summary {
	transfers := make(map[string]int)
	for _, emp := range emps {
		newDept := in.stringValue(emp, "department")
		if newDept != "" && newDept != emp.Department {
			transfers[emp.Department+" → "+newDept]++
		}
	}
	if len(transfers) == 0 {
		return headcount(len(emps))
	}
	return domain.Summary{Kind: domain.SummaryTransfers, Transfers: transfers}
}

func (b *Builder) summarizeTitleLevel(in Input, emps []domain.Employee) domain.Summary {
	var promotions, titleChanges int
	levelChanges := make(map[string]bool)
	var levelChangeOrder []string

	for _, emp := range emps {
		newLevel := in.stringValue(emp, "level")
		newTitle := in.stringValue(emp, "title")

		if newLevel != "" && emp.Level != "" &&
			catalog.LevelOrdinal(newLevel) > catalog.LevelOrdinal(emp.Level) {
			promotions++
			key := emp.Level + " → " + newLevel
			if !levelChanges[key] {
				levelChanges[key] = true
				levelChangeOrder = append(levelChangeOrder, key)
			}
		}
		if newTitle != "" && newTitle != emp.Title {
			titleChanges++
		}
	}

	if promotions == 0 && titleChanges == 0 {
		return headcount(len(emps))
	}

	levelChange := ""
	switch len(levelChangeOrder) {
	case 0:
	case 1:
		levelChange = levelChangeOrder[0]
	default:
		levelChange = fmt.Sprintf("%d different changes", len(levelChangeOrder))
	}

	return domain.Summary{
		Kind: domain.SummaryTitleLevel,
		TitleLevel: &domain.TitleLevelSummary{
			Promotions:   promotions,
			TitleChanges: titleChanges,
			LevelChange:  levelChange,
		},
	}
}

func (b *Builder) summarizeRelocation(in Input, emps []domain.Employee) domain.Summary {
	moves := make(map[string]int)
	var order []string
	for _, emp := range emps {
		newLoc := in.stringValue(emp, "location")
		if newLoc == "" || newLoc == emp.Location {
			continue
		}
		from := emp.Location
		if from == "" {
			from = "Unknown"
		}
		key := from + " → " + newLoc
		if _, seen := moves[key]; !seen {
			order = append(order, key)
		}
		moves[key]++
	}

	switch len(moves) {
	case 0:
		return headcount(len(emps))
	case 1:
		key := order[0]
		from, to := splitArrow(key)
		return domain.Summary{
			Kind: domain.SummaryRelocation,
			Relocation: &domain.RelocationSummary{
				FromLocation:          from,
				ToLocation:            to,
				TaxJurisdictionChange: "May change",
				EmployeeCount:         moves[key],
			},
		}
	default:
		return domain.Summary{Kind: domain.SummaryTransfers, Transfers: moves}
	}
}

func (b *Builder) summarizeManager(in Input, emps []domain.Employee) domain.Summary {
	type mgrChange struct{ oldID, newID string }
	var changes []mgrChange
	for _, emp := range emps {
		newMgr := in.stringValue(emp, "managerId")
		if newMgr != "" && newMgr != emp.ManagerID {
			changes = append(changes, mgrChange{oldID: emp.ManagerID, newID: newMgr})
		}
	}
	if len(changes) == 0 {
		return headcount(len(emps))
	}

	oldSet := make(map[string]bool)
	newSet := make(map[string]bool)
	var oldIDs, newIDs []string
	for _, c := range changes {
		if c.oldID != "" && !oldSet[c.oldID] {
			oldSet[c.oldID] = true
			oldIDs = append(oldIDs, c.oldID)
		}
		if !newSet[c.newID] {
			newSet[c.newID] = true
			newIDs = append(newIDs, c.newID)
		}
	}

	return domain.Summary{
		Kind: domain.SummaryManager,
		Manager: &domain.ManagerSummary{
			ManagerChanges: len(changes),
			OldManagers:    b.describeManagers(oldIDs, "None"),
			NewManager:     b.describeManagers(newIDs, ""),
		},
	}
}

func (b *Builder) describeManagers(ids []string, whenEmpty string) string {
	switch len(ids) {
	case 0:
		return whenEmpty
	case 1:
		if e, err := b.dir.ByID(ids[0]); err == nil {
			return e.Name
		}
		return ids[0]
	default:
		return fmt.Sprintf("%d different managers", len(ids))
	}
}

func (b *Builder) summarizeTeam(in Input, emps []domain.Employee) domain.Summary {
	transfers := make(map[string]int)
	for _, emp := range emps {
		newTeam := in.stringValue(emp, "team")
		if newTeam != "" {
			transfers["→ "+newTeam]++
		}
	}
	if len(transfers) == 0 {
		return headcount(len(emps))
	}
	return domain.Summary{Kind: domain.SummaryTransfers, Transfers: transfers}
}

func (b *Builder) summarizeSchedule(in Input, emps []domain.Employee) domain.Summary {
	var count int
	types := make(map[string]bool)
	arrangements := make(map[string]bool)

	for _, emp := range emps {
		newType := in.stringValue(emp, "employmentType")
		newHours := in.value(emp, "hoursPerWeek")
		newArrangement := in.stringValue(emp, "workArrangement")
		if newType == "" && newHours == nil && newArrangement == "" {
			continue
		}
		count++
		if newType != "" {
			types[newType] = true
		}
		if newArrangement != "" {
			arrangements[newArrangement] = true
		}
	}
	if count == 0 {
		return headcount(len(emps))
	}

	return domain.Summary{
		Kind: domain.SummarySchedule,
		Schedule: &domain.ScheduleSummary{
			ScheduleChanges: count,
			NewType:         collapse(types, "types"),
			NewArrangement:  collapse(arrangements, "arrangements"),
		},
	}
}

// collapse renders a value set as the single value or a "{n} {noun}"
// description.
func collapse(set map[string]bool, noun string) string {
	switch len(set) {
	case 0:
		return ""
	case 1:
		for v := range set {
			return v
		}
	}
	return fmt.Sprintf("%d %s", len(set), noun)
}

func splitArrow(s string) (string, string) {
	const arrow = " → "
	for i := 0; i+len(arrow) <= len(s); i++ {
		if s[i:i+len(arrow)] == arrow {
			return s[:i], s[i+len(arrow):]
		}
	}
	return s, ""
}
