// Package directory provides the synthetic employee directory. It is
// generated deterministically from a seed and never mutated: bulk change
// actions record intended edits, they do not write back here.
package directory

import (
	"strings"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// Directory is a read-only, indexed collection of employees.
type Directory struct {
	employees []domain.Employee
	byID      map[string]int
	byEmail   map[string]int
	byManager map[string][]string
}

// New builds a directory from a fixed employee slice.
func New(employees []domain.Employee) *Directory {
	d := &Directory{
		employees: employees,
		byID:      make(map[string]int, len(employees)),
		byEmail:   make(map[string]int, len(employees)),
		byManager: make(map[string][]string),
	}
	for i, e := range employees {
		d.byID[e.ID] = i
		d.byEmail[strings.ToLower(e.Email)] = i
		if e.ManagerID != "" {
			d.byManager[e.ManagerID] = append(d.byManager[e.ManagerID], e.ID)
		}
	}
	return d
}

// All returns every employee in directory order.
func (d *Directory) All() []domain.Employee {
	out := make([]domain.Employee, len(d.employees))
	copy(out, d.employees)
	return out
}

// Len returns the directory size.
func (d *Directory) Len() int {
	return len(d.employees)
}

// ByID returns one employee or ErrEmployeeNotFound.
func (d *Directory) ByID(id string) (domain.Employee, error) {
	i, ok := d.byID[id]
	if !ok {
		return domain.Employee{}, domain.ErrEmployeeNotFound
	}
	return d.employees[i], nil
}

// ByIDs resolves a batch of ids; any unknown id fails the whole lookup.
func (d *Directory) ByIDs(ids []string) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(ids))
	for _, id := range ids {
		e, err := d.ByID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ByManager returns the direct reports of the given manager.
func (d *Directory) ByManager(managerID string) []domain.Employee {
	ids := d.byManager[managerID]
	out := make([]domain.Employee, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.employees[d.byID[id]])
	}
	return out
}

// Filter returns every employee matching the predicate.
func (d *Directory) Filter(pred func(domain.Employee) bool) []domain.Employee {
	var out []domain.Employee
	for _, e := range d.employees {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// ByDepartment returns every employee in one department.
func (d *Directory) ByDepartment(department string) []domain.Employee {
	return d.Filter(func(e domain.Employee) bool { return e.Department == department })
}

// ByLocation returns every employee at one office.
func (d *Directory) ByLocation(location string) []domain.Employee {
	return d.Filter(func(e domain.Employee) bool { return e.Location == location })
}

// Search matches a case-insensitive query against name, email, title,
// and department.
func (d *Directory) Search(query string) []domain.Employee {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	return d.Filter(func(e domain.Employee) bool {
		return strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Email), q) ||
			strings.Contains(strings.ToLower(e.Title), q) ||
			strings.Contains(strings.ToLower(e.Department), q)
	})
}

// ResolveRefs resolves a pasted list of references, each either an
// employee id or an email address. It returns matched employees plus the
// references that resolved to nothing, in input order.
func (d *Directory) ResolveRefs(refs []string) ([]domain.Employee, []string) {
	var matched []domain.Employee
	var unmatched []string
	seen := make(map[string]bool)

	for _, ref := range refs {
		r := strings.TrimSpace(ref)
		if r == "" {
			continue
		}
		i, ok := d.byID[r]
		if !ok {
			i, ok = d.byEmail[strings.ToLower(r)]
		}
		if !ok {
			unmatched = append(unmatched, r)
			continue
		}
		e := d.employees[i]
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		matched = append(matched, e)
	}
	return matched, unmatched
}

// AttributeValue reads a catalog attribute off an employee record.
// Attributes the synthetic directory does not carry resolve to nil.
func AttributeValue(e domain.Employee, attrID string) any {
	switch attrID {
	case "title":
		return e.Title
	case "level":
		return e.Level
	case "department":
		return e.Department
	case "team":
		return e.Team
	case "costCenter":
		return e.CostCenter
	case "employmentType":
		return e.EmploymentType
	case "employmentStatus":
		return e.EmploymentStatus
	case "startDate":
		return e.StartDate
	case "salary":
		return e.Salary
	case "hourlyRate":
		if !e.IsHourly {
			return nil
		}
		return e.HourlyRate
	case "payFrequency":
		return e.PayFrequency
	case "currency":
		return e.Currency
	case "bonusTarget":
		return e.BonusTarget
	case "equityShares":
		return float64(e.EquityShares)
	case "location":
		return e.Location
	case "city":
		return e.City
	case "state":
		return e.State
	case "country":
		return e.Country
	case "timezone":
		return e.Timezone
	case "workArrangement":
		return e.WorkArrangement
	case "hoursPerWeek":
		return float64(e.HoursPerWeek)
	case "managerId":
		return e.ManagerID
	case "firstName":
		return e.FirstName
	case "lastName":
		return e.LastName
	case "email":
		return e.Email
	case "visaType":
		return e.VisaType
	case "benefitsEligibilityGroup":
		return e.BenefitsGroup
	case "medicalPlan":
		return e.MedicalPlan
	default:
		return nil
	}
}
