package directory

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

var departments = []string{
	"Engineering", "Platform Engineering", "AI/ML", "Product", "Design",
	"Sales", "Marketing", "Customer Support", "HR", "Finance", "Legal",
	"Operations",
}

var levelTitles = map[string][]string{
	"L1": {"Associate", "Junior"},
	"L2": {"", "Mid-level"},
	"L3": {"Senior"},
	"L4": {"Staff", "Lead"},
	"L5": {"Senior Staff", "Principal"},
	"L6": {"Director", "Senior Director"},
	"L7": {"VP", "Senior VP"},
}

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda",
	"William", "Elizabeth", "David", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Christopher", "Lisa", "Daniel", "Nancy",
	"Matthew", "Betty", "Anthony", "Margaret", "Mark", "Sandra", "Donald", "Ashley",
	"Wei", "Priya", "Raj", "Aisha", "Carlos", "Yuki", "Ahmed", "Fatima", "Chen", "Mei",
	"Sanjay", "Ananya", "Dmitri", "Olga", "Hiroshi", "Sakura", "Ali", "Zara", "Jin", "Min",
	"Arjun", "Deepa", "Viktor", "Elena", "Kenji", "Yui", "Hassan", "Layla", "Ravi", "Kavita",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
	"Chen", "Wang", "Zhang", "Liu", "Huang", "Kim", "Park", "Choi", "Patel", "Shah",
	"Kumar", "Singh", "Sharma", "Gupta", "Tanaka", "Yamamoto", "Sato", "Suzuki",
	"Nguyen", "Tran", "Le", "Pham", "Mueller", "Schmidt", "Schneider", "Fischer",
	"Petrov", "Ivanov", "Kowalski", "Nowak", "Santos", "Ferreira", "Costa", "Silva",
}

type locationInfo struct {
	state    string
	timezone string
}

var locations = map[string]locationInfo{
	"San Francisco": {"CA", "America/Los_Angeles"},
	"Austin":        {"TX", "America/Chicago"},
	"New York":      {"NY", "America/New_York"},
	"Seattle":       {"WA", "America/Los_Angeles"},
	"Remote":        {"", ""},
}

var locationOrder = []string{"San Francisco", "Austin", "New York", "Seattle", "Remote"}

var salaryBases = map[string]float64{
	"L1": 70000, "L2": 90000, "L3": 120000, "L4": 150000,
	"L5": 180000, "L6": 220000, "L7": 280000,
}

type generator struct {
	rng    *rand.Rand
	nextID int
}

func (g *generator) pick(options []string) string {
	return options[g.rng.Intn(len(options))]
}

func (g *generator) between(min, max int) int {
	return g.rng.Intn(max-min+1) + min
}

func (g *generator) salary(level string) float64 {
	base, ok := salaryBases[level]
	if !ok {
		base = 100000
	}
	return float64((int(base)+g.between(-15000, 25000))/1000) * 1000
}

// seedEmployee pins the fields a scenario needs; everything else is
// drawn from the seeded stream.
type seedEmployee struct {
	FirstName   string
	LastName    string
	Department  string
	Level       string
	Title       string
	Location    string
	ManagerID   string
	ManagerName string
	IsHourly    bool
	VisaType    string
	OnLeave     bool
	LeaveType   string
	Status      string
}

func (g *generator) employee(ov seedEmployee) domain.Employee {
	first := ov.FirstName
	if first == "" {
		first = g.pick(firstNames)
	}
	last := ov.LastName
	if last == "" {
		last = g.pick(lastNames)
	}
	dept := ov.Department
	if dept == "" {
		dept = g.pick(departments)
	}
	level := ov.Level
	if level == "" {
		level = g.pick([]string{"L1", "L2", "L3", "L4", "L5", "L6", "L7"})
	}
	loc := ov.Location
	if loc == "" {
		loc = g.pick(locationOrder)
	}
	locInfo := locations[loc]

	salary := g.salary(level)
	hourlyRate := 0.0
	if ov.IsHourly {
		hourlyRate = float64(int(salary/2080*100)) / 100
	}

	title := ov.Title
	if title == "" {
		role := "Specialist"
		switch dept {
		case "Engineering", "Platform Engineering", "AI/ML":
			role = "Engineer"
		case "Design":
			role = "Designer"
		case "Product":
			role = "Product Manager"
		}
		title = strings.TrimSpace(g.pick(levelTitles[level]) + " " + role)
	}

	bonusPct := 0.10
	switch level {
	case "L6", "L7":
		bonusPct = 0.25
	case "L4", "L5":
		bonusPct = 0.15
	}
	bonus := float64(int(salary * bonusPct))
	if ov.IsHourly {
		bonus = 0
	}

	var equity int
	switch level {
	case "L7":
		equity = g.between(50000, 100000)
	case "L6":
		equity = g.between(20000, 50000)
	case "L5":
		equity = g.between(10000, 25000)
	case "L4":
		equity = g.between(5000, 15000)
	default:
		equity = g.between(1000, 5000)
	}

	empType := "salaried"
	payFreq := "semi-monthly"
	benefits := "salaried"
	if ov.IsHourly {
		empType = "hourly"
		payFreq = "biweekly"
		benefits = "hourly"
	}

	status := ov.Status
	if status == "" {
		status = "active"
	}

	tz := locInfo.timezone
	if tz == "" {
		tz = "America/Los_Angeles"
	}
	city := loc
	if loc == "Remote" {
		city = ""
	}

	g.nextID++
	e := domain.Employee{
		ID:         fmt.Sprintf("EMP%04d", g.nextID),
		FirstName:  first,
		LastName:   last,
		Name:       first + " " + last,
		Email:      strings.ToLower(first) + "." + strings.ToLower(strings.ReplaceAll(last, "'", "")) + "@company.com",
		Department: dept,
		Level:      level,
		Title:      title,

		Location: loc,
		City:     city,
		State:    locInfo.state,
		Country:  "USA",
		Timezone: tz,

		Salary:       salary,
		IsHourly:     ov.IsHourly,
		HourlyRate:   hourlyRate,
		PayFrequency: payFreq,
		Currency:     "USD",
		BonusTarget:  bonus,
		EquityShares: equity,

		ManagerID:   ov.ManagerID,
		ManagerName: ov.ManagerName,

		EmploymentType:   empType,
		EmploymentStatus: status,
		WorkArrangement:  g.pick([]string{"onsite", "hybrid", "remote"}),
		HoursPerWeek:     40,
		VisaType:         ov.VisaType,
		OnLeave:          ov.OnLeave,
		LeaveType:        ov.LeaveType,

		StartDate: fmt.Sprintf("%d-%02d-%02d", g.between(2018, 2025), g.between(1, 12), g.between(1, 28)),
		CostCenter: fmt.Sprintf("CC-%s-%d",
			strings.ToUpper(dept[:min(3, len(dept))]), g.between(100, 999)),

		BenefitsGroup: benefits,
		MedicalPlan:   g.pick([]string{"PPO Gold", "PPO Silver", "HMO", "HDHP"}),
	}
	return e
}

// Generate builds the synthetic company deterministically from a seed.
// The populations mirror the HR scenarios the engine is exercised with:
// a San Francisco office of roughly 220, engineering ICs with a few
// hourly workers, visa holders, employees on leave, a manager with
// exactly six reports, and existing Austin staff.
func Generate(seed int64, size int) *Directory {
	g := &generator{rng: rand.New(rand.NewSource(seed))}
	var employees []domain.Employee
	add := func(e domain.Employee) domain.Employee {
		employees = append(employees, e)
		return e
	}

	// Leadership.
	vpEng := add(g.employee(seedEmployee{FirstName: "Sarah", LastName: "Kim", Department: "Engineering", Level: "L7", Title: "VP Engineering", Location: "San Francisco"}))
	vpAIML := add(g.employee(seedEmployee{FirstName: "Raj", LastName: "Patel", Department: "AI/ML", Level: "L7", Title: "VP AI/ML", Location: "San Francisco"}))
	vpPlatform := add(g.employee(seedEmployee{FirstName: "James", LastName: "Wu", Department: "Platform Engineering", Level: "L6", Title: "Sr. Director Platform Engineering", Location: "San Francisco"}))
	ceo := add(g.employee(seedEmployee{FirstName: "David", LastName: "Park", Department: "Executive", Level: "L7", Title: "CEO", Location: "San Francisco"}))
	coo := add(g.employee(seedEmployee{FirstName: "Lisa", LastName: "Chen", Department: "Operations", Level: "L7", Title: "COO", Location: "San Francisco"}))
	cfo := add(g.employee(seedEmployee{FirstName: "Michael", LastName: "Torres", Department: "Finance", Level: "L7", Title: "CFO", Location: "San Francisco"}))
	vpLegal := add(g.employee(seedEmployee{FirstName: "Amanda", LastName: "Foster", Department: "Legal", Level: "L7", Title: "VP Legal", Location: "San Francisco"}))
	add(g.employee(seedEmployee{FirstName: "Robert", LastName: "Chang", Department: "Operations", Level: "L6", Title: "Director of Facilities", Location: "San Francisco"}))

	deptManagers := map[string]domain.Employee{
		"Engineering":          vpEng,
		"Platform Engineering": vpPlatform,
		"AI/ML":                vpAIML,
		"Operations":           coo,
		"Finance":              cfo,
		"Legal":                vpLegal,
	}

	vpTitles := []struct {
		first, last, dept, title string
		mgr                      domain.Employee
	}{
		{"Jennifer", "Martinez", "Product", "VP Product", ceo},
		{"Alex", "Rivera", "Design", "VP Design", ceo},
		{"Marcus", "Johnson", "Sales", "VP Sales", ceo},
		{"Rachel", "Wong", "Marketing", "VP Marketing", ceo},
		{"Kevin", "O'Brien", "Customer Support", "VP Customer Support", coo},
		{"Diana", "Campbell", "HR", "VP HR", ceo},
	}
	for _, v := range vpTitles {
		vp := add(g.employee(seedEmployee{
			FirstName: v.first, LastName: v.last, Department: v.dept,
			Level: "L6", Title: v.title, Location: "San Francisco",
			ManagerID: v.mgr.ID, ManagerName: v.mgr.Name,
		}))
		deptManagers[v.dept] = vp
	}

	// Senior product managers.
	for i := 0; i < 3; i++ {
		add(g.employee(seedEmployee{
			Department: "Product", Level: "L5", Title: "Senior Product Manager",
			Location:  "San Francisco",
			ManagerID: deptManagers["Product"].ID, ManagerName: deptManagers["Product"].Name,
		}))
	}

	// Engineering managers.
	var engManagers []domain.Employee
	for i := 0; i < 8; i++ {
		mgr := add(g.employee(seedEmployee{
			Department: "Engineering",
			Level:      g.pick([]string{"L5", "L6"}),
			Title:      g.pick([]string{"Engineering Manager", "Senior Engineering Manager"}),
			Location:   "San Francisco",
			ManagerID:  vpEng.ID, ManagerName: vpEng.Name,
		}))
		engManagers = append(engManagers, mgr)
	}

	// Engineering ICs for the performance cycle; first five are hourly.
	for i := 0; i < 85; i++ {
		mgr := engManagers[g.rng.Intn(len(engManagers))]
		add(g.employee(seedEmployee{
			Department: "Engineering",
			Level:      g.pick([]string{"L2", "L3", "L4", "L5"}),
			Location:   "San Francisco",
			ManagerID:  mgr.ID, ManagerName: mgr.Name,
			IsHourly: i < 5,
		}))
	}

	// AI/ML team (transfer destination).
	for i := 0; i < 15; i++ {
		add(g.employee(seedEmployee{
			Department: "AI/ML",
			Level:      g.pick([]string{"L3", "L4", "L5"}),
			Location:   "San Francisco",
			ManagerID:  vpAIML.ID, ManagerName: vpAIML.Name,
		}))
	}

	// A manager with exactly six direct reports.
	smallTeamMgr := add(g.employee(seedEmployee{
		FirstName: "Matt", LastName: "Chen", Department: "Engineering",
		Level: "L5", Title: "Engineering Manager", Location: "San Francisco",
		ManagerID: vpEng.ID, ManagerName: vpEng.Name,
	}))
	for i := 0; i < 6; i++ {
		add(g.employee(seedEmployee{
			Department: "Engineering",
			Level:      g.pick([]string{"L2", "L3", "L4"}),
			Location:   "San Francisco",
			ManagerID:  smallTeamMgr.ID, ManagerName: smallTeamMgr.Name,
		}))
	}

	// Top up San Francisco to 220 for the consolidation scenario:
	// 11 visa holders, 3 on leave, 18 hourly among the filler.
	sfCount := 0
	for _, e := range employees {
		if e.Location == "San Francisco" {
			sfCount++
		}
	}
	for i := 0; i < 220-sfCount; i++ {
		dept := g.pick(departments)
		mgr, ok := deptManagers[dept]
		if !ok {
			mgr = coo
		}

		ov := seedEmployee{
			Department: dept,
			Level:      g.pick([]string{"L2", "L3", "L4", "L5"}),
			Location:   "San Francisco",
			ManagerID:  mgr.ID, ManagerName: mgr.Name,
		}
		switch {
		case i < 11:
			ov.VisaType = g.pick([]string{"H-1B", "L-1", "O-1"})
		case i < 14:
			ov.OnLeave = true
			ov.LeaveType = g.pick([]string{"FMLA", "Disability", "Medical"})
			ov.Status = "leave"
		case i < 32:
			ov.IsHourly = true
		}
		add(g.employee(ov))
	}

	// Existing Austin staff, not part of the move.
	for i := 0; i < 30; i++ {
		dept := g.pick(departments)
		mgr, ok := deptManagers[dept]
		if !ok {
			mgr = coo
		}
		add(g.employee(seedEmployee{
			Department: dept,
			Level:      g.pick([]string{"L2", "L3", "L4", "L5"}),
			Location:   "Austin",
			ManagerID:  mgr.ID, ManagerName: mgr.Name,
		}))
	}

	// Other locations for variety, up to the requested size.
	for len(employees) < size {
		dept := g.pick(departments)
		mgr, ok := deptManagers[dept]
		if !ok {
			mgr = coo
		}
		add(g.employee(seedEmployee{
			Department: dept,
			Level:      g.pick([]string{"L2", "L3", "L4"}),
			Location:   g.pick([]string{"New York", "Seattle", "Remote"}),
			ManagerID:  mgr.ID, ManagerName: mgr.Name,
		}))
	}

	return New(employees)
}
