// Package impact reports which downstream systems react to a set of
// attribute changes and mocks post-commit execution status.
package impact

import (
	"math/rand"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// ConnectionType describes how a connected app receives changes.
type ConnectionType string

const (
	// ConnAPIPush means we push and the app confirms receipt.
	ConnAPIPush ConnectionType = "api_push"
	// ConnWebhook means we fire a webhook and await delivery status.
	ConnWebhook ConnectionType = "webhook"
	// ConnPolling means the app pulls from us on its own schedule.
	ConnPolling ConnectionType = "polling"
)

// App is one downstream system with its trigger attribute set.
type App struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	ConnectionType ConnectionType    `json:"connection_type,omitempty"`
	TriggeredBy    []string          `json:"triggered_by"`
	Impacts        map[string]string `json:"impacts"`
}

// platformApps are first-party systems; we know exactly when they have
// processed a change.
var platformApps = []App{
	{
		ID:          "payroll",
		Name:        "Payroll",
		Description: "Payroll processing and tax calculations",
		TriggeredBy: []string{"salary", "hourlyRate", "bonusTarget", "payFrequency", "location", "state", "taxJurisdictionState"},
		Impacts: map[string]string{
			"salary":   "Recalculation for next pay cycle",
			"location": "Tax jurisdiction update, withholding recalculation",
			"state":    "State tax withholding update",
		},
	},
	{
		ID:          "benefits",
		Name:        "Benefits",
		Description: "Benefits enrollment and eligibility",
		TriggeredBy: []string{"salary", "employmentType", "location", "state", "benefitsEligibilityGroup"},
		Impacts: map[string]string{
			"salary":         "Benefit tier eligibility review",
			"location":       "State-specific benefits update, potential re-enrollment",
			"employmentType": "Benefits eligibility change",
		},
	},
	{
		ID:          "device_management",
		Name:        "Device Management",
		Description: "Device provisioning and access policies",
		TriggeredBy: []string{"department", "location", "team", "level"},
		Impacts: map[string]string{
			"department": "App permission review triggered",
			"location":   "VPN config update, badge access update",
			"team":       "Software license group update",
		},
	},
	{
		ID:          "time_attendance",
		Name:        "Time & Attendance",
		Description: "PTO policies and time tracking",
		TriggeredBy: []string{"department", "location", "employmentType", "hoursPerWeek", "ptoPolicy"},
		Impacts: map[string]string{
			"department":     "PTO policy reassignment",
			"location":       "Holiday calendar update",
			"employmentType": "Overtime eligibility update",
		},
	},
}

// connectedApps are third-party integrations. A "*" trigger means the app
// syncs every attribute.
var connectedApps = []App{
	{
		ID:             "slack",
		Name:           "Slack",
		Description:    "Team communication",
		ConnectionType: ConnAPIPush,
		TriggeredBy:    []string{"department", "team", "location", "managerId"},
		Impacts: map[string]string{
			"department": "Channel membership updates",
			"location":   "Office channel updates",
			"team":       "Team channel updates",
		},
	},
	{
		ID:             "google_workspace",
		Name:           "Google Workspace",
		Description:    "Email, calendar, drive",
		ConnectionType: ConnAPIPush,
		TriggeredBy:    []string{"department", "team", "location", "email", "managerId"},
		Impacts: map[string]string{
			"department": "Group membership updates",
			"location":   "Distribution list updates",
			"email":      "Account update",
		},
	},
	{
		ID:             "github",
		Name:           "GitHub",
		Description:    "Code repositories",
		ConnectionType: ConnAPIPush,
		TriggeredBy:    []string{"department", "team", "githubUsername"},
		Impacts: map[string]string{
			"department": "Team membership updates",
			"team":       "Repository access updates",
		},
	},
	{
		ID:             "okta",
		Name:           "Okta",
		Description:    "Identity and access management",
		ConnectionType: ConnWebhook,
		TriggeredBy:    []string{"department", "team", "level", "employmentStatus"},
		Impacts: map[string]string{
			"department":       "Application access review",
			"level":            "Permission level update",
			"employmentStatus": "Access status update",
		},
	},
	{
		ID:             "workday",
		Name:           "Workday",
		Description:    "HR information system",
		ConnectionType: ConnPolling,
		TriggeredBy:    []string{"*"},
		Impacts: map[string]string{
			"default": "Data sync on next scheduled pull",
		},
	},
}

// AffectedApp is one system in an impact report.
type AffectedApp struct {
	App
	TriggeredAttrs []string `json:"triggered_attrs"`
	Descriptions   []string `json:"descriptions"`
	EmployeeCount  int      `json:"employee_count"`
}

// Report lists the systems touched by a change set.
type Report struct {
	PlatformApps  []AffectedApp `json:"platform_apps"`
	ConnectedApps []AffectedApp `json:"connected_apps"`
}

// Reporter assesses downstream impact and produces monitoring statuses.
type Reporter struct {
	rng *rand.Rand
}

// NewReporter builds a reporter. The seed only shapes the mock
// monitoring statuses.
func NewReporter(seed int64) *Reporter {
	return &Reporter{rng: rand.New(rand.NewSource(seed))}
}

// Assess computes which apps react to the changed attributes.
func (r *Reporter) Assess(changedAttrs []string, employeeCount int) Report {
	var report Report
	for _, app := range platformApps {
		if hit := triggered(app, changedAttrs); len(hit.TriggeredAttrs) > 0 {
			hit.EmployeeCount = employeeCount
			report.PlatformApps = append(report.PlatformApps, hit)
		}
	}
	for _, app := range connectedApps {
		if hit := triggered(app, changedAttrs); len(hit.TriggeredAttrs) > 0 {
			hit.EmployeeCount = employeeCount
			report.ConnectedApps = append(report.ConnectedApps, hit)
		}
	}
	return report
}

func triggered(app App, changedAttrs []string) AffectedApp {
	wildcard := len(app.TriggeredBy) == 1 && app.TriggeredBy[0] == "*"

	var hits []string
	if wildcard {
		hits = append(hits, changedAttrs...)
	} else {
		set := make(map[string]bool, len(app.TriggeredBy))
		for _, t := range app.TriggeredBy {
			set[t] = true
		}
		for _, attr := range changedAttrs {
			if set[attr] {
				hits = append(hits, attr)
			}
		}
	}

	var descriptions []string
	seen := make(map[string]bool)
	for _, attr := range hits {
		d, ok := app.Impacts[attr]
		if !ok {
			d = app.Impacts["default"]
		}
		if d != "" && !seen[d] {
			seen[d] = true
			descriptions = append(descriptions, d)
		}
	}

	return AffectedApp{App: app, TriggeredAttrs: hits, Descriptions: descriptions}
}

// ChangedAttributes collects the distinct attribute ids edited across a
// bulk change's actions.
func ChangedAttributes(bc *domain.BulkChange) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range bc.Actions {
		for _, attr := range a.Attributes {
			if !seen[attr] {
				seen[attr] = true
				out = append(out, attr)
			}
		}
	}
	return out
}
