package impact

import (
	"fmt"
	"strings"

	"github.com/anthropics/bulkchange-engine/internal/domain"
)

// AppStatus is the mock execution state of one downstream system after
// commit. The statuses are cosmetic; nothing in the engine depends on them.
type AppStatus struct {
	App
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	Details       string `json:"details"`
}

// MonitoringStatus is the step-7 execution dashboard for a committed
// bulk change.
type MonitoringStatus struct {
	EmployeeGraph struct {
		Status        string `json:"status"`
		Message       string `json:"message"`
		EmployeeCount int    `json:"employee_count"`
	} `json:"employee_graph"`
	PlatformApps  []AppStatus `json:"platform_apps"`
	ConnectedApps []AppStatus `json:"connected_apps"`
}

var connectionMessages = map[ConnectionType]struct{ confirmed, pending string }{
	ConnAPIPush: {"Sent & confirmed", "Sent, awaiting confirmation"},
	ConnWebhook: {"Sent & confirmed", "Sent, awaiting confirmation"},
	ConnPolling: {"Synced", "Pending sync"},
}

// Monitoring generates randomized mock execution statuses for step 7.
func (r *Reporter) Monitoring(bc *domain.BulkChange) MonitoringStatus {
	var status MonitoringStatus
	status.EmployeeGraph.Status = "complete"
	status.EmployeeGraph.Message = "All changes applied"
	status.EmployeeGraph.EmployeeCount = bc.EmployeeCount

	for _, app := range platformApps {
		s := AppStatus{App: app}
		if r.rng.Float64() > 0.1 {
			s.Status = "complete"
			s.StatusMessage = "Updated"
		} else {
			s.Status = "scheduled"
			s.StatusMessage = fmt.Sprintf("Will process in next %s run", strings.ToLower(app.Name))
		}
		s.Details = fmt.Sprintf("%d updates processed", int(float64(bc.EmployeeCount)*r.rng.Float64()*0.5))
		status.PlatformApps = append(status.PlatformApps, s)
	}

	for _, app := range connectedApps {
		s := AppStatus{App: app}
		msgs := connectionMessages[app.ConnectionType]
		switch v := r.rng.Float64(); {
		case v > 0.9:
			s.Status = "error"
			s.StatusMessage = "Sent, 1 issue"
		case v > 0.2:
			s.Status = "complete"
			s.StatusMessage = msgs.confirmed
		default:
			s.Status = "pending"
			s.StatusMessage = msgs.pending
		}
		s.Details = fmt.Sprintf("%d updates", int(float64(bc.EmployeeCount)*r.rng.Float64()*0.3))
		status.ConnectedApps = append(status.ConnectedApps, s)
	}

	return status
}
