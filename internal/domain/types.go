// Package domain defines the core types for the Bulk Change Engine.
package domain

// Step is a wizard step in the bulk change lifecycle, 1 through 7.
type Step int

const (
	StepCreate        Step = 1
	StepBuildActions  Step = 2
	StepReview        Step = 3
	StepEffectiveDate Step = 4
	StepSelfApproval  Step = 5
	StepApproval      Step = 6
	StepMonitor       Step = 7
)

// MinStep and MaxStep bound the wizard.
const (
	MinStep Step = StepCreate
	MaxStep Step = StepMonitor
)

// Status represents the lifecycle status of a bulk change.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusCommitted       Status = "committed"
)

// Employee is a directory record. The engine treats these as read-only;
// the directory owns them.
type Employee struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Team       string `json:"team,omitempty"`
	Level      string `json:"level"`
	Title      string `json:"title"`

	Location string `json:"location"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country"`
	Timezone string `json:"timezone,omitempty"`

	Salary       float64 `json:"salary"`
	IsHourly     bool    `json:"is_hourly"`
	HourlyRate   float64 `json:"hourly_rate,omitempty"`
	PayFrequency string  `json:"pay_frequency"`
	Currency     string  `json:"currency"`
	BonusTarget  float64 `json:"bonus_target"`
	EquityShares int     `json:"equity_shares"`

	ManagerID   string `json:"manager_id,omitempty"`
	ManagerName string `json:"manager_name,omitempty"`

	EmploymentType   string `json:"employment_type"`
	EmploymentStatus string `json:"employment_status"`
	WorkArrangement  string `json:"work_arrangement"`
	HoursPerWeek     int    `json:"hours_per_week"`
	VisaType         string `json:"visa_type,omitempty"`
	OnLeave          bool   `json:"on_leave"`
	LeaveType        string `json:"leave_type,omitempty"`

	StartDate  string `json:"start_date"`
	CostCenter string `json:"cost_center"`

	BenefitsGroup string `json:"benefits_group"`
	MedicalPlan   string `json:"medical_plan"`
}

// AttributeType classifies how an attribute's values behave.
type AttributeType string

const (
	AttrText     AttributeType = "text"
	AttrTextarea AttributeType = "textarea"
	AttrSelect   AttributeType = "select"
	AttrCurrency AttributeType = "currency"
	AttrNumber   AttributeType = "number"
	AttrPercent  AttributeType = "percent"
	AttrDate     AttributeType = "date"
	AttrBoolean  AttributeType = "boolean"
	AttrEmployee AttributeType = "employee"
	AttrAddress  AttributeType = "address"
	AttrEmail    AttributeType = "email"
	AttrPhone    AttributeType = "phone"
	AttrTags     AttributeType = "tags"
)

// AttributeDef describes one editable (or derived) employee attribute.
type AttributeDef struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	Type      AttributeType `json:"type"`
	Editable  bool          `json:"editable"`
	Derived   bool          `json:"derived,omitempty"`
	Sensitive bool          `json:"sensitive,omitempty"`
	Options   []string      `json:"options,omitempty"`
}

// ActionType identifies the kind of change an action applies.
type ActionType string

const (
	ActionUpdateCompensation ActionType = "update_compensation"
	ActionChangeDepartment   ActionType = "change_department"
	ActionChangeManager      ActionType = "change_manager"
	ActionReassignLocation   ActionType = "reassign_location"
	ActionUpdateTitleLevel   ActionType = "update_title_level"
	ActionChangeTeam         ActionType = "change_team"
	ActionUpdateSchedule     ActionType = "update_schedule"
	ActionCustom             ActionType = "custom"
)

// Change records the before/after pair for one employee attribute.
// Delta is set only when both sides are numeric.
type Change struct {
	Current any      `json:"current"`
	New     any      `json:"new"`
	Delta   *float64 `json:"delta,omitempty"`
}

// ValidationType classifies a validation item.
type ValidationType string

const (
	ValidationError      ValidationType = "error"
	ValidationWarning    ValidationType = "warning"
	ValidationInfo       ValidationType = "info"
	ValidationDependency ValidationType = "dependency"
)

// ValidationItem is one finding attached to a bulk change or to an
// individual employee change.
type ValidationItem struct {
	Type           ValidationType `json:"type"`
	Code           string         `json:"code"`
	Message        string         `json:"message"`
	Count          int            `json:"count,omitempty"`
	Blocking       bool           `json:"blocking,omitempty"`
	ActionID       string         `json:"action_id,omitempty"`
	Description    string         `json:"description,omitempty"`
	AffectedSystem string         `json:"affected_system,omitempty"`
	RequiredAction string         `json:"required_action,omitempty"`
}

// IsBlocking reports whether the item hard-gates step progression.
// Errors always block; other types block only when explicitly flagged.
func (v ValidationItem) IsBlocking() bool {
	return v.Type == ValidationError || v.Blocking
}

// EmployeeChange pairs one employee with the attribute changes an action
// applies to them, plus any per-employee validation findings.
type EmployeeChange struct {
	EmployeeID string            `json:"employee_id"`
	Changes    map[string]Change `json:"changes"`
	Validation []ValidationItem  `json:"validation,omitempty"`
}

// SummaryKind tags which variant of an action summary is populated.
type SummaryKind string

const (
	SummaryHeadcount    SummaryKind = "headcount"
	SummaryCompensation SummaryKind = "compensation"
	SummaryTransfers    SummaryKind = "transfers"
	SummaryTitleLevel   SummaryKind = "title_level"
	SummaryRelocation   SummaryKind = "relocation"
	SummaryManager      SummaryKind = "manager"
	SummarySchedule     SummaryKind = "schedule"
)

// CompensationSummary aggregates numeric deltas for a compensation action.
type CompensationSummary struct {
	MinChange         float64 `json:"min_change"`
	MaxChange         float64 `json:"max_change"`
	MedianChange      float64 `json:"median_change"`
	TotalAnnualImpact float64 `json:"total_annual_impact"`
}

// TitleLevelSummary aggregates promotions and title changes.
type TitleLevelSummary struct {
	Promotions   int    `json:"promotions,omitempty"`
	TitleChanges int    `json:"title_changes,omitempty"`
	LevelChange  string `json:"level_change,omitempty"`
}

// RelocationSummary describes a single-destination office move.
type RelocationSummary struct {
	FromLocation          string `json:"from_location"`
	ToLocation            string `json:"to_location"`
	TaxJurisdictionChange string `json:"tax_jurisdiction_change"`
	EmployeeCount         int    `json:"employee_count"`
}

// ManagerSummary describes reporting-line changes.
type ManagerSummary struct {
	ManagerChanges int    `json:"manager_changes"`
	OldManagers    string `json:"old_managers"`
	NewManager     string `json:"new_manager"`
}

// ScheduleSummary describes work schedule changes.
type ScheduleSummary struct {
	ScheduleChanges int    `json:"schedule_changes"`
	NewType         string `json:"new_type,omitempty"`
	NewArrangement  string `json:"new_arrangement,omitempty"`
}

// Summary is a tagged union over the per-action-type summary shapes.
// Exactly the variant named by Kind is populated; every other field is
// zero. SummaryHeadcount carries only EmployeeCount and is the fallback
// for actions with nothing more specific to report.
type Summary struct {
	Kind          SummaryKind          `json:"kind"`
	EmployeeCount int                  `json:"employee_count,omitempty"`
	Compensation  *CompensationSummary `json:"compensation,omitempty"`
	Transfers     map[string]int       `json:"transfers,omitempty"`
	TitleLevel    *TitleLevelSummary   `json:"title_level,omitempty"`
	Relocation    *RelocationSummary   `json:"relocation,omitempty"`
	Manager       *ManagerSummary      `json:"manager,omitempty"`
	Schedule      *ScheduleSummary     `json:"schedule,omitempty"`
}

// Action is a named batch of attribute changes applied to a set of
// employees. Once built it is a value object: it may be replaced or
// removed from a bulk change, but never partially mutated.
type Action struct {
	ID            string           `json:"id"`
	BulkChangeID  string           `json:"bulk_change_id"`
	Type          ActionType       `json:"type"`
	Name          string           `json:"name"`
	Attributes    []string         `json:"attributes"`
	Employees     []EmployeeChange `json:"employees"`
	EmployeeCount int              `json:"employee_count"`
	Summary       Summary          `json:"summary"`
	CreatedAtUnix int64            `json:"created_at_unix"`
}

// ApproverStatus is the decision state of a single approver entry.
type ApproverStatus string

const (
	ApproverPending  ApproverStatus = "pending"
	ApproverApproved ApproverStatus = "approved"
	ApproverRejected ApproverStatus = "rejected"
	ApproverOverdue  ApproverStatus = "overdue"
)

// ApproverEntry tracks one approval scope within a bulk change.
type ApproverEntry struct {
	ID            string         `json:"id"`
	BulkChangeID  string         `json:"bulk_change_id"`
	Scope         string         `json:"scope"`
	EmployeeCount int            `json:"employee_count"`
	ApproverID    string         `json:"approver_id"`
	ApproverName  string         `json:"approver_name"`
	ApproverEmail string         `json:"approver_email,omitempty"`
	BackupName    string         `json:"backup_name,omitempty"`
	BackupEmail   string         `json:"backup_email,omitempty"`
	Status        ApproverStatus `json:"status"`
	SentAtUnix    int64          `json:"sent_at_unix,omitempty"`
	DueAtUnix     int64          `json:"due_at_unix,omitempty"`
	DecidedAtUnix int64          `json:"decided_at_unix,omitempty"`
}

// BulkChange is the root aggregate spanning creation through commit.
type BulkChange struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Status         Status           `json:"status"`
	Actions        []Action         `json:"actions"`
	EffectiveDate  string           `json:"effective_date,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	Approvers      []ApproverEntry  `json:"approvers"`
	CurrentStep    Step             `json:"current_step"`
	CompletedSteps []Step           `json:"completed_steps"`
	EmployeeCount  int              `json:"employee_count"`
	Validation     []ValidationItem `json:"validation"`
	StateVersion   int64            `json:"state_version"`
	LastEventSeq   int64            `json:"last_event_seq"`
	CreatedAtUnix  int64            `json:"created_at_unix"`
	UpdatedAtUnix  int64            `json:"updated_at_unix"`
}

// StepCompleted reports whether the given step is in the completed set.
func (bc *BulkChange) StepCompleted(step Step) bool {
	for _, s := range bc.CompletedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// FullyApproved reports whether every approver entry has approved.
// Vacuously true when no approvers are assigned.
func (bc *BulkChange) FullyApproved() bool {
	for _, a := range bc.Approvers {
		if a.Status != ApproverApproved {
			return false
		}
	}
	return true
}

// ValidationCounts summarizes a bulk change's validation items.
type ValidationCounts struct {
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	Info         int `json:"info"`
	Dependencies int `json:"dependencies"`
	Blocking     int `json:"blocking"`
}

// GateDecision is the result of evaluating a step's exit conditions.
type GateDecision struct {
	Allow    bool     `json:"allow"`
	Blockers []string `json:"blockers,omitempty"`
}

// WorkflowEvent is an entry in a bulk change's append-only event log.
type WorkflowEvent struct {
	ID           int64  `json:"id"`
	BulkChangeID string `json:"bulk_change_id"`
	SeqNo        int64  `json:"seq_no"`
	Step         Step   `json:"step"`
	EventType    string `json:"event_type"`
	PayloadJSON  string `json:"payload_json"`
	CreatedAt    int64  `json:"created_at"`
}

// StepSnapshot captures aggregate state at a step boundary.
type StepSnapshot struct {
	ID           int64  `json:"id"`
	BulkChangeID string `json:"bulk_change_id"`
	Step         Step   `json:"step"`
	SnapshotJSON string `json:"snapshot_json"`
	CreatedAt    int64  `json:"created_at"`
}

// AuditRecord logs a reviewable engine decision or mutation.
type AuditRecord struct {
	ID           string `json:"id"`
	BulkChangeID string `json:"bulk_change_id"`
	Category     string `json:"category"`
	Actor        string `json:"actor"`
	Action       string `json:"action"`
	DetailJSON   string `json:"detail_json"`
	Severity     string `json:"severity"`
	CreatedAt    int64  `json:"created_at"`
}
