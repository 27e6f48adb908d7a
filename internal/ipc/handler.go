// Package ipc provides the HTTP API for the Bulk Change Engine.
package ipc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/anthropics/bulkchange-engine/internal/builder"
	"github.com/anthropics/bulkchange-engine/internal/catalog"
	"github.com/anthropics/bulkchange-engine/internal/directory"
	"github.com/anthropics/bulkchange-engine/internal/domain"
	"github.com/anthropics/bulkchange-engine/internal/impact"
	"github.com/anthropics/bulkchange-engine/internal/workflow"
)

// Handler holds all dependencies for the HTTP handlers.
type Handler struct {
	Engine   *workflow.Engine
	Builder  *builder.Builder
	Catalog  *catalog.Catalog
	Dir      *directory.Directory
	Reporter *impact.Reporter
}

// APIError is a structured error response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateBulkChangeRequest is the body for POST /api/v1/bulk-changes.
type CreateBulkChangeRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// CreateBulkChange handles POST /api/v1/bulk-changes.
func (h *Handler) CreateBulkChange(w http.ResponseWriter, r *http.Request) {
	var req CreateBulkChangeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	bc, err := h.Engine.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bc)
}

// ListBulkChanges handles GET /api/v1/bulk-changes.
func (h *Handler) ListBulkChanges(w http.ResponseWriter, r *http.Request) {
	list, err := h.Engine.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if list == nil {
		list = []domain.BulkChange{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GetBulkChange handles GET /api/v1/bulk-changes/{id}.
func (h *Handler) GetBulkChange(w http.ResponseWriter, r *http.Request) {
	bc, err := h.Engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// UpdateBulkChangeRequest is the body for PATCH /api/v1/bulk-changes/{id}.
// Absent fields are left untouched.
type UpdateBulkChangeRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	Reason        *string `json:"reason" validate:"omitempty,max=2000"`
	EffectiveDate *string `json:"effective_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateBulkChange handles PATCH /api/v1/bulk-changes/{id}.
func (h *Handler) UpdateBulkChange(w http.ResponseWriter, r *http.Request) {
	var req UpdateBulkChangeRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	bc, err := h.Engine.Update(r.Context(), r.PathValue("id"), workflow.UpdateInput{
		Name:          req.Name,
		Description:   req.Description,
		Reason:        req.Reason,
		EffectiveDate: req.EffectiveDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// DeleteBulkChange handles DELETE /api/v1/bulk-changes/{id}.
func (h *Handler) DeleteBulkChange(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ActionRequest is the body for adding or replacing an action. The
// server builds the action from scratch; clients never submit computed
// summaries or counts.
type ActionRequest struct {
	Type              string                    `json:"type" validate:"required"`
	Name              string                    `json:"name" validate:"max=200"`
	Attributes        []string                  `json:"attributes" validate:"required,min=1"`
	EmployeeIDs       []string                  `json:"employee_ids" validate:"required,min=1"`
	Mode              string                    `json:"mode" validate:"required,oneof=uniform per_employee"`
	UniformValues     map[string]any            `json:"uniform_values"`
	PerEmployeeValues map[string]map[string]any `json:"per_employee_values"`
}

func (req ActionRequest) toInput() builder.Input {
	return builder.Input{
		Type:              domain.ActionType(req.Type),
		Name:              req.Name,
		Attributes:        req.Attributes,
		EmployeeIDs:       req.EmployeeIDs,
		Mode:              builder.ChangeMode(req.Mode),
		UniformValues:     req.UniformValues,
		PerEmployeeValues: req.PerEmployeeValues,
	}
}

// AddAction handles POST /api/v1/bulk-changes/{id}/actions.
func (h *Handler) AddAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	action, err := h.Builder.Build(req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	bc, err := h.Engine.AddAction(r.Context(), r.PathValue("id"), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bc)
}

// UpdateAction handles PUT /api/v1/bulk-changes/{id}/actions/{actionID}.
func (h *Handler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	action, err := h.Builder.Build(req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	action.ID = r.PathValue("actionID")
	bc, err := h.Engine.UpdateAction(r.Context(), r.PathValue("id"), action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// RemoveAction handles DELETE /api/v1/bulk-changes/{id}/actions/{actionID}.
func (h *Handler) RemoveAction(w http.ResponseWriter, r *http.Request) {
	bc, err := h.Engine.RemoveAction(r.Context(), r.PathValue("id"), r.PathValue("actionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// AdvanceStep handles POST /api/v1/bulk-changes/{id}/advance.
func (h *Handler) AdvanceStep(w http.ResponseWriter, r *http.Request) {
	bc, err := h.Engine.AdvanceStep(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// GoToStepRequest is the body for POST /api/v1/bulk-changes/{id}/goto.
type GoToStepRequest struct {
	Step int `json:"step" validate:"required,min=1,max=7"`
}

// GoToStep handles POST /api/v1/bulk-changes/{id}/goto.
func (h *Handler) GoToStep(w http.ResponseWriter, r *http.Request) {
	var req GoToStepRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	bc, err := h.Engine.GoToStep(r.Context(), r.PathValue("id"), domain.Step(req.Step))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// EffectiveDateRequest is the body for the effective-date endpoint.
type EffectiveDateRequest struct {
	EffectiveDate string `json:"effective_date" validate:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" validate:"max=2000"`
}

// SetEffectiveDate handles POST /api/v1/bulk-changes/{id}/effective-date.
func (h *Handler) SetEffectiveDate(w http.ResponseWriter, r *http.Request) {
	var req EffectiveDateRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	bc, err := h.Engine.SetEffectiveDate(r.Context(), r.PathValue("id"), req.EffectiveDate, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// RouteRequest is the body for POST /api/v1/bulk-changes/{id}/route.
type RouteRequest struct {
	Approvers []RouteApprover `json:"approvers" validate:"required,min=1,dive"`
}

// RouteApprover is one approval scope in a routing request.
type RouteApprover struct {
	Scope         string `json:"scope" validate:"required"`
	EmployeeCount int    `json:"employee_count" validate:"min=0"`
	ApproverID    string `json:"approver_id" validate:"required"`
	BackupName    string `json:"backup_name"`
	BackupEmail   string `json:"backup_email" validate:"omitempty,email"`
}

// RouteForApproval handles POST /api/v1/bulk-changes/{id}/route.
func (h *Handler) RouteForApproval(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}

	inputs := make([]workflow.ApproverInput, 0, len(req.Approvers))
	for _, a := range req.Approvers {
		emp, err := h.Dir.ByID(a.ApproverID)
		if err != nil {
			writeError(w, err)
			return
		}
		inputs = append(inputs, workflow.ApproverInput{
			Scope:         a.Scope,
			EmployeeCount: a.EmployeeCount,
			ApproverID:    emp.ID,
			ApproverName:  emp.Name,
			ApproverEmail: emp.Email,
			BackupName:    a.BackupName,
			BackupEmail:   a.BackupEmail,
		})
	}

	bc, err := h.Engine.RouteForApproval(r.Context(), r.PathValue("id"), inputs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// DecisionRequest is the body for POST /api/v1/bulk-changes/{id}/decisions.
type DecisionRequest struct {
	ApproverEntryID string `json:"approver_entry_id" validate:"required"`
	Decision        string `json:"decision" validate:"required,oneof=approve reject"`
	Actor           string `json:"actor" validate:"max=200"`
}

// RecordDecision handles POST /api/v1/bulk-changes/{id}/decisions.
func (h *Handler) RecordDecision(w http.ResponseWriter, r *http.Request) {
	var req DecisionRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	bc, err := h.Engine.RecordDecision(r.Context(), r.PathValue("id"),
		req.ApproverEntryID, req.Decision == "approve", req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// MarkOverdue handles POST /api/v1/bulk-changes/{id}/mark-overdue.
func (h *Handler) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	bc, n, err := h.Engine.MarkOverdue(r.Context(), r.PathValue("id"), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bulk_change":  bc,
		"marked_count": n,
	})
}

// Commit handles POST /api/v1/bulk-changes/{id}/commit.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Actor string `json:"actor"`
	}
	// The body is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	bc, err := h.Engine.Commit(r.Context(), r.PathValue("id"), req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bc)
}

// ValidationSummary handles GET /api/v1/bulk-changes/{id}/validation.
func (h *Handler) ValidationSummary(w http.ResponseWriter, r *http.Request) {
	bc, err := h.Engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	counts := h.Engine.Aggregator.Summarize(bc)
	blockers := h.Engine.Aggregator.Blockers(bc)
	if blockers == nil {
		blockers = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"counts":   counts,
		"blockers": blockers,
	})
}

// ListEvents handles GET /api/v1/bulk-changes/{id}/events?since_seq=N.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sinceSeq := int64(0)
	if s := r.URL.Query().Get("since_seq"); s != "" {
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			sinceSeq = parsed
		}
	}
	events, err := h.Engine.Events(r.Context(), r.PathValue("id"), sinceSeq)
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []domain.WorkflowEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ListAudit handles GET /api/v1/bulk-changes/{id}/audit.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	records, err := h.Engine.Audit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []domain.AuditRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// Impact handles GET /api/v1/bulk-changes/{id}/impact.
func (h *Handler) Impact(w http.ResponseWriter, r *http.Request) {
	bc, err := h.Engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	report := h.Reporter.Assess(impact.ChangedAttributes(bc), bc.EmployeeCount)
	writeJSON(w, http.StatusOK, report)
}

// Monitoring handles GET /api/v1/bulk-changes/{id}/monitoring.
func (h *Handler) Monitoring(w http.ResponseWriter, r *http.Request) {
	bc, err := h.Engine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if bc.Status != domain.StatusCommitted {
		writeJSON(w, http.StatusConflict, APIError{
			Code:    domain.ErrInvalidStatus.Code,
			Message: "monitoring is only available after commit",
		})
		return
	}
	writeJSON(w, http.StatusOK, h.Reporter.Monitoring(bc))
}

// ListEmployees handles GET /api/v1/employees?q=&department=&location=&manager=.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var emps []domain.Employee
	switch {
	case q.Get("q") != "":
		emps = h.Dir.Search(q.Get("q"))
	case q.Get("manager") != "":
		emps = h.Dir.ByManager(q.Get("manager"))
	default:
		emps = h.Dir.All()
	}
	if dept := q.Get("department"); dept != "" {
		emps = filterEmployees(emps, func(e domain.Employee) bool { return e.Department == dept })
	}
	if loc := q.Get("location"); loc != "" {
		emps = filterEmployees(emps, func(e domain.Employee) bool { return e.Location == loc })
	}
	if emps == nil {
		emps = []domain.Employee{}
	}
	writeJSON(w, http.StatusOK, emps)
}

// GetEmployee handles GET /api/v1/employees/{id}.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Dir.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emp)
}

// ResolveRequest is the body for POST /api/v1/employees/resolve.
type ResolveRequest struct {
	Refs []string `json:"refs" validate:"required,min=1"`
}

// ResolveEmployees handles POST /api/v1/employees/resolve: it maps pasted
// ids or emails to employees.
func (h *Handler) ResolveEmployees(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		return
	}
	matched, unmatched := h.Dir.ResolveRefs(req.Refs)
	if matched == nil {
		matched = []domain.Employee{}
	}
	if unmatched == nil {
		unmatched = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matched":   matched,
		"unmatched": unmatched,
	})
}

// ListCategories handles GET /api/v1/catalog/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Categories())
}

// ListTemplates handles GET /api/v1/catalog/templates.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Templates())
}

func filterEmployees(emps []domain.Employee, pred func(domain.Employee) bool) []domain.Employee {
	var out []domain.Employee
	for _, e := range emps {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var engErr *domain.EngineError
	if errors.As(err, &engErr) {
		status := http.StatusInternalServerError
		switch engErr.Code {
		case domain.ErrBulkChangeNotFound.Code, domain.ErrActionNotFound.Code,
			domain.ErrApproverNotFound.Code, domain.ErrEmployeeNotFound.Code:
			status = http.StatusNotFound
		case domain.ErrOptimisticLock.Code, domain.ErrAlreadyCommitted.Code,
			domain.ErrApproverDecided.Code:
			status = http.StatusConflict
		case domain.ErrInvalidStep.Code, domain.ErrNoEmployees.Code,
			domain.ErrNoAttributes.Code, domain.ErrUnknownAttribute.Code,
			domain.ErrAttributeNotEditable.Code, domain.ErrUnknownActionType.Code,
			domain.ErrUnknownChangeMode.Code, domain.ErrNoEffectiveDate.Code:
			status = http.StatusBadRequest
		case domain.ErrStepGateBlocked.Code, domain.ErrInvalidStatus.Code,
			domain.ErrNotFullyApproved.Code:
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, APIError{Code: engErr.Code, Message: engErr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, APIError{Code: -1, Message: err.Error()})
}
