package domain

import "fmt"

// EngineError is the unified error type for the engine.
// Each error has a numeric code and human-readable message.
type EngineError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

// NewEngineError creates a new EngineError.
func NewEngineError(code int, msg string) *EngineError {
	return &EngineError{Code: code, Message: msg}
}

// WrapEngineError creates an EngineError that includes a cause.
func WrapEngineError(code int, msg string, cause error) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf("%s: %v", msg, cause)}
}

// ---- Lifecycle / FSM / Gate errors (-32010 to -32039) ----

var (
	ErrBulkChangeNotFound = &EngineError{Code: -32010, Message: "bulk change not found"}
	ErrActionNotFound     = &EngineError{Code: -32011, Message: "action not found"}
	ErrApproverNotFound   = &EngineError{Code: -32012, Message: "approver entry not found"}
	ErrInvalidStep        = &EngineError{Code: -32013, Message: "step out of range"}
	ErrStepGateBlocked    = &EngineError{Code: -32014, Message: "step gate blocked transition"}
	ErrAlreadyCommitted   = &EngineError{Code: -32015, Message: "bulk change already committed"}
	ErrOptimisticLock     = &EngineError{Code: -32016, Message: "optimistic lock conflict: state was modified concurrently"}
	ErrInvalidStatus      = &EngineError{Code: -32017, Message: "operation not permitted in current status"}
	ErrNotFullyApproved   = &EngineError{Code: -32018, Message: "bulk change is not fully approved"}
	ErrApproverDecided    = &EngineError{Code: -32019, Message: "approver entry already decided"}
)

// ---- Builder / Catalog / Directory errors (-32040 to -32069) ----

var (
	ErrNoEmployees          = &EngineError{Code: -32040, Message: "no employees selected"}
	ErrEmployeeNotFound     = &EngineError{Code: -32041, Message: "employee not found in directory"}
	ErrUnknownAttribute     = &EngineError{Code: -32042, Message: "unknown attribute id"}
	ErrAttributeNotEditable = &EngineError{Code: -32043, Message: "attribute is derived or not editable"}
	ErrNoAttributes         = &EngineError{Code: -32044, Message: "no attributes selected"}
	ErrUnknownActionType    = &EngineError{Code: -32045, Message: "unknown action type"}
	ErrUnknownChangeMode    = &EngineError{Code: -32046, Message: "unknown change mode"}
	ErrNoEffectiveDate      = &EngineError{Code: -32047, Message: "effective date is required"}
)

// ---- Store / Config errors (-32130 to -32159) ----

var (
	ErrStoreInit       = &EngineError{Code: -32130, Message: "failed to initialize store"}
	ErrStoreQuery      = &EngineError{Code: -32131, Message: "store query failed"}
	ErrStoreWrite      = &EngineError{Code: -32132, Message: "store write failed"}
	ErrSchemaMigration = &EngineError{Code: -32133, Message: "schema migration failed"}
	ErrConfigInvalid   = &EngineError{Code: -32136, Message: "invalid configuration"}
)
