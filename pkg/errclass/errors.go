// Package errclass defines the stable, machine-readable error classes
// surfaced by the interruption report pipeline.
package errclass

import "fmt"

// ReportError is a stable error class with an optional detail message.
type ReportError struct {
	Code    string
	Message string
}

func (e *ReportError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ReportError) Is(target error) bool {
	t, ok := target.(*ReportError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new ReportError with the same Code but a specific message.
func (e *ReportError) WithMessage(msg string) *ReportError {
	return &ReportError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new ReportError with a formatted message.
func (e *ReportError) WithMessagef(format string, args ...any) *ReportError {
	return &ReportError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// All stable error classes.
var (
	ErrInvalidWindow       = &ReportError{Code: "E_INVALID_WINDOW"}
	ErrTimeFormat          = &ReportError{Code: "E_TIME_FORMAT"}
	ErrNameInvalid         = &ReportError{Code: "E_NAME_INVALID"}
	ErrModeInvalid         = &ReportError{Code: "E_MODE_INVALID"}
	ErrDataUnavailable     = &ReportError{Code: "E_DATA_UNAVAILABLE"}
	ErrMissingRequiredData = &ReportError{Code: "E_MISSING_REQUIRED_DATA"}
	ErrRenderFailure       = &ReportError{Code: "E_RENDER_FAILURE"}
	ErrStorePersistence    = &ReportError{Code: "E_STORE_PERSISTENCE"}
	ErrLockConflict        = &ReportError{Code: "E_LOCK_CONFLICT"}
	ErrAuditChainBroken    = &ReportError{Code: "E_AUDIT_CHAIN_BROKEN"}
)
