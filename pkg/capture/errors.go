package capture

import "errors"

// Sentinel errors matched by CaptureError.Is
var (
	ErrAllocationFailure = errors.New("sample buffer cannot grow")
	ErrCaptureInProgress = errors.New("capture in progress")
)

// Common error codes
const (
	ErrCodeAllocation        = "ALLOCATION_FAILED"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeSourceUnsupported = "UNSUPPORTED_SOURCE"
	ErrCodeInvalidConfig     = "INVALID_CONFIG"
)

// CaptureError represents capture-related errors
type CaptureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *CaptureError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *CaptureError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel error for this code
func (e *CaptureError) Is(target error) bool {
	switch e.Code {
	case ErrCodeAllocation:
		return target == ErrAllocationFailure
	case ErrCodeInvalidState:
		return target == ErrCaptureInProgress
	}
	return false
}

// NewCaptureError creates a new capture error
func NewCaptureError(code, message string, cause error) *CaptureError {
	return &CaptureError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
