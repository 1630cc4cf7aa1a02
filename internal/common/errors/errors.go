// Package errors provides standardized error handling for the wizard service.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDraftSaveFailed ErrorCode = "DRAFT_SAVE_FAILED"
	ErrCodeDraftCorrupt    ErrorCode = "DRAFT_CORRUPT"

	ErrCodeSubmissionFailed   ErrorCode = "SUBMISSION_FAILED"
	ErrCodeSubmissionRejected ErrorCode = "SUBMISSION_REJECTED"
	ErrCodeUploadFailed       ErrorCode = "UPLOAD_FAILED"

	ErrCodeAttachmentRejected ErrorCode = "ATTACHMENT_REJECTED"
	ErrCodeInvalidPatch       ErrorCode = "INVALID_PATCH"
	ErrCodeUnknownFlow        ErrorCode = "UNKNOWN_FLOW"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeIdentityLookupFailed ErrorCode = "IDENTITY_LOOKUP_FAILED"

	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT_ERROR"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// As extracts a *StandardError from an error chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewDraftSaveFailedError creates a retryable draft persistence error.
func NewDraftSaveFailedError(flow string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftSaveFailed,
		Message:   "Draft could not be saved",
		Details:   fmt.Sprintf("flow: %s, error: %s", flow, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftCorruptError describes a stored draft that could not be decoded.
func NewDraftCorruptError(flow, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftCorrupt,
		Message:   "Stored draft is unreadable",
		Details:   fmt.Sprintf("flow: %s, %s", flow, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a retryable submission error (network, 5xx).
func NewSubmissionFailedError(flow string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Submission failed",
		Details:   fmt.Sprintf("flow: %s, error: %s", flow, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionRejectedError creates a non-retryable error for payloads the
// endpoint refused.
func NewSubmissionRejectedError(flow string, status int, body string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionRejected,
		Message:   "Submission was rejected",
		Details:   fmt.Sprintf("flow: %s, status: %d, body: %s", flow, status, body),
		Retryable: false,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
	}
}

// NewUploadFailedError creates a retryable attachment upload error.
func NewUploadFailedError(field string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUploadFailed,
		Message:   "Attachment upload failed",
		Details:   fmt.Sprintf("field: %s, error: %s", field, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAttachmentRejectedError carries the field-level message shown to the user.
func NewAttachmentRejectedError(field, message string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAttachmentRejected,
		Message:   message,
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPatchError reports a section update that could not be decoded.
func NewInvalidPatchError(section, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPatch,
		Message:   "Invalid section update",
		Details:   fmt.Sprintf("section: %s, %s", section, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownFlowError reports a flow name that is not registered.
func NewUnknownFlowError(flow string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownFlow,
		Message:   "Unknown wizard flow",
		Details:   fmt.Sprintf("flow: %s", flow),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError reports a request against a session that was never opened.
func NewSessionNotFoundError(flow, userID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "No active wizard session",
		Details:   fmt.Sprintf("flow: %s, userId: %s", flow, userID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewIdentityLookupFailedError creates a retryable identity collaborator error.
func NewIdentityLookupFailedError(userID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIdentityLookupFailed,
		Message:   "Identity lookup failed",
		Details:   fmt.Sprintf("userId: %s, error: %s", userID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExternalService,
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns how many times a caller may reasonably retry.
// The wizard never retries on its own; this only informs API clients.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDraftSaveFailed,
		ErrCodeSubmissionFailed,
		ErrCodeUploadFailed,
		ErrCodeIdentityLookupFailed,
		ErrCodeExternalService:
		return 3
	case ErrCodeTimeout:
		return 2
	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "DRAFT"):
		return "PERSISTENCE"
	case strings.HasPrefix(codeStr, "SUBMISSION") || strings.HasPrefix(codeStr, "UPLOAD"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "ATTACHMENT") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "FLOW"):
		return "SESSION"
	case strings.Contains(codeStr, "IDENTITY"):
		return "IDENTITY"
	default:
		return "OTHER"
	}
}
