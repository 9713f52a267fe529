// Package errors provides unified error handling for the transcription service.
// It implements structured error types with error codes, HTTP status mapping,
// retryable detection, and the fixed user-facing messages for every failure in
// the capture/upload/transcription flow.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Device-access error constructors ---

// PermissionDenied creates an error for a denied microphone request.
func PermissionDenied() *AppError {
	return &AppError{
		Code:       ErrCodePermissionDenied,
		Message:    "Microphone access was denied. Allow microphone access in your browser settings and try again.",
		HTTPStatus: http.StatusForbidden,
	}
}

// DeviceNotFound creates an error for a missing capture device.
func DeviceNotFound() *AppError {
	return &AppError{
		Code:       ErrCodeDeviceNotFound,
		Message:    "No microphone was found. Please connect a microphone and try again.",
		HTTPStatus: http.StatusNotFound,
	}
}

// DeviceBusy creates an error for a capture device held elsewhere.
func DeviceBusy() *AppError {
	return &AppError{
		Code:       ErrCodeDeviceBusy,
		Message:    "The microphone is in use by another application. Please close it and try again.",
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
	}
}

// CaptureAborted creates an error for an aborted device request.
func CaptureAborted() *AppError {
	return &AppError{
		Code:       ErrCodeCaptureAborted,
		Message:    "The microphone request was aborted. Please try again.",
		HTTPStatus: http.StatusConflict,
		Retryable:  true,
	}
}

// SecurityBlocked creates an error for a security-blocked device request.
func SecurityBlocked() *AppError {
	return &AppError{
		Code:       ErrCodeSecurityBlocked,
		Message:    "Microphone access was blocked for security reasons. Make sure the page is served over HTTPS.",
		HTTPStatus: http.StatusForbidden,
	}
}

// NoSupportedFormat creates an error for a device with no accepted audio encoding.
func NoSupportedFormat() *AppError {
	return &AppError{
		Code:       ErrCodeNoSupportedFormat,
		Message:    "No supported audio format was found on this device.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// --- Validation error constructors ---

// EmptyMedia creates an error for a capture/upload below the minimum size threshold.
func EmptyMedia() *AppError {
	return &AppError{
		Code:       ErrCodeEmptyMedia,
		Message:    "No audio was recorded. The recording may be empty or too short.",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// UnsupportedFormat creates an error naming the rejected declared media type verbatim.
func UnsupportedFormat(declaredType string) *AppError {
	return &AppError{
		Code:       ErrCodeUnsupportedFormat,
		Message:    fmt.Sprintf("Unsupported file type %q. Please choose a common audio or video file.", declaredType),
		HTTPStatus: http.StatusUnsupportedMediaType,
		Details:    map[string]any{"declared_type": declaredType},
	}
}

// InvalidInput creates an error for a malformed request.
func InvalidInput(reason string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidInput,
		Message:    fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidState creates an error for an operation invoked in the wrong pipeline state.
func InvalidState(op, state string) *AppError {
	return &AppError{
		Code:       ErrCodeInvalidState,
		Message:    fmt.Sprintf("Cannot %s while the pipeline is %s.", op, state),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"operation": op, "state": state},
	}
}

// --- Remote-service error constructors ---

// Gateway creates an error for a transport or service failure from the AI gateway.
func Gateway(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeGateway,
		Message:    "The transcription service encountered an error. Please try again.",
		HTTPStatus: http.StatusBadGateway,
		Retryable:  true,
		Cause:      cause,
	}
}

// EmptyResponse creates an error for an empty AI result.
func EmptyResponse() *AppError {
	return &AppError{
		Code:       ErrCodeEmptyResponse,
		Message:    "Could not transcribe the audio. The AI response was empty.",
		HTTPStatus: http.StatusBadGateway,
	}
}

// InvalidCredential creates an error for a rejected API key.
func InvalidCredential() *AppError {
	return &AppError{
		Code:       ErrCodeInvalidCredential,
		Message:    "The configured API key is not valid. Check the service configuration.",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Timeout creates an error for a remote request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code:       ErrCodeTimeout,
		Message:    "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout,
		Retryable:  true,
		Details:    map[string]any{"operation": operation},
	}
}

// --- Resource and internal error constructors ---

// NotFound creates an error for a missing resource.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// Cancelled creates an error for a user-cancelled operation.
func Cancelled(operation string) *AppError {
	return &AppError{
		Code:       ErrCodeCancelled,
		Message:    "The operation was cancelled.",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"operation": operation},
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeInternal,
		Message:    "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Storage creates an error for a persistence failure.
func Storage(cause error) *AppError {
	return &AppError{
		Code:       ErrCodeStorage,
		Message:    "A storage error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError,
		Retryable:  true,
		Cause:      cause,
	}
}
