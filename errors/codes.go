package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Device-access errors (fatal to the current capture attempt, recoverable by retrying)
const (
	// ErrCodePermissionDenied indicates microphone access was denied by the user or platform.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeDeviceNotFound indicates no capture device is present.
	ErrCodeDeviceNotFound ErrorCode = "DEVICE_NOT_FOUND"
	// ErrCodeDeviceBusy indicates the capture device is held by another process.
	ErrCodeDeviceBusy ErrorCode = "DEVICE_BUSY"
	// ErrCodeCaptureAborted indicates the device request was aborted before a stream opened.
	ErrCodeCaptureAborted ErrorCode = "CAPTURE_ABORTED"
	// ErrCodeSecurityBlocked indicates the platform blocked device access for security reasons.
	ErrCodeSecurityBlocked ErrorCode = "SECURITY_BLOCKED"
	// ErrCodeNoSupportedFormat indicates the device supports none of the accepted audio encodings.
	ErrCodeNoSupportedFormat ErrorCode = "NO_SUPPORTED_FORMAT"
)

// Validation errors (recoverable with different input)
const (
	// ErrCodeEmptyMedia indicates the captured or uploaded media is empty or too short.
	ErrCodeEmptyMedia ErrorCode = "EMPTY_MEDIA"
	// ErrCodeUnsupportedFormat indicates the declared media type is outside the allow-list.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidInput indicates a malformed request.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidState indicates an operation invoked in a pipeline state that forbids it.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
)

// Remote-service errors
const (
	// ErrCodeGateway indicates a transport or service failure from the AI gateway.
	ErrCodeGateway ErrorCode = "GATEWAY_ERROR"
	// ErrCodeEmptyResponse indicates the AI gateway returned an empty result.
	ErrCodeEmptyResponse ErrorCode = "EMPTY_AI_RESPONSE"
	// ErrCodeInvalidCredential indicates the configured API key was rejected.
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	// ErrCodeTimeout indicates a remote request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource and internal errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeCancelled indicates the operation was cancelled by the user.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeStorage indicates a persistence failure.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDeviceBusy:     true,
	ErrCodeCaptureAborted: true,
	ErrCodeGateway:        true,
	ErrCodeTimeout:        true,
	ErrCodeStorage:        true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
