// Package errors defines the application error taxonomy: device-access,
// validation, remote-service, and internal failures, each with a stable code,
// a fixed user-facing message, and an HTTP status mapping.
package errors
