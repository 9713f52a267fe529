// Package server exposes the transcription pipeline over HTTP using Gin.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation
//   - CORS: cross-origin resource sharing configuration
//   - BodySize: request body size limits, sized for media uploads
//   - RateLimit: per-client token bucket rate limiting
//   - Logging: request logging with latency tracking
//
// # Endpoints
//
// The API surface lives in api.go: recording control, file upload and
// transcription, the generic AI action dispatch, history, preferences,
// and chat. System endpoints /health and /version come from
// server/endpoint.
package server
