// Package util holds small shared helpers: human-readable size parsing
// and secret masking for logs.
package util
