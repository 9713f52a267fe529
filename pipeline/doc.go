// Package pipeline implements the capture/upload to transcription state
// machine.
//
// A cycle moves idle -> recording <-> paused -> processing -> ready or
// error; uploads enter through idle -> file-loaded -> processing. Ready
// and error end a cycle, and a new capture or upload starts the next one.
// Cancel works from any non-idle state: it wipes session state and leaves
// an in-flight AI result to die on the cycle's cancellation token.
package pipeline
