// Package media implements the two ways audio enters the service: live
// capture through a Device stream, and file upload through the Ingestor.
//
// The Recorder negotiates an encoding from AcceptedEncodings, accumulates
// chunks while recording, and finalizes them into a single Blob. The
// Ingestor validates uploads against a fixed media-type allow-list and
// stages them on the blob store until they are transcribed or discarded.
package media
