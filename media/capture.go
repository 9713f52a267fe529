package media

import (
	"context"
	"sync"

	apperrors "github.com/LoohanZinho/joraps/errors"
)

// AcceptedEncodings returns the capture encodings in preference order. The
// recorder negotiates down the list and takes the first one the device
// supports.
func AcceptedEncodings() []string {
	return []string{"audio/webm; codecs=opus", "audio/webm"}
}

// Recorder drives a capture session on a Device: it negotiates the
// encoding, accumulates chunks in arrival order, and finalizes them into a
// single Blob. A Recorder owns at most one session at a time.
type Recorder struct {
	device Device

	mu        sync.Mutex
	stream    Stream
	mimeType  string
	chunks    [][]byte
	collected chan struct{}
}

// NewRecorder creates a recorder on the given device.
func NewRecorder(device Device) *Recorder {
	return &Recorder{device: device}
}

// Start opens the device and begins recording in the first accepted
// encoding the device supports. It fails with the device's typed open
// error, with NoSupportedFormat when negotiation finds nothing, or with
// InvalidState when a session is already running.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		return apperrors.InvalidState("start capture", "recording")
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		return err
	}

	mimeType := ""
	for _, enc := range AcceptedEncodings() {
		if stream.Supports(enc) {
			mimeType = enc
			break
		}
	}
	if mimeType == "" {
		_ = stream.Stop()
		return apperrors.NoSupportedFormat()
	}

	if err := stream.Start(mimeType); err != nil {
		_ = stream.Stop()
		return err
	}

	r.stream = stream
	r.mimeType = mimeType
	r.chunks = nil
	r.collected = make(chan struct{})
	go r.collect(stream, r.collected)
	return nil
}

// collect drains the stream's chunk channel until Stop closes it.
func (r *Recorder) collect(stream Stream, done chan struct{}) {
	defer close(done)
	for chunk := range stream.Chunks() {
		r.mu.Lock()
		r.chunks = append(r.chunks, chunk)
		r.mu.Unlock()
	}
}

// Pause suspends the session. It is a no-op when nothing is recording.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return nil
	}
	return r.stream.Pause()
}

// Resume continues a paused session. It is a no-op when nothing is
// recording.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream == nil {
		return nil
	}
	return r.stream.Resume()
}

// Recording reports whether a session is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}

// MIMEType returns the encoding negotiated for the active session, or ""
// when nothing is recording.
func (r *Recorder) MIMEType() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mimeType
}

// Stop ends the session, waits for the remaining chunks, and returns them
// concatenated into one Blob with the negotiated MIME type. The blob is
// not size-validated here; callers decide whether a too-short capture is
// an error or a discard.
func (r *Recorder) Stop() (*Blob, error) {
	r.mu.Lock()
	stream := r.stream
	collected := r.collected
	mimeType := r.mimeType
	r.mu.Unlock()

	if stream == nil {
		return nil, apperrors.InvalidState("stop capture", "idle")
	}

	if err := stream.Stop(); err != nil {
		return nil, err
	}
	<-collected

	r.mu.Lock()
	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range r.chunks {
		data = append(data, c...)
	}
	r.stream = nil
	r.mimeType = ""
	r.chunks = nil
	r.collected = nil
	r.mu.Unlock()

	return &Blob{Data: data, MIMEType: mimeType}, nil
}

// Abort ends the session and discards everything recorded so far. It is a
// no-op when nothing is recording.
func (r *Recorder) Abort() {
	r.mu.Lock()
	stream := r.stream
	collected := r.collected
	r.mu.Unlock()

	if stream == nil {
		return
	}
	_ = stream.Stop()
	<-collected

	r.mu.Lock()
	r.stream = nil
	r.mimeType = ""
	r.chunks = nil
	r.collected = nil
	r.mu.Unlock()
}
