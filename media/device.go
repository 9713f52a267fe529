package media

import (
	"context"
	"sync"

	apperrors "github.com/LoohanZinho/joraps/errors"
)

// Device is the port to an audio capture device. Open failures come back
// as the typed device-access errors from the errors package (permission
// denied, not found, busy, aborted, security blocked) so callers can show
// the right guidance.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open capture session on a device. A stream records in
// exactly one encoding at a time; Stop ends the session and releases the
// device.
type Stream interface {
	// Supports reports whether the device can record in the given encoding.
	Supports(mimeType string) bool

	// Start begins recording in the given encoding. Chunks become readable
	// once recording starts.
	Start(mimeType string) error

	// Pause suspends chunk production without releasing the device.
	Pause() error

	// Resume continues a paused recording.
	Resume() error

	// Chunks returns the channel recorded data arrives on. The channel is
	// closed by Stop.
	Chunks() <-chan []byte

	// Stop ends the session, closes the chunk channel, and releases the
	// device.
	Stop() error
}

// FakeDevice is an in-memory Device for tests and development. It scripts
// the open outcome and the chunks a session produces.
type FakeDevice struct {
	// OpenErr, when set, is returned by Open instead of a stream.
	OpenErr error

	// Encodings lists the MIME types the fake stream claims to support.
	// Empty means every encoding is supported.
	Encodings []string

	// ScriptedChunks are delivered on the stream's chunk channel after
	// Start.
	ScriptedChunks [][]byte

	// StopErr, when set, is returned by the stream's first Stop after the
	// chunk channel closes.
	StopErr error

	// OnStop, when set, runs inside the stream's first Stop, after the
	// chunk channel closes and before Stop returns. Tests use it to
	// interleave calls with session finalization.
	OnStop func()
}

// Open returns the scripted error or a fresh fake stream.
func (d *FakeDevice) Open(_ context.Context) (Stream, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	return &fakeStream{device: d, ch: make(chan []byte, len(d.ScriptedChunks)+1)}, nil
}

type fakeStream struct {
	device *FakeDevice
	ch     chan []byte

	mu      sync.Mutex
	started bool
	paused  bool
	stopped bool
}

func (s *fakeStream) Supports(mimeType string) bool {
	if len(s.device.Encodings) == 0 {
		return true
	}
	for _, enc := range s.device.Encodings {
		if enc == mimeType {
			return true
		}
	}
	return false
}

func (s *fakeStream) Start(mimeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return apperrors.DeviceBusy()
	}
	if !s.Supports(mimeType) {
		return apperrors.NoSupportedFormat()
	}
	s.started = true
	for _, chunk := range s.device.ScriptedChunks {
		s.ch <- chunk
	}
	return nil
}

func (s *fakeStream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = true
	return nil
}

func (s *fakeStream) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = false
	return nil
}

func (s *fakeStream) Chunks() <-chan []byte { return s.ch }

func (s *fakeStream) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.ch)
	s.mu.Unlock()

	// Run the hook unlocked so it may re-enter the stream (a second Stop
	// is a no-op).
	if s.device.OnStop != nil {
		s.device.OnStop()
	}
	return s.device.StopErr
}
