package media

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/process"
)

// captureChunkSize is how much recorder output is read per chunk.
const captureChunkSize = 32 * 1024

// ExecDeviceConfig configures a subprocess-backed capture device.
type ExecDeviceConfig struct {
	// Binary is the recorder executable, resolved via PATH.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// Args are passed to the recorder. The command must write encoded
	// audio to stdout and keep recording until terminated.
	Args []string `yaml:"args" mapstructure:"args"`
	// Encodings lists the MIME types the configured command can produce.
	Encodings []string `yaml:"encodings" mapstructure:"encodings"`
}

// ApplyDefaults fills in an ffmpeg capture of the default input device,
// encoded as webm/opus on stdout.
func (c *ExecDeviceConfig) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = "ffmpeg"
	}
	if len(c.Args) == 0 {
		c.Args = []string{
			"-hide_banner", "-loglevel", "error",
			"-f", "pulse", "-i", "default",
			"-c:a", "libopus", "-f", "webm", "-",
		}
	}
	if len(c.Encodings) == 0 {
		c.Encodings = AcceptedEncodings()
	}
}

// ExecDevice records audio by running an external recorder process and
// streaming its stdout. It is the production Device implementation; the
// recorder command owns the actual hardware access.
type ExecDevice struct {
	cfg ExecDeviceConfig
}

// NewExecDevice creates a device around the configured recorder command.
func NewExecDevice(cfg ExecDeviceConfig) *ExecDevice {
	cfg.ApplyDefaults()
	return &ExecDevice{cfg: cfg}
}

// Open verifies the recorder binary is present. The process itself starts
// on Stream.Start so a failed format negotiation never spawns anything.
func (d *ExecDevice) Open(_ context.Context) (Stream, error) {
	if _, err := exec.LookPath(d.cfg.Binary); err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, apperrors.PermissionDenied()
		}
		return nil, apperrors.DeviceNotFound()
	}
	return &execStream{cfg: d.cfg, ch: make(chan []byte, 8)}, nil
}

type execStream struct {
	cfg ExecDeviceConfig
	ch  chan []byte

	mu      sync.Mutex
	proc    *process.Proc
	stopped bool
	done    chan struct{}
}

func (s *execStream) Supports(mimeType string) bool {
	for _, enc := range s.cfg.Encodings {
		if enc == mimeType {
			return true
		}
	}
	return false
}

func (s *execStream) Start(mimeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc != nil {
		return apperrors.DeviceBusy()
	}
	if !s.Supports(mimeType) {
		return apperrors.NoSupportedFormat()
	}

	proc, err := process.StartStream(process.Command{
		Binary: s.cfg.Binary,
		Args:   s.cfg.Args,
	})
	if err != nil {
		return apperrors.DeviceBusy().WithCause(err)
	}
	s.proc = proc
	s.done = make(chan struct{})

	go s.read(proc.Stdout())
	return nil
}

// read pumps recorder output onto the chunk channel until EOF.
func (s *execStream) read(r io.Reader) {
	defer close(s.done)
	for {
		buf := make([]byte, captureChunkSize)
		n, err := r.Read(buf)
		if n > 0 {
			s.ch <- buf[:n]
		}
		if err != nil {
			return
		}
	}
}

func (s *execStream) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return nil
	}
	return s.proc.Signal(syscall.SIGSTOP)
}

func (s *execStream) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return nil
	}
	return s.proc.Signal(syscall.SIGCONT)
}

func (s *execStream) Chunks() <-chan []byte { return s.ch }

func (s *execStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true

	if s.proc != nil {
		// A paused process cannot handle SIGTERM; wake it first. The
		// reader is drained to EOF before reaping so the recorder's
		// final flush is not lost.
		_ = s.proc.Signal(syscall.SIGCONT)
		_ = s.proc.Signal(syscall.SIGTERM)
		select {
		case <-s.done:
		case <-time.After(5 * time.Second):
		}
		_ = s.proc.Stop()
		<-s.done
	}
	close(s.ch)
	return nil
}
