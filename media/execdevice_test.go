package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/LoohanZinho/joraps/errors"
)

func execFixture(t *testing.T, payload []byte) *ExecDevice {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.webm")
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return NewExecDevice(ExecDeviceConfig{
		Binary: "cat",
		Args:   []string{path},
	})
}

func TestExecDevice_StreamsCommandOutput(t *testing.T) {
	payload := bytes.Repeat([]byte("opus"), 20_000)
	device := execFixture(t, payload)

	stream, err := device.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !stream.Supports("audio/webm; codecs=opus") {
		t.Fatal("default encodings should include ranked webm")
	}
	if err := stream.Start("audio/webm"); err != nil {
		t.Fatalf("start: %v", err)
	}

	var collected []byte
	timeout := time.After(2 * time.Second)
	stopped := false
	for !stopped {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				stopped = true
				break
			}
			collected = append(collected, chunk...)
			if len(collected) >= len(payload) {
				if err := stream.Stop(); err != nil {
					t.Fatalf("stop: %v", err)
				}
			}
		case <-timeout:
			t.Fatalf("collected %d of %d bytes before timeout", len(collected), len(payload))
		}
	}

	if !bytes.Equal(collected, payload) {
		t.Errorf("collected %d bytes, want %d", len(collected), len(payload))
	}
	if err := stream.Stop(); err != nil {
		t.Errorf("second stop: %v", err)
	}
}

func TestExecDevice_MissingBinaryIsDeviceNotFound(t *testing.T) {
	device := NewExecDevice(ExecDeviceConfig{Binary: "definitely-not-a-recorder"})
	_, err := device.Open(context.Background())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeDeviceNotFound {
		t.Fatalf("expected device not found, got %v", err)
	}
}

func TestExecDevice_RejectsUnlistedEncoding(t *testing.T) {
	device := execFixture(t, []byte("x"))
	stream, err := device.Open(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer stream.Stop()

	err = stream.Start("audio/mpeg")
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeNoSupportedFormat {
		t.Fatalf("expected no supported format, got %v", err)
	}
}
