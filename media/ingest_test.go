package media

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/storage"
)

func newTestIngestor(t *testing.T) (*Ingestor, storage.Store) {
	t.Helper()
	store, err := storage.NewFSStoreFS(afero.NewMemMapFs(), "/staging")
	if err != nil {
		t.Fatalf("NewFSStoreFS: %v", err)
	}
	return NewIngestor(store), store
}

func validPayload() []byte {
	return bytes.Repeat([]byte{0x1F}, MinBlobSize*2)
}

func TestAllowedType(t *testing.T) {
	allowed := []string{
		"audio/webm", "audio/ogg", "audio/mpeg", "audio/mp4", "audio/wav",
		"audio/x-m4a", "video/webm", "video/mp4", "video/quicktime",
		"audio/webm; codecs=opus", "AUDIO/WEBM",
	}
	for _, mt := range allowed {
		if !AllowedType(mt) {
			t.Errorf("expected %q to be allowed", mt)
		}
	}
	rejected := []string{"text/plain", "application/pdf", "audio/flac", "image/png", "", "not a type"}
	for _, mt := range rejected {
		if AllowedType(mt) {
			t.Errorf("expected %q to be rejected", mt)
		}
	}
}

func TestValidate_RejectionNamesTypeVerbatim(t *testing.T) {
	ing, _ := newTestIngestor(t)

	err := ing.Validate("notes.pdf", "application/pdf; charset=binary", validPayload())
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeUnsupportedFormat {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
	if !strings.Contains(appErr.Message, `"application/pdf; charset=binary"`) {
		t.Errorf("rejection does not name the declared type verbatim: %q", appErr.Message)
	}
}

func TestValidate_TooSmall(t *testing.T) {
	ing, _ := newTestIngestor(t)

	err := ing.Validate("clip.webm", "audio/webm", []byte("tiny"))
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.ErrCodeEmptyMedia {
		t.Fatalf("expected empty media error, got %v", err)
	}
}

func TestStage_WritesAndReadsBack(t *testing.T) {
	ing, store := newTestIngestor(t)
	ctx := context.Background()
	payload := validPayload()

	staged, err := ing.Stage(ctx, "meeting.webm", "audio/webm", payload)
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if staged.Name != "meeting.webm" || staged.MIMEType != "audio/webm" {
		t.Errorf("staged metadata wrong: %+v", staged)
	}
	if !strings.HasSuffix(staged.ID, ".webm") {
		t.Errorf("expected generated key to keep the extension, got %q", staged.ID)
	}
	if staged.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), staged.Size)
	}

	exists, err := store.Exists(ctx, staged.ID)
	if err != nil || !exists {
		t.Fatalf("expected staged object on store, exists=%v err=%v", exists, err)
	}

	blob, err := staged.Blob(ctx)
	if err != nil {
		t.Fatalf("blob: %v", err)
	}
	if !bytes.Equal(blob.Data, payload) {
		t.Error("staged payload mismatch")
	}
	if blob.MIMEType != "audio/webm" {
		t.Errorf("blob lost declared type: %q", blob.MIMEType)
	}

	if _, err := staged.URL(ctx); err != nil {
		t.Errorf("url: %v", err)
	}
}

func TestStage_UniqueKeys(t *testing.T) {
	ing, _ := newTestIngestor(t)
	ctx := context.Background()

	a, err := ing.Stage(ctx, "one.webm", "audio/webm", validPayload())
	if err != nil {
		t.Fatalf("stage a: %v", err)
	}
	b, err := ing.Stage(ctx, "one.webm", "audio/webm", validPayload())
	if err != nil {
		t.Fatalf("stage b: %v", err)
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct keys for same file name, got %q twice", a.ID)
	}
}

func TestRelease_IdempotentAndRemovesObject(t *testing.T) {
	ing, store := newTestIngestor(t)
	ctx := context.Background()

	staged, err := ing.Stage(ctx, "clip.webm", "audio/webm", validPayload())
	if err != nil {
		t.Fatalf("stage: %v", err)
	}

	if err := staged.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	exists, _ := store.Exists(ctx, staged.ID)
	if exists {
		t.Error("expected object removed after release")
	}

	if err := staged.Release(ctx); err != nil {
		t.Errorf("second release should be a no-op, got %v", err)
	}

	if _, err := staged.Blob(ctx); err == nil {
		t.Error("expected blob read after release to fail")
	}
}

func TestStage_RejectsBeforeTouchingStore(t *testing.T) {
	ing, store := newTestIngestor(t)
	ctx := context.Background()

	if _, err := ing.Stage(ctx, "doc.txt", "text/plain", validPayload()); err == nil {
		t.Fatal("expected rejection")
	}
	infos, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("rejected upload left %d objects on the store", len(infos))
	}
}
