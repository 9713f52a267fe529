package media

import (
	"bytes"
	"context"
	"mime"
	"path"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/LoohanZinho/joraps/errors"
	"github.com/LoohanZinho/joraps/storage"
)

// allowedTypes is the fixed allow-list of uploadable media types. Keys are
// base types; a declared type like "audio/webm; codecs=opus" matches
// "audio/webm".
var allowedTypes = map[string]struct{}{
	"audio/webm":      {},
	"audio/ogg":       {},
	"audio/mpeg":      {},
	"audio/mp4":       {},
	"audio/wav":       {},
	"audio/x-m4a":     {},
	"video/webm":      {},
	"video/mp4":       {},
	"video/quicktime": {},
}

// AllowedType reports whether the declared media type is on the
// allow-list.
func AllowedType(declaredType string) bool {
	base, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		return false
	}
	_, ok := allowedTypes[base]
	return ok
}

// Ingestor validates uploaded files and stages them on the blob store for
// preview and transcription.
type Ingestor struct {
	store storage.Store
}

// NewIngestor creates an ingestor over the given blob store.
func NewIngestor(store storage.Store) *Ingestor {
	return &Ingestor{store: store}
}

// Validate checks an upload against the allow-list and the minimum size.
// The rejection names the declared type verbatim, including any parameters
// the client sent.
func (i *Ingestor) Validate(name, declaredType string, data []byte) error {
	if !AllowedType(declaredType) {
		return apperrors.UnsupportedFormat(declaredType)
	}
	blob := Blob{Data: data, MIMEType: declaredType}
	return blob.Validate()
}

// Stage validates the upload and writes it to the blob store under a
// generated name, returning the staged handle. The caller owns the handle
// and must Release it on every exit path.
func (i *Ingestor) Stage(ctx context.Context, name, declaredType string, data []byte) (*Staged, error) {
	if err := i.Validate(name, declaredType, data); err != nil {
		return nil, err
	}

	key := uuid.NewString() + path.Ext(name)
	if err := i.store.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		return nil, apperrors.Storage(err)
	}

	return &Staged{
		ID:       key,
		Name:     name,
		MIMEType: declaredType,
		Size:     int64(len(data)),
		store:    i.store,
	}, nil
}

// Staged is a validated upload held on the blob store, alive until
// released. Releasing is idempotent so every exit path (superseding
// upload, cancel, successful transcription) can release unconditionally.
type Staged struct {
	// ID is the storage key, also used as the public upload identifier.
	ID string
	// Name is the original file name as uploaded.
	Name string
	// MIMEType is the declared media type, verbatim.
	MIMEType string
	// Size is the payload size in bytes.
	Size int64

	store storage.Store

	mu       sync.Mutex
	released bool
}

// URL returns a preview address for the staged media.
func (s *Staged) URL(ctx context.Context) (string, error) {
	return s.store.URL(ctx, s.ID)
}

// Blob reads the staged media back as a Blob.
func (s *Staged) Blob(ctx context.Context) (*Blob, error) {
	s.mu.Lock()
	released := s.released
	s.mu.Unlock()
	if released {
		return nil, apperrors.NotFound("staged media")
	}

	rc, err := s.store.Download(ctx, s.ID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, apperrors.Storage(err)
	}
	return &Blob{Data: buf.Bytes(), MIMEType: s.MIMEType}, nil
}

// Release deletes the staged media. It is idempotent; only the first call
// touches the store.
func (s *Staged) Release(ctx context.Context) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil
	}
	s.released = true
	s.mu.Unlock()

	if err := s.store.Delete(ctx, s.ID); err != nil {
		return apperrors.Storage(err)
	}
	return nil
}
