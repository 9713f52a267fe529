package media

import (
	"encoding/base64"

	apperrors "github.com/LoohanZinho/joraps/errors"
)

// MinBlobSize is the minimum payload size in bytes before a capture or
// upload counts as real media. Recordings below this are header-only or a
// fraction of a second of silence.
const MinBlobSize = 1000

// Blob is a finalized piece of media: the raw bytes plus the MIME type
// they were encoded with.
type Blob struct {
	Data     []byte
	MIMEType string
}

// Validate rejects empty or too-short media.
func (b *Blob) Validate() error {
	if len(b.Data) < MinBlobSize {
		return apperrors.EmptyMedia()
	}
	return nil
}

// Base64 returns the payload in the encoding the AI gateway transports
// media in.
func (b *Blob) Base64() string {
	return base64.StdEncoding.EncodeToString(b.Data)
}
