// Package assets stores user-uploaded media on disk and hands back
// opaque references that the rest of the application persists.
package assets

import (
	"context"
	"errors"
)

// ErrInvalidImage is returned when the uploaded bytes are not a decodable
// image of an allowed format.
var ErrInvalidImage = errors.New("invalid image")

// ErrTooLarge is returned when the upload exceeds the configured size limit.
var ErrTooLarge = errors.New("image too large")

// UploadInput carries a single uploaded file.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Store persists media and resolves references to servable URLs.
// Upload failures are fatal to the caller's operation; Delete is
// best-effort and callers may ignore its error.
type Store interface {
	Upload(ctx context.Context, in UploadInput) (ref string, err error)
	Delete(ctx context.Context, ref string) error
	URL(ref string) string
}
