package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	MasterMaxSize    = 2048
	ThumbnailMaxSize = 256
	WebPQuality      = 70
)

// DiskStore writes a webp master and thumbnail per upload under a
// two-level directory keyed by a random reference.
type DiskStore struct {
	dir          string
	maxSizeBytes int64
}

// NewDiskStore returns a DiskStore rooted at dir with the given upload
// limit in megabytes.
func NewDiskStore(dir string, maxSizeMB int) *DiskStore {
	return &DiskStore{
		dir:          dir,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *DiskStore) Upload(_ context.Context, in UploadInput) (string, error) {
	if len(in.Content) == 0 {
		return "", ErrInvalidImage
	}
	if int64(len(in.Content)) > s.maxSizeBytes {
		return "", ErrTooLarge
	}
	if !isAllowedImageMIME(http.DetectContentType(in.Content)) {
		return "", ErrInvalidImage
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return "", ErrInvalidImage
	}
	if !isSupportedFormat(format) {
		return "", ErrInvalidImage
	}

	master := resizeToFit(decoded, MasterMaxSize, MasterMaxSize)
	masterBytes, err := encodeWebP(master)
	if err != nil {
		return "", fmt.Errorf("encode master: %w", err)
	}
	thumbBytes, err := encodeWebP(resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize))
	if err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}

	ref := uuid.NewString()
	masterPath := s.path(ref, "master.webp")
	thumbPath := s.path(ref, "thumb.webp")

	if err := writeBytesToFile(masterPath, masterBytes); err != nil {
		return "", err
	}
	if err := writeBytesToFile(thumbPath, thumbBytes); err != nil {
		_ = os.Remove(masterPath)
		return "", err
	}

	return ref, nil
}

func (s *DiskStore) Delete(_ context.Context, ref string) error {
	if !isValidRef(ref) {
		return ErrInvalidImage
	}
	return os.RemoveAll(filepath.Join(s.dir, ref[:2], ref))
}

// URL returns the public path for the master rendition of ref.
func (s *DiskStore) URL(ref string) string {
	return fmt.Sprintf("/media/%s/master.webp", ref)
}

// Resolve maps a reference and variant name to a file on disk, guarding
// against path traversal via crafted references.
func (s *DiskStore) Resolve(ref, variant string) (string, error) {
	if !isValidRef(ref) {
		return "", ErrInvalidImage
	}
	name := "master.webp"
	if variant == "thumb" {
		name = "thumb.webp"
	}
	full := s.path(ref, name)
	if _, err := os.Stat(full); err != nil {
		return "", err
	}
	return full, nil
}

func (s *DiskStore) path(ref, name string) string {
	return filepath.Join(s.dir, ref[:2], ref, name)
}

// isValidRef accepts only UUID-shaped references.
func isValidRef(ref string) bool {
	if len(ref) != 36 {
		return false
	}
	_, err := uuid.Parse(ref)
	return err == nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
