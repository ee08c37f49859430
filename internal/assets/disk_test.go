package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	buf := bytes.NewBuffer(nil)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestDiskStoreUploadAndResolve(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 10)

	ref, err := store.Upload(context.Background(), UploadInput{
		Filename:    "pic.png",
		ContentType: "image/png",
		Content:     pngBytes(t, 64, 48),
	})
	require.NoError(t, err)
	require.True(t, isValidRef(ref))

	masterPath, err := store.Resolve(ref, "master")
	require.NoError(t, err)
	assert.FileExists(t, masterPath)

	thumbPath, err := store.Resolve(ref, "thumb")
	require.NoError(t, err)
	assert.FileExists(t, thumbPath)

	assert.Equal(t, "/media/"+ref+"/master.webp", store.URL(ref))
}

func TestDiskStoreUploadDownscalesLargeImages(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 10)

	ref, err := store.Upload(context.Background(), UploadInput{
		Filename:    "big.png",
		ContentType: "image/png",
		Content:     pngBytes(t, MasterMaxSize+500, 300),
	})
	require.NoError(t, err)

	path, err := store.Resolve(ref, "master")
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestDiskStoreUploadRejectsGarbage(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 10)

	_, err := store.Upload(context.Background(), UploadInput{
		Filename: "notes.txt",
		Content:  []byte("definitely not an image"),
	})
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = store.Upload(context.Background(), UploadInput{Filename: "empty.png"})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDiskStoreUploadRejectsOversized(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 0)
	store.maxSizeBytes = 16

	_, err := store.Upload(context.Background(), UploadInput{
		Filename: "pic.png",
		Content:  pngBytes(t, 32, 32),
	})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestDiskStoreDelete(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 10)

	ref, err := store.Upload(context.Background(), UploadInput{
		Filename: "pic.png",
		Content:  pngBytes(t, 20, 20),
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), ref))

	_, err = store.Resolve(ref, "master")
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreDeleteRejectsTraversal(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 10)
	err := store.Delete(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidImage)
}
