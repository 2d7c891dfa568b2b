// Package media stores uploaded product images on disk and derives
// thumbnails for catalog rendering.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	_ "image/gif"
	_ "image/png"
)

const thumbSize = 300

// Store writes originals and thumbnails under a base directory. Paths
// returned to callers are relative to that directory so they can be mapped
// onto the /media/ URL prefix.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

func (s *Store) Dir() string { return s.baseDir }

// Save persists the uploaded image and, when the payload decodes as an
// image, a 300x300 JPEG thumbnail next to it. Payloads that do not decode
// are stored as-is without a thumbnail; the devserver is not in the business
// of rejecting odd test fixtures.
func (s *Store) Save(r io.Reader, originalName string) (imagePath, thumbPath string, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("reading upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	id := uuid.NewString()
	imagePath = id + ext

	if err := os.WriteFile(filepath.Join(s.baseDir, imagePath), data, 0o644); err != nil {
		return "", "", fmt.Errorf("writing image: %w", err)
	}

	img, _, decodeErr := image.Decode(bytes.NewReader(data))
	if decodeErr != nil {
		return imagePath, "", nil
	}

	thumbnail := resize.Thumbnail(thumbSize, thumbSize, img, resize.Lanczos3)
	thumbPath = id + "_thumb.jpg"

	out, err := os.Create(filepath.Join(s.baseDir, thumbPath))
	if err != nil {
		return "", "", fmt.Errorf("creating thumbnail: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, thumbnail, &jpeg.Options{Quality: 85}); err != nil {
		return "", "", fmt.Errorf("encoding thumbnail: %w", err)
	}
	return imagePath, thumbPath, nil
}
