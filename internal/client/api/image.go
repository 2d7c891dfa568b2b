package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// dataURLFilename is the fixed name binary payloads decoded from data URLs
// are submitted under, matching what the backend expects.
const dataURLFilename = "product-image.jpg"

type dataURLImage struct {
	url string
}

// ImageFromDataURL wraps an inline-encoded image ("data:image/...;base64,...").
// The payload is decoded to binary before transmission; it is never sent as a
// string field.
func ImageFromDataURL(url string) ImageSource {
	return &dataURLImage{url: url}
}

func (d *dataURLImage) Open() (io.ReadCloser, string, error) {
	payload, err := DecodeDataURL(d.url)
	if err != nil {
		return nil, "", err
	}
	return io.NopCloser(bytes.NewReader(payload)), dataURLFilename, nil
}

type fileImage struct {
	path string
}

// ImageFromFile wraps an image stored on disk.
func ImageFromFile(path string) ImageSource {
	return &fileImage{path: path}
}

func (f *fileImage) Open() (io.ReadCloser, string, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, "", err
	}
	return file, filepath.Base(f.path), nil
}

// IsDataURL reports whether s looks like an inline-encoded image.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:image")
}

// DecodeDataURL extracts the binary payload from a base64 data URL.
func DecodeDataURL(url string) ([]byte, error) {
	if !IsDataURL(url) {
		return nil, fmt.Errorf("not an image data url")
	}
	idx := strings.Index(url, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data url: no payload separator")
	}
	meta, payload := url[:idx], url[idx+1:]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data url encoding: %s", meta)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data url payload: %w", err)
	}
	return data, nil
}
