package storage

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DeleteSentinel in an image field marks the stored image for removal
// instead of replacement.
const DeleteSentinel = "-"

// ImageStore keeps uploaded images on local disk under uuid keys and hands
// out public URLs for them.
type ImageStore struct {
	dir     string
	baseURL string
}

func NewImageStore(dir, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes the uploaded file and returns its key and public URL.
func (s *ImageStore) Save(file multipart.File, header *multipart.FileHeader) (key, url string, err error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", "", errors.New("unsupported image type")
	}

	key = uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filepath.Join(s.dir, key))
		return "", "", err
	}
	return key, s.URL(key), nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *ImageStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *ImageStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}

// Dir exposes the storage root so the router can serve it.
func (s *ImageStore) Dir() string {
	return s.dir
}
