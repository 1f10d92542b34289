// Package uploader implements the photo storage collaborator on local disk.
package uploader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kahit-saan/menu-service/internal/app/domain/menu"
)

// Local writes photo files under a directory and returns URLs beneath a base
// path, which the HTTP server serves as static files.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal creates the store, ensuring the target directory exists.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the file under a fresh key derived from the original
// extension and returns the photo reference.
func (l *Local) Upload(ctx context.Context, filename, contentType string, r io.Reader) (menu.Photo, error) {
	if err := ctx.Err(); err != nil {
		return menu.Photo{}, err
	}

	key := uuid.NewString() + sanitizeExt(filename)
	target := filepath.Join(l.dir, key)

	f, err := os.Create(target)
	if err != nil {
		return menu.Photo{}, fmt.Errorf("create photo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(target)
		return menu.Photo{}, fmt.Errorf("write photo file: %w", err)
	}

	return menu.Photo{
		URL:        l.baseURL + "/" + key,
		StorageKey: key,
	}, nil
}

// Remove deletes a stored photo by key. Unknown keys are ignored.
func (l *Local) Remove(key string) error {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
