package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

var ErrNotAnImage = errors.New("Only images are allowed")

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Store writes posters under dir with timestamp filenames, the same layout the
// client expects under /api/public.
type Store struct {
	Dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create upload dir: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// SavePoster rejects non-image mimetypes and saves the file as
// <unix-millis><ext>. Collisions are avoided by timestamp granularity only.
func (s *Store) SavePoster(file *multipart.FileHeader) (string, error) {
	if !allowedTypes[file.Header.Get("Content-Type")] {
		return "", ErrNotAnImage
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open uploaded file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(file.Filename))
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("cannot write file: %w", err)
	}

	return path, nil
}
