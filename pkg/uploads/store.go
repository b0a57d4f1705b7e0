package uploads

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	imagesSubdir  = "images"
	videosSubdir  = "videos"
	qrCodesSubdir = "qrcodes"
)

// File is a received upload decoupled from the transport layer.
type File struct {
	Name   string
	Reader io.Reader
}

// Store persists uploaded media on local disk under a single base directory
// and hands back the web paths that get persisted on the product row.
type Store struct {
	baseDir string
}

// NewStore builds a store rooted at baseDir (created lazily on first write).
func NewStore(baseDir string) *Store {
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &Store{baseDir: baseDir}
}

// SaveImage writes an uploaded image and returns its web path.
func (s *Store) SaveImage(f File) (string, error) {
	return s.save(imagesSubdir, f)
}

// SaveVideo writes an uploaded video and returns its web path.
func (s *Store) SaveVideo(f File) (string, error) {
	return s.save(videosSubdir, f)
}

// QRImagePath returns the on-disk and web paths for a product's QR image.
// The filename is deterministic so regeneration overwrites in place.
func (s *Store) QRImagePath(productID int64) (string, string) {
	name := fmt.Sprintf("product-%d.png", productID)
	fsPath := filepath.Join(s.baseDir, qrCodesSubdir, name)
	urlPath := "/" + path.Join(filepath.Base(s.baseDir), qrCodesSubdir, name)
	return fsPath, urlPath
}

// Remove deletes the stored file behind a previously returned web path.
// Missing files are not an error.
func (s *Store) Remove(urlPath string) error {
	rel := strings.TrimPrefix(urlPath, "/")
	rel = strings.TrimPrefix(rel, filepath.Base(s.baseDir)+"/")
	target := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload: %w", err)
	}
	return nil
}

func (s *Store) save(subdir string, f File) (string, error) {
	if f.Reader == nil {
		return "", fmt.Errorf("upload reader is required")
	}

	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload directory: %w", err)
	}

	name := uuid.NewString() + "_" + sanitizeFilename(f.Name)
	target := filepath.Join(dir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, f.Reader); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("writing upload: %w", err)
	}

	return "/" + path.Join(filepath.Base(s.baseDir), subdir, name), nil
}

// sanitizeFilename strips path separators and whitespace so uploaded names
// cannot escape the upload directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, name)
}
