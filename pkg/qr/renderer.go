package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

const defaultImageSize = 256

// Renderer writes QR code PNGs to disk.
type Renderer struct {
	size int
}

// NewRenderer builds a renderer with the given image size in pixels.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = defaultImageSize
	}
	return &Renderer{size: size}
}

// Render encodes content into a QR PNG at path, creating parent directories
// as needed.
func (r *Renderer) Render(content, path string) error {
	if content == "" {
		return fmt.Errorf("qr content is required")
	}
	if path == "" {
		return fmt.Errorf("qr output path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating qr directory: %w", err)
	}
	if err := qrcode.WriteFile(content, qrcode.Medium, r.size, path); err != nil {
		return fmt.Errorf("writing qr image: %w", err)
	}
	return nil
}
