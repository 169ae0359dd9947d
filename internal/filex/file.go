// Package filex writes exported images to disk.
package filex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yijia-Z/dalle2-app/internal/models"
)

// EnsureDir creates dir (and parents) if needed and returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}

	if err := os.MkdirAll(abs, 0o750); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}

	return abs, nil
}

// WriteImage stores img as dir/name plus the extension for its content
// type, replacing any existing file. It returns the written path.
func WriteImage(dir, name string, img models.Image) (string, error) {
	path := filepath.Join(dir, filepath.Base(name)+img.Extension())
	if err := os.WriteFile(path, img.Data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadImage loads an image file, sniffing its content type.
func ReadImage(path string) (models.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	return models.NewImage(data, ""), nil
}
