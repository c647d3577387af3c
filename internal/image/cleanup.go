package image

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// RemoveStaleCopies deletes files next to path that share its base name but
// carry a different image extension, so a local copy saved as artist.png
// replaces an earlier artist.jpg. It returns the removed paths.
func RemoveStaleCopies(path string) ([]string, error) {
	dir := filepath.Dir(path)
	ext := strings.ToLower(filepath.Ext(path))
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var removed []string
	for _, alt := range imageExtensions {
		if alt == ext {
			continue
		}
		altPath := filepath.Join(dir, base+alt)
		err := os.Remove(altPath)
		switch {
		case err == nil:
			removed = append(removed, altPath)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, err
		}
	}
	return removed, nil
}
