package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// WriteFileAtomic writes data to a temp file next to target, syncs it, and
// renames it over target, so readers see either the old or the new content.
// Missing parent directories are created.
func WriteFileAtomic(target string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: 0755 is appropriate for output directories
		return fmt.Errorf("creating parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck,gosec
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp to target: %w", err)
	}
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeName strips characters that are not allowed in directory names on
// common filesystems. The result may be empty.
func SanitizeName(name string) string {
	cleaned := strings.TrimSpace(unsafeNameChars.ReplaceAllString(name, ""))
	// "." and ".." would escape or alias the parent directory
	if strings.Trim(cleaned, ".") == "" {
		return ""
	}
	return cleaned
}
