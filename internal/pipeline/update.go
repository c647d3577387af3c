package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sydlexius/plexlogos/internal/artist"
	"github.com/sydlexius/plexlogos/internal/filesystem"
	"github.com/sydlexius/plexlogos/internal/image"
)

// PosterUploader replaces an artist's picture on the media server.
type PosterUploader interface {
	UploadPoster(ctx context.Context, ratingKey string, data []byte, contentType string) error
}

// Updater uploads squared logos. It never compares against the current
// picture, so every call is one upload.
type Updater struct {
	uploader PosterUploader
	imageDir string
	logger   *slog.Logger
}

// NewUpdater creates an Updater. When imageDir is non-empty each image is
// also written to imageDir/<artist>/artist.<ext>.
func NewUpdater(uploader PosterUploader, imageDir string, logger *slog.Logger) *Updater {
	return &Updater{
		uploader: uploader,
		imageDir: imageDir,
		logger:   logger.With(slog.String("component", "updater")),
	}
}

// Update uploads sq as the picture of a. A failed local copy is logged and
// does not fail the update.
func (u *Updater) Update(ctx context.Context, a *artist.Artist, sq *image.Squared) error {
	u.saveLocal(a, sq)

	if err := u.uploader.UploadPoster(ctx, a.ID, sq.Data, sq.ContentType()); err != nil {
		return fmt.Errorf("uploading poster: %w", err)
	}
	return nil
}

func (u *Updater) saveLocal(a *artist.Artist, sq *image.Squared) {
	if u.imageDir == "" {
		return
	}
	dirName := filesystem.SanitizeName(a.Name)
	if dirName == "" {
		dirName = filesystem.SanitizeName(a.ID)
	}
	if dirName == "" {
		u.logger.Warn("no usable directory name for local copy", slog.String("artist_id", a.ID))
		return
	}

	path := filepath.Join(u.imageDir, dirName, "artist"+image.Extension(sq.Format))
	if err := filesystem.WriteFileAtomic(path, sq.Data, 0o644); err != nil {
		u.logger.Warn("saving local copy",
			slog.String("artist", a.Name),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	u.logger.Debug("saved local copy", slog.String("path", path))

	removed, err := image.RemoveStaleCopies(path)
	for _, old := range removed {
		u.logger.Info("removed stale local copy", slog.String("deleted", old), slog.String("replaced_by", path))
	}
	if err != nil {
		u.logger.Warn("removing stale local copies", slog.String("path", path), slog.String("error", err.Error()))
	}
}
