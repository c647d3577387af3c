// Package pipeline runs one logo sync over a music library: enumerate the
// artists, resolve each to a catalog logo, square it, and upload it.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sydlexius/plexlogos/internal/artist"
	"github.com/sydlexius/plexlogos/internal/config"
	"github.com/sydlexius/plexlogos/internal/image"
	"github.com/sydlexius/plexlogos/internal/provider"
	"github.com/sydlexius/plexlogos/internal/report"
)

// DetailNoMBID is the outcome detail for artists that cannot be looked up.
const DetailNoMBID = "no MusicBrainz ID"

// Options holds the per-run settings taken from the loaded configuration.
type Options struct {
	LibraryName    string
	SectionKey     string
	Image          image.SquareOptions
	FuzzyThreshold int
	ImageDir       string
	ReportDir      string
}

// OptionsFromConfig builds run options for the given library section.
func OptionsFromConfig(cfg *config.Config, sectionKey string) Options {
	return Options{
		LibraryName: cfg.Plex.LibraryName,
		SectionKey:  sectionKey,
		Image: image.SquareOptions{
			Format:  cfg.Image.Format,
			Quality: cfg.Image.Quality,
			MaxSize: cfg.Image.MaxSize,
		},
		FuzzyThreshold: cfg.Fanart.FuzzyThreshold,
		ImageDir:       cfg.Output.ImageDir,
		ReportDir:      cfg.Output.ReportDir,
	}
}

// Runner executes sync runs. It holds no state between runs.
type Runner struct {
	library  Library
	catalog  provider.ImageProvider
	resolver *Resolver
	updater  *Updater
	opts     Options
	logger   *slog.Logger
}

// NewRunner wires the pipeline stages together.
func NewRunner(library Library, catalog provider.ImageProvider, uploader PosterUploader, opts Options, logger *slog.Logger) *Runner {
	return &Runner{
		library:  library,
		catalog:  catalog,
		resolver: NewResolver(catalog, opts.FuzzyThreshold, logger),
		updater:  NewUpdater(uploader, opts.ImageDir, logger),
		opts:     opts,
		logger:   logger.With(slog.String("component", "pipeline")),
	}
}

// Run processes every artist in the section once, in library order. Only a
// failure to enumerate the library or a cancelled context returns an error;
// per-artist problems are recorded in the returned summary.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	rep := report.New(r.opts.LibraryName, r.logger)
	start := time.Now()

	r.logger.Info("starting logo sync",
		slog.String("run_id", rep.RunID()),
		slog.String("library", r.opts.LibraryName),
		slog.String("section", r.opts.SectionKey))

	enum, err := Enumerate(ctx, r.library, r.opts.SectionKey)
	if err != nil {
		return nil, err
	}
	r.logger.Info("enumerated artists",
		slog.Int("total", enum.Total()),
		slog.Int("with_mbid", len(enum.Admitted)),
		slog.Int("without_mbid", len(enum.Skipped)))

	processed := 0
	for i := range enum.Artists {
		a := &enum.Artists[i]
		if !a.HasMusicBrainzID() {
			rep.Record(report.Outcome{
				ArtistID:   a.ID,
				ArtistName: a.Name,
				Status:     report.StatusSkippedNoID,
				Detail:     DetailNoMBID,
			})
			continue
		}
		if err := ctx.Err(); err != nil {
			rep.Log()
			return nil, fmt.Errorf("run interrupted after %d of %d artists: %w", processed, len(enum.Admitted), err)
		}
		processed++
		r.logger.Debug("processing artist",
			slog.Int("index", processed),
			slog.Int("of", len(enum.Admitted)),
			slog.String("artist", a.Name),
			slog.String("mbid", a.MusicBrainzID))
		rep.Record(r.processArtist(ctx, a))
	}

	summary := rep.Log()
	for _, path := range rep.WriteFiles(r.opts.ReportDir) {
		r.logger.Info("wrote report", slog.String("path", path))
	}
	r.logger.Debug("run finished", slog.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// processArtist takes one artist to a terminal outcome. It never returns an
// error; every failure becomes a failed outcome.
func (r *Runner) processArtist(ctx context.Context, a *artist.Artist) (out report.Outcome) {
	out = report.Outcome{ArtistID: a.ID, ArtistName: a.Name}

	defer func() {
		if rec := recover(); rec != nil {
			out.Status = report.StatusFailed
			out.Detail = fmt.Sprintf("panic: %v", rec)
		}
	}()

	candidate, reason, err := r.resolver.Resolve(ctx, a)
	if err != nil {
		return failed(out, err)
	}
	if candidate == nil {
		out.Status = report.StatusSkippedNoLogo
		out.Detail = reason
		return out
	}

	data, err := r.catalog.Download(ctx, candidate.URL)
	if err != nil {
		return failed(out, fmt.Errorf("downloading logo: %w", err))
	}

	sq, err := image.Square(bytes.NewReader(data), r.opts.Image)
	if err != nil {
		return failed(out, fmt.Errorf("normalizing logo: %w", err))
	}
	r.logger.Debug("squared logo",
		slog.String("artist", a.Name),
		slog.Int("source_width", sq.SourceWidth),
		slog.Int("source_height", sq.SourceHeight),
		slog.Int("side", sq.Side))

	if err := r.updater.Update(ctx, a, sq); err != nil {
		return failed(out, err)
	}

	out.Status = report.StatusUpdated
	return out
}

func failed(out report.Outcome, err error) report.Outcome {
	out.Status = report.StatusFailed
	out.Detail = err.Error()
	return out
}
