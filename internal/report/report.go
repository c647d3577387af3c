package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/plexlogos/internal/filesystem"
)

// Status is the terminal state of one artist in a run.
type Status string

// Terminal statuses. Every processed artist ends in exactly one.
const (
	StatusUpdated       Status = "updated"
	StatusSkippedNoID   Status = "skipped_no_id"
	StatusSkippedNoLogo Status = "skipped_no_logo"
	StatusFailed        Status = "failed"
)

// AllStatuses returns the terminal statuses in summary order.
func AllStatuses() []Status {
	return []Status{StatusUpdated, StatusSkippedNoID, StatusSkippedNoLogo, StatusFailed}
}

// IsSkipped reports whether s is one of the skip statuses.
func (s Status) IsSkipped() bool {
	return s == StatusSkippedNoID || s == StatusSkippedNoLogo
}

// Outcome records what happened to one artist.
type Outcome struct {
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name"`
	Status     Status `json:"status"`
	Detail     string `json:"detail,omitempty"`
}

// Summary is the end-of-run view of all outcomes.
type Summary struct {
	RunID      string         `json:"run_id"`
	Library    string         `json:"library"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Total      int            `json:"total_scanned"`
	Counts     map[Status]int `json:"counts"`
	Failures   []Outcome      `json:"failures,omitempty"`
	Skipped    []Outcome      `json:"skipped,omitempty"`
}

// Count returns the number of outcomes with status s.
func (s *Summary) Count(status Status) int { return s.Counts[status] }

// Reporter accumulates outcomes for a single run. It is not safe for
// concurrent use; the pipeline is sequential.
type Reporter struct {
	runID     string
	library   string
	startedAt time.Time
	now       func() time.Time
	outcomes  []Outcome
	logger    *slog.Logger
}

// New creates a Reporter for one run against the named library.
func New(library string, logger *slog.Logger) *Reporter {
	return newWithClock(library, logger, time.Now)
}

func newWithClock(library string, logger *slog.Logger, now func() time.Time) *Reporter {
	return &Reporter{
		runID:     uuid.NewString(),
		library:   library,
		startedAt: now(),
		now:       now,
		logger:    logger.With(slog.String("component", "report")),
	}
}

// RunID returns the identifier of this run.
func (r *Reporter) RunID() string { return r.runID }

// Record appends an outcome and logs it at a level matching its status.
func (r *Reporter) Record(o Outcome) {
	r.outcomes = append(r.outcomes, o)

	attrs := []any{slog.String("artist", o.ArtistName), slog.String("status", string(o.Status))}
	if o.Detail != "" {
		attrs = append(attrs, slog.String("reason", o.Detail))
	}
	switch o.Status {
	case StatusFailed:
		r.logger.Error("artist failed", attrs...)
	case StatusSkippedNoLogo:
		r.logger.Warn("artist skipped", attrs...)
	case StatusSkippedNoID:
		r.logger.Info("artist skipped", attrs...)
	default:
		r.logger.Info("artist updated", attrs...)
	}
}

// Outcomes returns a copy of the recorded outcomes in record order.
func (r *Reporter) Outcomes() []Outcome {
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Summary computes counts per status and collects failure and skip details.
func (r *Reporter) Summary() *Summary {
	s := &Summary{
		RunID:      r.runID,
		Library:    r.library,
		StartedAt:  r.startedAt,
		FinishedAt: r.now(),
		Total:      len(r.outcomes),
		Counts:     make(map[Status]int, len(AllStatuses())),
	}
	for _, st := range AllStatuses() {
		s.Counts[st] = 0
	}
	for _, o := range r.outcomes {
		s.Counts[o.Status]++
		switch {
		case o.Status == StatusFailed:
			s.Failures = append(s.Failures, o)
		case o.Status.IsSkipped():
			s.Skipped = append(s.Skipped, o)
		}
	}
	return s
}

// Log writes the end-of-run summary block.
func (r *Reporter) Log() *Summary {
	s := r.Summary()
	r.logger.Info("run complete\n"+s.Text(),
		slog.String("run_id", s.RunID),
		slog.Int("scanned", s.Total),
		slog.Int("updated", s.Count(StatusUpdated)),
		slog.Int("skipped_no_id", s.Count(StatusSkippedNoID)),
		slog.Int("skipped_no_logo", s.Count(StatusSkippedNoLogo)),
		slog.Int("failed", s.Count(StatusFailed)),
		slog.Duration("elapsed", s.FinishedAt.Sub(s.StartedAt)),
	)
	return s
}

// Text renders the human-readable summary block.
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Scanned: %d\n", s.Total)
	fmt.Fprintf(&b, "- Updated: %d\n", s.Count(StatusUpdated))
	fmt.Fprintf(&b, "- Skipped (no MusicBrainz ID): %d\n", s.Count(StatusSkippedNoID))
	fmt.Fprintf(&b, "- Skipped (no logo): %d\n", s.Count(StatusSkippedNoLogo))
	fmt.Fprintf(&b, "- Failed: %d\n", s.Count(StatusFailed))
	for _, f := range s.Failures {
		fmt.Fprintf(&b, "  ! %s: %s\n", f.ArtistName, f.Detail)
	}
	return b.String()
}

// WriteFiles writes stats_<ts>.json and missing_report_<ts>.txt to dir.
// Errors are logged and swallowed: reporting never aborts a run. It returns
// the paths that were written.
func (r *Reporter) WriteFiles(dir string) []string {
	if dir == "" {
		return nil
	}
	s := r.Summary()
	stamp := s.StartedAt.Format("20060102_150405")

	var written []string

	stats, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		r.logger.Warn("encoding run stats", slog.String("error", err.Error()))
	} else {
		path := filepath.Join(dir, "stats_"+stamp+".json")
		if err := filesystem.WriteFileAtomic(path, stats, 0o644); err != nil {
			r.logger.Warn("writing run stats", slog.String("path", path), slog.String("error", err.Error()))
		} else {
			written = append(written, path)
		}
	}

	path := filepath.Join(dir, "missing_report_"+stamp+".txt")
	if err := filesystem.WriteFileAtomic(path, []byte(missingReport(stamp, r.outcomes)), 0o644); err != nil {
		r.logger.Warn("writing missing report", slog.String("path", path), slog.String("error", err.Error()))
	} else {
		written = append(written, path)
	}

	return written
}

// missingReport lists every artist that did not get a logo, in record order.
func missingReport(stamp string, outcomes []Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Artists missing logos as of %s\n", stamp)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.Status == StatusFailed:
			lines = append(lines, fmt.Sprintf("%s | failed: %s", o.ArtistName, o.Detail))
		case o.Status.IsSkipped():
			lines = append(lines, fmt.Sprintf("%s | %s", o.ArtistName, o.Detail))
		}
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
