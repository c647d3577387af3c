package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"

	"github.com/sydlexius/plexlogos/internal/artist"
	"github.com/sydlexius/plexlogos/internal/provider"
)

// LogoType is the only image kind that qualifies as an artist logo.
const LogoType = provider.ImageHDLogo

// UnknownCatalogName stands in for a catalog entry without a name when the
// name check is enabled.
const UnknownCatalogName = "Unknown"

// indel counts a substitution as one deletion plus one insertion.
var indel = &metrics.Levenshtein{InsertCost: 1, DeleteCost: 1, ReplaceCost: 2}

// Resolver maps an artist to at most one logo candidate.
type Resolver struct {
	catalog        provider.ImageProvider
	fuzzyThreshold int
	logger         *slog.Logger
}

// NewResolver creates a Resolver. A fuzzyThreshold above zero enables the
// catalog-name check.
func NewResolver(catalog provider.ImageProvider, fuzzyThreshold int, logger *slog.Logger) *Resolver {
	return &Resolver{
		catalog:        catalog,
		fuzzyThreshold: fuzzyThreshold,
		logger:         logger.With(slog.String("component", "resolver")),
	}
}

// Resolve looks the artist up by MBID and selects its logo. A nil candidate
// with a nil error means nothing qualifies and reason says why; an error means
// the lookup itself failed.
func (r *Resolver) Resolve(ctx context.Context, a *artist.Artist) (candidate *provider.ImageResult, reason string, err error) {
	images, err := r.catalog.GetArtistImages(ctx, a.MusicBrainzID)
	if err != nil {
		var nf *provider.ErrNotFound
		if errors.As(err, &nf) {
			return nil, fmt.Sprintf("not found in catalog (%s)", r.catalog.Name().DisplayName()), nil
		}
		return nil, "", fmt.Errorf("looking up %s: %w", a.MusicBrainzID, err)
	}

	if r.fuzzyThreshold > 0 {
		catalogName := images.Name
		if catalogName == "" {
			catalogName = UnknownCatalogName
		}
		score := NameScore(a.Name, catalogName)
		if score < r.fuzzyThreshold {
			return nil, fmt.Sprintf("name mismatch (score %d, catalog name %q)", score, catalogName), nil
		}
		r.logger.Debug("name check passed", slog.String("artist", a.Name), slog.Int("score", score))
	}

	best := SelectBest(images.Images)
	if best == nil {
		return nil, fmt.Sprintf("no %s images among %d catalog images", LogoType, len(images.Images)), nil
	}

	r.logger.Debug("selected logo",
		slog.String("artist", a.Name),
		slog.String("url", best.URL),
		slog.Int("likes", best.Likes))
	return best, "", nil
}

// SelectBest returns the LogoType candidate with the most likes, or nil when
// there is none. Equal likes keep the earliest candidate in response order.
func SelectBest(candidates []provider.ImageResult) *provider.ImageResult {
	var best *provider.ImageResult
	for i := range candidates {
		c := &candidates[i]
		if c.Type != LogoType {
			continue
		}
		if best == nil || c.Likes > best.Likes {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	selected := *best
	return &selected
}

// NameScore compares two artist names on a 0-100 scale after lowercasing,
// dropping punctuation, and sorting the words, so "Beatles, The" and
// "The Beatles" score 100. The indel distance is normalized by the combined
// length of both names.
func NameScore(a, b string) int {
	ta, tb := tokenSort(a), tokenSort(b)
	total := utf8.RuneCountInString(ta) + utf8.RuneCountInString(tb)
	if total == 0 {
		return 100
	}
	d := indel.Distance(ta, tb)
	return int(math.Round((1 - float64(d)/float64(total)) * 100))
}

func tokenSort(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	sort.Strings(words)
	return strings.Join(words, " ")
}
