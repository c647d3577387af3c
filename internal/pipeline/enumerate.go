package pipeline

import (
	"context"
	"fmt"

	"github.com/sydlexius/plexlogos/internal/artist"
)

// Library lists the artists of a library section.
type Library interface {
	ListArtists(ctx context.Context, sectionKey string) ([]artist.Artist, error)
}

// Enumeration is the library snapshot for one run. Artists holds every
// artist in library order; Admitted and Skipped split it by whether the
// artist can be looked up, keeping the same order.
type Enumeration struct {
	Artists  []artist.Artist
	Admitted []artist.Artist
	Skipped  []artist.Artist
}

// Total returns the number of artists in the section.
func (e *Enumeration) Total() int { return len(e.Artists) }

// Enumerate reads the section once. Artists without a MusicBrainz ID are
// never admitted.
func Enumerate(ctx context.Context, lib Library, sectionKey string) (*Enumeration, error) {
	artists, err := lib.ListArtists(ctx, sectionKey)
	if err != nil {
		return nil, fmt.Errorf("enumerating artists: %w", err)
	}

	e := &Enumeration{Artists: artists}
	for _, a := range artists {
		if a.HasMusicBrainzID() {
			e.Admitted = append(e.Admitted, a)
		} else {
			e.Skipped = append(e.Skipped, a)
		}
	}
	return e, nil
}
