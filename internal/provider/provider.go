package provider

import (
	"context"
	"fmt"
)

// ProviderName uniquely identifies an artwork provider.
type ProviderName string

// Known provider names.
const (
	NameFanartTV ProviderName = "fanarttv"
)

// DisplayName returns a human-readable name for the provider.
func (n ProviderName) DisplayName() string {
	switch n {
	case NameFanartTV:
		return "Fanart.tv"
	default:
		return string(n)
	}
}

// ImageType classifies the kind of artist image.
type ImageType string

// Known image types.
const (
	ImageThumb  ImageType = "thumb"
	ImageFanart ImageType = "fanart"
	ImageLogo   ImageType = "logo"
	ImageHDLogo ImageType = "hdlogo"
	ImageBanner ImageType = "banner"
)

// ImageResult represents a single image available from a provider.
type ImageResult struct {
	ID       string    `json:"id,omitempty"`
	URL      string    `json:"url"`
	Type     ImageType `json:"type"`
	Likes    int       `json:"likes,omitempty"`
	Language string    `json:"language,omitempty"`
	Source   string    `json:"source"`
}

// ArtistImages is the artwork a provider holds for one artist, in the order
// the provider returned it.
type ArtistImages struct {
	MusicBrainzID string        `json:"musicbrainz_id"`
	Name          string        `json:"name"`
	Images        []ImageResult `json:"images"`
}

// ImageProvider looks up artwork by MusicBrainz ID and downloads it.
type ImageProvider interface {
	Name() ProviderName

	// GetArtistImages returns all images for the artist. A provider with no
	// entry for the ID returns *ErrNotFound.
	GetArtistImages(ctx context.Context, mbid string) (*ArtistImages, error)

	// Download fetches the raw bytes behind an image URL.
	Download(ctx context.Context, url string) ([]byte, error)
}

// ErrProviderUnavailable indicates a transient failure (rate-limited, timeout, server error).
type ErrProviderUnavailable struct {
	Provider ProviderName
	Cause    error
}

func (e *ErrProviderUnavailable) Error() string {
	return fmt.Sprintf("provider %s unavailable: %v", e.Provider, e.Cause)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the provider has no data for the requested ID.
type ErrNotFound struct {
	Provider ProviderName
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("provider %s: artist %s not found", e.Provider, e.ID)
}

// ErrAuthRequired indicates the provider needs an API key but none is configured.
type ErrAuthRequired struct {
	Provider ProviderName
}

func (e *ErrAuthRequired) Error() string {
	return fmt.Sprintf("provider %s: API key not configured", e.Provider)
}
