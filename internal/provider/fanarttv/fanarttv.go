package fanarttv

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sydlexius/plexlogos/internal/provider"
)

// DefaultBaseURL is the Fanart.tv v3 music endpoint.
const DefaultBaseURL = "https://webservice.fanart.tv/v3/music"

// maxDownloadBytes caps a single image download.
const maxDownloadBytes = 20 << 20

// Adapter implements provider.ImageProvider for Fanart.tv.
type Adapter struct {
	client   *http.Client
	download *http.Client
	limiter  *provider.RateLimiterMap
	apiKey   string
	logger   *slog.Logger
	baseURL  string
}

// New creates a Fanart.tv adapter with the default base URL.
func New(apiKey string, limiter *provider.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithBaseURL(apiKey, limiter, logger, DefaultBaseURL)
}

// NewWithBaseURL creates a Fanart.tv adapter with a custom base URL (for testing).
func NewWithBaseURL(apiKey string, limiter *provider.RateLimiterMap, logger *slog.Logger, baseURL string) *Adapter {
	return &Adapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		download: &http.Client{Timeout: 30 * time.Second},
		limiter:  limiter,
		apiKey:   apiKey,
		logger:   logger.With(slog.String("provider", "fanarttv")),
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider name.
func (a *Adapter) Name() provider.ProviderName { return provider.NameFanartTV }

// GetArtistImages fetches all images for an artist by MusicBrainz ID.
func (a *Adapter) GetArtistImages(ctx context.Context, mbid string) (*provider.ArtistImages, error) {
	if a.apiKey == "" {
		return nil, &provider.ErrAuthRequired{Provider: provider.NameFanartTV}
	}

	if err := a.limiter.Wait(ctx, provider.NameFanartTV); err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameFanartTV,
			Cause:    fmt.Errorf("rate limiter: %w", err),
		}
	}

	reqURL := fmt.Sprintf("%s/%s?api_key=%s", a.baseURL, url.PathEscape(mbid), url.QueryEscape(a.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	a.logger.Debug("requesting images", slog.String("mbid", mbid))

	resp, err := a.client.Do(req) //nolint:gosec // URL constructed from trusted base + MBID
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameFanartTV,
			Cause:    err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, &provider.ErrNotFound{Provider: provider.NameFanartTV, ID: mbid}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameFanartTV,
			Cause:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameFanartTV,
			Cause:    fmt.Errorf("reading response: %w", err),
		}
	}

	var fanart Response
	if err := json.Unmarshal(body, &fanart); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &provider.ArtistImages{
		MusicBrainzID: mbid,
		Name:          fanart.Name,
		Images:        mapImages(&fanart),
	}, nil
}

// Download fetches the image bytes behind a Fanart.tv asset URL.
func (a *Adapter) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := a.download.Do(req) //nolint:gosec // URL comes from trusted provider API
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching image: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if len(data) > maxDownloadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxDownloadBytes)
	}

	a.logger.Debug("downloaded image", slog.String("url", rawURL), slog.Int("bytes", len(data)))
	return data, nil
}

func mapImages(resp *Response) []provider.ImageResult {
	var results []provider.ImageResult
	add := func(images []FanartImage, t provider.ImageType) {
		for _, img := range images {
			results = append(results, provider.ImageResult{
				ID:       img.ID,
				URL:      img.URL,
				Type:     t,
				Likes:    parseLikes(img.Likes),
				Language: img.Lang,
				Source:   string(provider.NameFanartTV),
			})
		}
	}

	add(resp.ArtistThumb, provider.ImageThumb)
	add(resp.ArtistBackground, provider.ImageFanart)
	add(resp.HDMusicLogo, provider.ImageHDLogo)
	add(resp.MusicLogo, provider.ImageLogo)
	add(resp.MusicBanner, provider.ImageBanner)

	return results
}

func parseLikes(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
