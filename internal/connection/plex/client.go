package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sydlexius/plexlogos/internal/artist"
)

// pageSize is the number of items requested per library page.
const pageSize = 200

// Client communicates with a Plex Media Server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	clientID   string
	logger     *slog.Logger
}

// ErrSectionNotFound is returned when no music section has the requested name.
type ErrSectionNotFound struct {
	Name      string
	Available []string
}

func (e *ErrSectionNotFound) Error() string {
	return fmt.Sprintf("music library %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// New creates a Plex client with default HTTP settings.
func New(baseURL, token string, logger *slog.Logger) *Client {
	return NewWithHTTPClient(baseURL, token, &http.Client{Timeout: 30 * time.Second}, logger)
}

// NewWithHTTPClient creates a Plex client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		clientID:   "plexlogos",
		logger:     logger.With(slog.String("integration", "plex")),
	}
}

// TestConnection verifies connectivity and the token by calling GET /identity.
func (c *Client) TestConnection(ctx context.Context) (*Identity, error) {
	var resp IdentityResponse
	if err := c.get(ctx, "/identity", &resp); err != nil {
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	c.logger.Debug("plex connection ok",
		"machine_id", resp.MediaContainer.MachineIdentifier,
		"version", resp.MediaContainer.Version)
	return &resp.MediaContainer, nil
}

// FindSection returns the music section whose title matches name,
// case-insensitively. An exact-case match wins over a folded one.
func (c *Client) FindSection(ctx context.Context, name string) (*Section, error) {
	var resp SectionsResponse
	if err := c.get(ctx, "/library/sections", &resp); err != nil {
		return nil, fmt.Errorf("listing library sections: %w", err)
	}

	var folded *Section
	var available []string
	for i := range resp.MediaContainer.Directory {
		s := &resp.MediaContainer.Directory[i]
		if s.Type != SectionTypeArtist {
			continue
		}
		available = append(available, s.Title)
		if s.Title == name {
			return s, nil
		}
		if folded == nil && strings.EqualFold(s.Title, name) {
			folded = s
		}
	}
	if folded != nil {
		return folded, nil
	}
	return nil, &ErrSectionNotFound{Name: name, Available: available}
}

// ListArtists returns every artist in the section, in server order, paging
// through the library until the server reports no more items.
func (c *Client) ListArtists(ctx context.Context, sectionKey string) ([]artist.Artist, error) {
	var artists []artist.Artist

	for start := 0; ; {
		q := url.Values{}
		q.Set("type", fmt.Sprint(MediaTypeArtist))
		q.Set("includeGuids", "1")
		q.Set("X-Plex-Container-Start", fmt.Sprint(start))
		q.Set("X-Plex-Container-Size", fmt.Sprint(pageSize))
		path := fmt.Sprintf("/library/sections/%s/all?%s", url.PathEscape(sectionKey), q.Encode())

		var resp MetadataResponse
		if err := c.get(ctx, path, &resp); err != nil {
			return nil, fmt.Errorf("listing artists: %w", err)
		}

		page := resp.MediaContainer.Metadata
		for _, item := range page {
			artists = append(artists, toArtist(item))
		}

		start += len(page)
		total := resp.MediaContainer.TotalSize
		if len(page) == 0 || (total > 0 && start >= total) || (total == 0 && len(page) < pageSize) {
			break
		}
	}

	c.logger.Debug("listed artists", "section", sectionKey, "count", len(artists))
	return artists, nil
}

func toArtist(item MetadataItem) artist.Artist {
	return artist.Artist{
		ID:            item.RatingKey,
		Name:          item.Title,
		MusicBrainzID: MusicBrainzID(item.Guids),
		Thumb:         item.Thumb,
	}
}

// MusicBrainzID returns the MBID from the first GUID whose ID mentions
// "mbid", taking the text after the last "://" without any query suffix.
// Returns "" when none exists.
func MusicBrainzID(guids []Guid) string {
	for _, g := range guids {
		if !strings.Contains(g.ID, "mbid") {
			continue
		}
		id := g.ID
		if i := strings.LastIndex(id, "://"); i >= 0 {
			id = id[i+3:]
		}
		if i := strings.IndexByte(id, '?'); i >= 0 {
			id = id[:i]
		}
		if id = strings.TrimSpace(id); id != "" {
			return id
		}
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL constructed from trusted base + API path
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Plex-Token", c.token)
	req.Header.Set("X-Plex-Client-Identifier", c.clientID)
	req.Header.Set("X-Plex-Product", "plexlogos")
	req.Header.Set("Accept", "application/json")
}
