package plex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// UploadPoster replaces the poster of a metadata item with the given image
// bytes. The server selects the uploaded image as the active poster.
func (c *Client) UploadPoster(ctx context.Context, ratingKey string, data []byte, contentType string) error {
	path := fmt.Sprintf("/library/metadata/%s/posters", url.PathEscape(ratingKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating upload request: %w", err)
	}
	c.setHeaders(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL constructed from trusted base + rating key
	if err != nil {
		return fmt.Errorf("executing upload request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Debug("poster uploaded to plex", "rating_key", ratingKey, "bytes", len(data))
	return nil
}
