package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// pagePayload adalah bentuk respons JSON dari gateway platform.
type pagePayload struct {
	Usernames  []string `json:"usernames"`
	NextCursor string   `json:"next_cursor"`
}

// HTTPPlatformClient adalah PlatformClient di atas gateway HTTP internal yang
// mem-proxy API Instagram/TikTok. Error jaringan dan status 5xx dikembalikan
// apa adanya supaya bisa diklasifikasikan transient oleh Client.
type HTTPPlatformClient struct {
	baseURL  string
	platform string // "instagram" | "tiktok"
	client   *http.Client
}

// NewHTTPPlatformClient membuat client gateway untuk satu platform.
func NewHTTPPlatformClient(baseURL string, platform string) *HTTPPlatformClient {
	return &HTTPPlatformClient{
		baseURL:  baseURL,
		platform: platform,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchEngagementPage mengambil satu halaman pelaku like.
func (h *HTTPPlatformClient) FetchEngagementPage(ctx context.Context, contentID string, cursor string) (Page, error) {
	return h.fetch(ctx, "likes", contentID, cursor)
}

// FetchCommentsPage mengambil satu halaman pelaku komentar.
func (h *HTTPPlatformClient) FetchCommentsPage(ctx context.Context, contentID string, cursor string) (Page, error) {
	return h.fetch(ctx, "comments", contentID, cursor)
}

func (h *HTTPPlatformClient) fetch(ctx context.Context, action string, contentID string, cursor string) (Page, error) {
	endpoint := fmt.Sprintf("%s/v1/%s/%s/%s", h.baseURL, h.platform, url.PathEscape(contentID), action)
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Page{}, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var payload pagePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Page{}, &MalformedPayloadError{Cause: err}
	}

	return Page{
		Handles:    payload.Usernames,
		NextCursor: payload.NextCursor,
	}, nil
}
