package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/SakshamKandel/Pulsemovies--sub000/internal/domain"
	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Pulsemovies/1.0"
)

// Client implements domain.WatchlistRemote and domain.HistoryRemote against
// the persistence API. It is stateless apart from credentials; profile
// ownership is enforced server-side, never re-validated here.
type Client struct {
	baseURL    string
	token      string
	sessionID  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new persistence API client
func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   baseURL,
		token:     token,
		sessionID: uuid.NewString(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// SetToken updates the session token
func (c *Client) SetToken(token string) {
	c.token = token
}

// doRequest performs an authenticated HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload interface{}) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Client-Session", c.sessionID)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrServerOffline
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return respBody, nil
	case http.StatusUnauthorized:
		return nil, domain.ErrAuthFailed
	case http.StatusForbidden:
		return nil, domain.ErrProfileForbidden
	default:
		c.logger.Error("api request error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
}

// checkDeleted parses a DELETE response and verifies the success flag
func (c *Client) checkDeleted(body []byte) error {
	var resp deleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("server rejected delete")
	}
	return nil
}

// === Watchlist ===

// GetWatchlist returns the full server-side watchlist for a profile
func (c *Client) GetWatchlist(ctx context.Context, profileID string) ([]domain.ListEntry, error) {
	query := url.Values{"profileId": {profileID}}
	body, err := c.doRequest(ctx, http.MethodGet, "/watchlist", query, nil)
	if err != nil {
		return nil, err
	}

	var records []watchlistRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return mapListEntries(records), nil
}

// AddWatchlistItem creates a server-side watchlist record
func (c *Client) AddWatchlistItem(ctx context.Context, profileID string, item domain.CatalogItem) error {
	payload := watchlistCreate{
		ProfileID:  profileID,
		ExternalID: item.ExternalID,
		MediaKind:  string(item.Kind),
		Title:      item.Title,
		PosterPath: item.PosterPath,
		Rating:     item.Rating,
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/watchlist", nil, payload)
	return err
}

// RemoveWatchlistItem deletes the record keyed by (profileID, externalID)
func (c *Client) RemoveWatchlistItem(ctx context.Context, profileID string, externalID int) error {
	query := url.Values{
		"externalId": {strconv.Itoa(externalID)},
		"profileId":  {profileID},
	}
	body, err := c.doRequest(ctx, http.MethodDelete, "/watchlist", query, nil)
	if err != nil {
		return err
	}
	return c.checkDeleted(body)
}

// === History ===

// GetHistory returns the full server-side history for a profile
func (c *Client) GetHistory(ctx context.Context, profileID string) ([]domain.ProgressEntry, error) {
	query := url.Values{"profileId": {profileID}}
	body, err := c.doRequest(ctx, http.MethodGet, "/history", query, nil)
	if err != nil {
		return nil, err
	}

	var records []historyRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return mapProgressEntries(records), nil
}

// UpsertHistoryItem creates or replaces the history record for a title.
// The server deduplicates on (profileId, externalId).
func (c *Client) UpsertHistoryItem(ctx context.Context, profileID string, entry domain.ProgressEntry) error {
	payload := historyUpsert{
		ProfileID:       profileID,
		ExternalID:      entry.ExternalID,
		MediaKind:       string(entry.Kind),
		Title:           entry.Title,
		PosterPath:      entry.PosterPath,
		PercentComplete: entry.PercentComplete,
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/history", nil, payload)
	return err
}

// RemoveHistoryItem deletes the record keyed by (profileID, externalID)
func (c *Client) RemoveHistoryItem(ctx context.Context, profileID string, externalID int) error {
	query := url.Values{
		"externalId": {strconv.Itoa(externalID)},
		"profileId":  {profileID},
	}
	body, err := c.doRequest(ctx, http.MethodDelete, "/history", query, nil)
	if err != nil {
		return err
	}
	return c.checkDeleted(body)
}

// ClearHistory deletes every history record for a profile
func (c *Client) ClearHistory(ctx context.Context, profileID string) error {
	query := url.Values{"profileId": {profileID}}
	body, err := c.doRequest(ctx, http.MethodDelete, "/history", query, nil)
	if err != nil {
		return err
	}
	return c.checkDeleted(body)
}
