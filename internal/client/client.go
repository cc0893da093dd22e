// Package client talks to the items REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inventory-console/internal/models"
	"github.com/rs/zerolog"
)

const maxErrorBody = 4096

// APIError is returned when the items API answers with a non-2xx status
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("items api %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("items api %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client wraps the five items API calls. It never caches and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

// New creates a Client for the collection URL, e.g. http://host/api/items
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
		log:        log.With().Str("component", "items_client").Logger(),
	}
}

// List fetches every item
func (c *Client) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// Create posts a new item. The id is never sent.
func (c *Client) Create(ctx context.Context, item models.Item) error {
	item.ID = ""
	return c.do(ctx, http.MethodPost, c.baseURL, item, nil)
}

// Update replaces the item stored under id
func (c *Client) Update(ctx context.Context, id models.ItemID, item models.Item) error {
	item.ID = id
	return c.do(ctx, http.MethodPut, c.itemURL(id), item, nil)
}

// Delete removes the item stored under id
func (c *Client) Delete(ctx context.Context, id models.ItemID) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

// Search returns items whose name, category or status contains keyword
func (c *Client) Search(ctx context.Context, keyword string) ([]models.Item, error) {
	q := url.Values{}
	q.Set("keyword", keyword)

	var items []models.Item
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil, &items); err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

func (c *Client) itemURL(id models.ItemID) string {
	return c.baseURL + "/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, target string, body, out interface{}) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("url", target).Msg("Items API call failed")
		return fmt.Errorf("items api %s %s: %w", method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Items API call completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Method:     method,
			Path:       req.URL.Path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, req.URL.Path, err)
	}
	return nil
}

func nonNil(items []models.Item) []models.Item {
	if items == nil {
		return []models.Item{}
	}
	return items
}
