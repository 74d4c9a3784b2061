package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: stay well under the MAL public API ceiling
	rateLimit = 3
	rateBurst = 5

	// Only the fields the import flow consumes
	detailFields = "id,title,main_picture,genres,authors{first_name,last_name}"

	defaultLimit = 20
)

var (
	ErrNetwork  = errors.New("catalog: network failure")
	ErrDecode   = errors.New("catalog: unexpected response schema")
	ErrNotFound = errors.New("catalog: manga not found")

	ErrEmptyQuery = errors.New("catalog: query must not be empty")
)

// Client handles MAL v2 API requests with rate limiting. The client ID is
// sent as a custom header on every request, never as a query parameter.
type Client struct {
	baseURL     string
	clientID    string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new catalog API client
func NewClient(baseURL, clientID string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		clientID:    clientID,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Search runs a single-page catalog search and returns lightweight summaries.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Summary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", limit))

	var response searchResponse
	if err := c.doRequest(ctx, c.baseURL+"?"+params.Encode(), &response); err != nil {
		return nil, fmt.Errorf("search manga: %w", err)
	}

	return response.summaries(), nil
}

// FetchDetail fetches one manga by external id and normalizes the authors,
// genres and cover before returning. Returns ErrNotFound when the upstream
// reports no such id.
func (c *Client) FetchDetail(ctx context.Context, externalID string) (Detail, error) {
	params := url.Values{}
	params.Set("fields", detailFields)

	fullURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(externalID), params.Encode())

	var response detailResponse
	if err := c.doRequest(ctx, fullURL, &response); err != nil {
		return Detail{}, fmt.Errorf("fetch manga detail: %w", err)
	}

	return response.normalize(), nil
}

// doRequest performs a rate-limited GET and decodes the JSON body into result
func (c *Client) doRequest(ctx context.Context, fullURL string, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "MangaShelf/1.0")
	req.Header.Set("X-MAL-Client-ID", c.clientID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: HTTP %d", ErrNetwork, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return nil
}
