package names

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("card not found")
	ErrUnreachable = errors.New("name lookup unreachable")
	ErrParse       = errors.New("malformed name lookup response")
)

// DefaultURL is the card endpoint template; {locale} is replaced with the
// configured locale and the card identifier is appended.
const DefaultURL = "https://{locale}.arkhamdb.com/api/public/card/"

// Lookup resolves a card identifier to its localized name
type Lookup interface {
	Lookup(ctx context.Context, id string) (string, error)
}

// RetryPolicy controls retries of failed lookups.
// MaxRetries is the number of retries after the first attempt.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

// Client fetches card names from an ArkhamDB-compatible API
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

// NewClient builds a client for locale. An empty baseURL selects DefaultURL.
func NewClient(baseURL, locale string, timeout time.Duration, retry RetryPolicy) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	baseURL = strings.ReplaceAll(baseURL, "{locale}", strings.ToLower(locale))
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
	}
}

// Lookup fetches the name for id, retrying transport failures and
// retryable statuses.
func (c *Client) Lookup(ctx context.Context, id string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retry.Backoff * time.Duration(attempt)):
			}
		}

		name, retry, err := c.fetch(ctx, id)
		if err == nil {
			return name, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return "", lastErr
}

func (c *Client) fetch(ctx context.Context, id string) (name string, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(id), nil)
	if err != nil {
		return "", false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", false, fmt.Errorf("%w: %s", ErrNotFound, id)
	case shouldRetryStatus(resp.StatusCode):
		return "", true, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", false, fmt.Errorf("%w: status %d", ErrUnreachable, resp.StatusCode)
	}

	var card struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &card); err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if strings.TrimSpace(card.Name) == "" {
		return "", false, fmt.Errorf("%w: empty name for %s", ErrParse, id)
	}
	return card.Name, false, nil
}

func shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
