package amap

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bluele/gcache"
)

// DefaultBaseURL is the production AMap web service root.
const DefaultBaseURL = "https://restapi.amap.com/v3"

const (
	defaultTimeout  = 20 * time.Second
	cacheSize       = 128
	cacheExpiration = 5 * time.Minute
)

// Client is a simple HTTP client for the AMap bus endpoints. Responses are
// cached briefly by URL so a keyword appearing twice in one batch issues a
// single request.
type Client struct {
	// BaseURL can be pointed at a test server.
	BaseURL string

	key        string
	httpClient *http.Client
	cache      gcache.Cache
}

// NewClient creates a client authenticated with the given web service key.
// A non-positive timeout falls back to the default.
func NewClient(key string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		key:        key,
		httpClient: &http.Client{Timeout: timeout},
		cache:      gcache.New(cacheSize).LRU().Expiration(cacheExpiration).Build(),
	}
}

func (c *Client) get(rawURL string) ([]byte, error) {
	if v, err := c.cache.Get(rawURL); err == nil {
		return v.([]byte), nil
	}

	resp, err := c.httpClient.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	_ = c.cache.Set(rawURL, body)
	return body, nil
}

// SearchLine queries /bus/linename for lines matching keyword in city.
func (c *Client) SearchLine(city, keyword string) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("keywords", keyword)
	q.Set("extensions", "all")
	q.Set("output", "json")
	q.Set("key", c.key)

	body, err := c.get(c.BaseURL + "/bus/linename?" + q.Encode())
	if err != nil {
		return nil, err
	}
	var out SearchResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("linename response: %w", err)
	}
	return &out, nil
}

// LineDetail queries /bus/lineid for the full record of one line.
func (c *Client) LineDetail(city, lineID string) (*DetailResponse, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("id", lineID)
	q.Set("extensions", "all")
	q.Set("output", "json")
	q.Set("key", c.key)

	body, err := c.get(c.BaseURL + "/bus/lineid?" + q.Encode())
	if err != nil {
		return nil, err
	}
	var out DetailResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("lineid response: %w", err)
	}
	return &out, nil
}
