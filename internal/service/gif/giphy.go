package gif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrNoResult is returned when the search succeeded but carried no usable image.
var ErrNoResult = errors.New("gif search returned no usable image")

// previewPath selects the medium-size preview of the first result.
const previewPath = "data.0.images.downsized_medium.url"

// maxErrorBody caps how much of a failed response is kept for the log.
const maxErrorBody = 2048

// Searcher finds a GIF for a query and returns its preview URL.
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int) (string, error)
}

// GiphyClient 调用 Giphy 的 /gifs/search 接口。
type GiphyClient struct {
	apiKey     string
	baseURL    string
	rating     string
	httpClient *http.Client
}

// NewGiphyClient creates a search client; baseURL is the API root such as https://api.giphy.com/v1.
func NewGiphyClient(apiKey, baseURL, rating string, timeout time.Duration) *GiphyClient {
	return &GiphyClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		rating:     rating,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search implements Searcher.
func (c *GiphyClient) Search(ctx context.Context, query string, limit, offset int) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if c.rating != "" {
		params.Set("rating", c.rating)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gifs/search?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("giphy search: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("giphy search: read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("giphy search: invalid json body")
	}

	preview := gjson.GetBytes(body, previewPath)
	if !preview.Exists() || preview.String() == "" {
		return "", ErrNoResult
	}
	return preview.String(), nil
}
