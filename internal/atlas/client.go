package atlas

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

	"cpsatlas/internal/config"
	"cpsatlas/internal/errors"
	"cpsatlas/pkg/contracts/domain"
)

// AreaData is one record of a topic_info response. Number and
// WeightPercent are pointers because the API omits whichever reading a
// given topic does not carry.
type AreaData struct {
	Number        *float64 `json:"number"`
	WeightPercent *float64 `json:"weight_percent"`
}

type placesResponse struct {
	CommunityAreas []domain.CommunityArea `json:"community_areas"`
}

type topicInfoResponse struct {
	AreaData []AreaData `json:"area_data"`
}

// Client is an HTTP client for the Chicago Health Atlas API. One client
// is shared across the whole run so every request reuses the same
// timeout and connection pool.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a health atlas client for the given base URL
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Places fetches the community area roster tracked by the atlas
func (c *Client) Places(ctx context.Context) ([]domain.CommunityArea, error) {
	var response placesResponse
	if err := c.getJSON(ctx, config.PlacesPath, &response); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "fetched community areas",
		slog.Int("count", len(response.CommunityAreas)))

	return response.CommunityAreas, nil
}

// TopicInfo fetches the per-area readings for one indicator in one
// community area. An empty slice is a valid answer: the atlas has no
// reading for that pairing.
func (c *Client) TopicInfo(ctx context.Context, slug, indicator string) ([]AreaData, error) {
	path := fmt.Sprintf(config.TopicInfoPathFmt, url.PathEscape(slug), url.PathEscape(indicator))

	var response topicInfoResponse
	if err := c.getJSON(ctx, path, &response); err != nil {
		return nil, err
	}

	return response.AreaData, nil
}

// getJSON performs a GET against the API and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	requestURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.NewNetworkError("failed to create request", err).
			WithContext("url", requestURL)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cps-atlas-pipeline/"+config.AppVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewNetworkError("request failed", err).
			WithContext("url", requestURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError("failed to read response", err).
			WithContext("url", requestURL)
	}

	c.logger.DebugContext(ctx, "atlas request complete",
		slog.String("url", requestURL),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return errors.NewNetworkError(
			fmt.Sprintf("atlas returned status %d", resp.StatusCode), nil).
			WithContext("url", requestURL).
			WithContext("body", truncate(string(body), 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewParsingError("failed to parse atlas response", err).
			WithContext("url", requestURL)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
