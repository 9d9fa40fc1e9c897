package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/bet-advisor/internal/config"
	"github.com/yourusername/bet-advisor/internal/models"
)

// SlateEntry is one upcoming game with its confidence estimate and odds
// quotes, as delivered by the feed.
type SlateEntry struct {
	Game       models.Game    `json:"game"`
	Pick       string         `json:"pick"`
	Confidence float64        `json:"confidence"` // win probability in (0,1)
	Odds       map[string]int `json:"odds"`
}

// slateDocument is the feed's wire format.
type slateDocument struct {
	Games []SlateEntry `json:"games"`
}

// FeedClient fetches game slates from the configured feed URL.
type FeedClient struct {
	client  *RateLimitedHTTPClient
	feedURL string
	apiKey  string
	logger  *logrus.Logger
}

// NewFeedClient creates a feed client from datasource configuration
func NewFeedClient(cfg *config.DatasourceConfig, logger *logrus.Logger) *FeedClient {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.MaxRetries > 0 {
		httpCfg.MaxRetries = cfg.MaxRetries
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	return &FeedClient{
		client:  NewRateLimitedHTTPClient(httpCfg, logger),
		feedURL: cfg.FeedURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// FetchSlate retrieves the current slate of upcoming games.
func (f *FeedClient) FetchSlate(ctx context.Context) ([]SlateEntry, error) {
	if f.feedURL == "" {
		return nil, fmt.Errorf("no feed URL configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.apiKey != "" {
		req.Header.Set("X-API-Key", f.apiKey)
	}

	resp, err := f.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching slate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed returned status %d: %s", resp.StatusCode, body)
	}

	entries, err := decodeSlate(resp.Body)
	if err != nil {
		return nil, err
	}

	f.logger.WithField("games", len(entries)).Info("Slate fetched from feed")
	return entries, nil
}

// Close releases the underlying HTTP client.
func (f *FeedClient) Close() error {
	return f.client.Close()
}

// LoadSlateFromFile reads a slate document from disk, for offline analysis
// without a feed.
func LoadSlateFromFile(path string) ([]SlateEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening slate file: %w", err)
	}
	defer file.Close()
	return decodeSlate(file)
}

func decodeSlate(r io.Reader) ([]SlateEntry, error) {
	var doc slateDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing slate: %w", err)
	}
	if doc.Games == nil {
		return nil, fmt.Errorf("%w: slate document has no games list", models.ErrInvalidInput)
	}
	return doc.Games, nil
}
