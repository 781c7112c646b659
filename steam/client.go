// Package steam is a small client for the Steam Web API operations the
// achievement aggregator needs.
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/marek-cottingham/steam-api-token-gen-backend/metrics"
)

const keyParam = "key"

const (
	OpResolveVanityURL      = "resolve_vanity_url"
	OpGetOwnedGames         = "get_owned_games"
	OpGetPlayerAchievements = "get_player_achievements"
	OpGetSchemaForGame      = "get_schema_for_game"
)

const (
	pathResolveVanityURL      = "/ISteamUser/ResolveVanityURL/v0001/"
	pathGetOwnedGames         = "/IPlayerService/GetOwnedGames/v0001/"
	pathGetPlayerAchievements = "/ISteamUserStats/GetPlayerAchievements/v0001/"
	pathGetSchemaForGame      = "/ISteamUserStats/GetSchemaForGame/v2/"
)

// Client calls the Steam Web API with a shared api key.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	log        *logrus.Entry
}

// Config holds client configuration.
type Config struct {
	BaseURL  string
	APIKey   string
	Language string
	// Timeout applies to each call; zero keeps the transport defaults.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Logger
}

// New creates a Steam client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	language := cfg.Language
	if language == "" {
		language = "en"
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   language,
		httpClient: httpClient,
		log:        logger.WithField("component", "steam"),
	}, nil
}

// get performs one GET and returns the body of a 2xx response. Every other
// outcome is an *UpstreamTransportError with the key redacted.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values) ([]byte, error) {
	params.Set(keyParam, c.apiKey)
	endpoint := c.baseURL + path

	start := time.Now()
	status, body, err := c.do(ctx, endpoint, params)
	elapsed := time.Since(start)

	entry := c.log.WithFields(logrus.Fields{
		"operation": operation,
		"status":    status,
		"elapsed":   elapsed,
	})

	if err != nil {
		metrics.ObserveUpstream(operation, "error", elapsed)
		terr := redactTransportError(c.apiKey, operation, endpoint, params, status, err.Error())
		entry.WithError(terr).Debug("steam request failed")
		return nil, terr
	}
	if status < 200 || status >= 300 {
		metrics.ObserveUpstream(operation, fmt.Sprintf("%dxx", status/100), elapsed)
		msg := fmt.Sprintf("Request failed with status code %d", status)
		terr := redactTransportError(c.apiKey, operation, endpoint, params, status, msg)
		entry.Debug("steam request returned non-2xx")
		return nil, terr
	}

	metrics.ObserveUpstream(operation, "ok", elapsed)
	entry.Debug("steam request done")
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", unwrapURLError(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, unwrapURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// unwrapURLError drops the request URL (which carries the key) from
// net/http errors.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}

// scrub blanks any occurrence of the key left in a message.
func scrub(message, apiKey string) string {
	if apiKey == "" {
		return message
	}
	message = strings.ReplaceAll(message, apiKey, "")
	return strings.ReplaceAll(message, url.QueryEscape(apiKey), "")
}

func statusOf(err error) int {
	var terr *UpstreamTransportError
	if errors.As(err, &terr) {
		return terr.StatusCode
	}
	return 0
}
