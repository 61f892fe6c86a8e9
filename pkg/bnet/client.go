// Package bnet is a client for the StarCraft II community API. It
// authenticates with OAuth client credentials, classifies failures, and
// retries transient ones with exponential backoff.
package bnet

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenURL is the OAuth client-credentials token endpoint.
const DefaultTokenURL = "https://oauth.battle.net/token"

// Config holds client configuration.
type Config struct {
	// ClientID and ClientSecret are the OAuth client credentials.
	ClientID     string
	ClientSecret string

	// TokenURL overrides the OAuth token endpoint (default DefaultTokenURL).
	TokenURL string

	// BaseURL overrides the per-region hosts, for tests and proxies.
	// Requests go out unauthenticated when no credentials are configured.
	BaseURL string

	// Locale is the locale query parameter sent upstream (default en_US).
	Locale string

	// RequestTimeout bounds a single attempt when the context carries no
	// earlier deadline.
	RequestTimeout time.Duration

	// Retry controls backoff for transient failures.
	Retry RetryConfig
}

// DefaultConfig returns a client configuration with sensible defaults.
func DefaultConfig(clientID, clientSecret string) Config {
	return Config{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		TokenURL:       DefaultTokenURL,
		Locale:         "en_US",
		RequestTimeout: 10 * time.Second,
		Retry:          DefaultRetryConfig(),
	}
}

// Client calls the StarCraft II community API. It is safe for concurrent
// use.
type Client struct {
	http   *fasthttp.Client
	tokens oauth2.TokenSource
	cfg    Config
	logger zerolog.Logger
}

// New creates a Client. Credentials are required unless BaseURL points at
// an alternative host.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.ClientID == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if cfg.ClientID != "" && cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Locale == "" {
		cfg.Locale = "en_US"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	c := &Client{
		http: &fasthttp.Client{
			ReadTimeout:         cfg.RequestTimeout,
			WriteTimeout:        cfg.RequestTimeout,
			MaxIdleConnDuration: time.Minute,
		},
		cfg:    cfg,
		logger: logger,
	}

	if cfg.ClientID != "" {
		oauthCfg := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		c.tokens = oauthCfg.TokenSource(context.Background())
	}

	return c, nil
}

// Profile fetches the profile summary for one player.
func (c *Client) Profile(ctx context.Context, p PlayerProfile) (*ProfileResponse, error) {
	url := fmt.Sprintf("%s/sc2/profile/%d/%d/%s?locale=%s",
		c.host(p.RegionID), p.RegionID, p.RealmID, p.ProfileID, c.cfg.Locale)
	return doJSON[ProfileResponse](ctx, c, "profile", url)
}

// LegacyMatchHistory fetches the player's recent matches from the legacy
// API. The modern API has no match history endpoint.
func (c *Client) LegacyMatchHistory(ctx context.Context, p PlayerProfile) (*MatchHistoryResponse, error) {
	url := fmt.Sprintf("%s/sc2/legacy/profile/%d/%d/%s/matches?locale=%s",
		c.host(p.RegionID), p.RegionID, p.RealmID, p.ProfileID, c.cfg.Locale)
	return doJSON[MatchHistoryResponse](ctx, c, "matches", url)
}

// LadderSummary lists the ladders the player currently holds a rank on.
func (c *Client) LadderSummary(ctx context.Context, p PlayerProfile) (*LadderSummaryResponse, error) {
	url := fmt.Sprintf("%s/sc2/profile/%d/%d/%s/ladder/summary?locale=%s",
		c.host(p.RegionID), p.RegionID, p.RealmID, p.ProfileID, c.cfg.Locale)
	return doJSON[LadderSummaryResponse](ctx, c, "ladder_summary", url)
}

// Ladder fetches one ladder's standings.
func (c *Client) Ladder(ctx context.Context, p PlayerProfile, ladderID string) (*LadderResponse, error) {
	url := fmt.Sprintf("%s/sc2/profile/%d/%d/%s/ladder/%s?locale=%s",
		c.host(p.RegionID), p.RegionID, p.RealmID, p.ProfileID, ladderID, c.cfg.Locale)
	return doJSON[LadderResponse](ctx, c, "ladder", url)
}

func (c *Client) host(regionID int) string {
	if c.cfg.BaseURL != "" {
		return c.cfg.BaseURL
	}
	if host, ok := regionHosts[regionID]; ok {
		return host
	}
	return regionHosts[1]
}

// doJSON performs a GET with retry and decodes the JSON response body.
// Generic because methods cannot carry their own type parameters.
func doJSON[T any](ctx context.Context, c *Client, endpoint, url string) (*T, error) {
	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var out *T
	err := retryWithBackoff(ctx, c.cfg.Retry, c.logger, func() (ErrorClass, error) {
		v, class, err := fetchJSON[T](ctx, c, endpoint, url)
		if err != nil {
			errorsTotal.WithLabelValues(endpoint, string(class)).Inc()
			return class, err
		}
		out = v
		return "", nil
	})
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("endpoint", endpoint).
			Msg("upstream request failed")
		return nil, err
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Dur("duration", time.Since(start)).
		Msg("upstream request complete")
	return out, nil
}

// fetchJSON performs a single attempt.
func fetchJSON[T any](ctx context.Context, c *Client, endpoint, url string) (*T, ErrorClass, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, ErrorClassNetwork, &APIError{
				Endpoint: endpoint,
				Class:    ErrorClassNetwork,
				Err:      fmt.Errorf("oauth token: %w", err),
			}
		}
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+tok.AccessToken)
	}

	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return nil, ErrorClassNetwork, &APIError{
			Endpoint: endpoint,
			Class:    ErrorClassNetwork,
			Err:      err,
		}
	}

	status := resp.StatusCode()
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()

	if status != fasthttp.StatusOK {
		class := classifyStatus(status)
		c.logger.Debug().
			Str("endpoint", endpoint).
			Int("status_code", status).
			Str("error_class", string(class)).
			Msg("upstream returned error status")
		return nil, class, &APIError{Endpoint: endpoint, StatusCode: status, Class: class}
	}

	out := new(T)
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return nil, ErrorClassDecode, &APIError{
			Endpoint:   endpoint,
			StatusCode: status,
			Class:      ErrorClassDecode,
			Err:        err,
		}
	}

	return out, "", nil
}
