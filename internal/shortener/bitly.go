package shortener

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"autofix/internal/logging"
)

const (
	// DefaultEndpoint is the Bitly v4 API root.
	DefaultEndpoint = "https://api-ssl.bitly.com"
	defaultTimeout  = 10 * time.Second
	userAgent       = "autofix/0.1.0"
)

// Option customizes a Bitly client.
type Option func(*Bitly)

// WithEndpoint points the client at a different API root.
func WithEndpoint(endpoint string) Option {
	return func(b *Bitly) {
		b.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient replaces the HTTP client. The client's own timeout is kept.
func WithHTTPClient(client *http.Client) Option {
	return func(b *Bitly) {
		if client != nil {
			b.client = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(b *Bitly) {
		if timeout > 0 {
			b.client.Timeout = timeout
		}
	}
}

// WithRateLimit paces requests to at most perSecond. Zero or less disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(b *Bitly) {
		if perSecond > 0 {
			b.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			b.limiter = nil
		}
	}
}

// WithLogger sets the logger used for degraded requests.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bitly) {
		b.logger = componentLogger(logger)
	}
}

// Bitly shortens URLs through the Bitly v4 API.
type Bitly struct {
	endpoint string
	token    string
	domain   string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewBitly builds a client for token and domain.
func NewBitly(token, domain string, opts ...Option) *Bitly {
	b := &Bitly{
		endpoint: DefaultEndpoint,
		token:    strings.TrimSpace(token),
		domain:   strings.TrimSpace(domain),
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   componentLogger(nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type shortenRequest struct {
	LongURL string `json:"long_url"`
	Domain  string `json:"domain"`
}

type shortenResponse struct {
	Link string `json:"link"`
}

// Shorten returns the short link for longURL, or longURL itself when the
// input is not an http(s) URL or the request fails in any way.
func (b *Bitly) Shorten(ctx context.Context, longURL string) string {
	if b == nil || b.token == "" || !strings.HasPrefix(longURL, "http") {
		return longURL
	}
	link, err := b.shorten(ctx, longURL)
	if err != nil {
		b.logger.Debug("shortening failed; keeping long url",
			logging.URL(longURL),
			logging.Error(err),
		)
		return longURL
	}
	return link
}

func (b *Bitly) shorten(ctx context.Context, longURL string) (string, error) {
	// The rate limit wait counts against the request timeout.
	if b.client.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.client.Timeout)
		defer cancel()
	}
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(shortenRequest{LongURL: longURL, Domain: b.domain})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+"/v4/shorten", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	b.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("bitly returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded shortenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	link := strings.TrimSpace(decoded.Link)
	if link == "" {
		return "", fmt.Errorf("response has no link")
	}
	return link, nil
}

// VerifyToken checks the token against the user endpoint.
func (b *Bitly) VerifyToken(ctx context.Context) error {
	if b == nil || b.token == "" {
		return fmt.Errorf("bitly token not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"/v4/user", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("contact bitly: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("bitly rejected token (status %d)", resp.StatusCode)
	case resp.StatusCode >= 300:
		return fmt.Errorf("bitly returned %d", resp.StatusCode)
	}
	return nil
}

func (b *Bitly) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("User-Agent", userAgent)
}
