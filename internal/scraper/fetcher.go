package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wikiquiz/internal/config"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"

	"go.uber.org/zap"
)

const maxRedirects = 5

// HTTPFetcher downloads article markup with a bounded wait.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	allowedHosts []string
	maxBytes     int64
}

// NewHTTPFetcher builds a fetcher from the scraper configuration.
func NewHTTPFetcher(cfg config.ScraperConfig) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	f := &HTTPFetcher{
		userAgent:    cfg.UserAgent,
		allowedHosts: cfg.AllowedHosts,
		maxBytes:     cfg.MaxBytes,
	}
	f.client = &http.Client{Timeout: timeout}
	f.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("too many redirects")
		}
		if !f.hostAllowed(req.URL.Hostname()) {
			return fmt.Errorf("redirect blocked: %s", req.URL.String())
		}
		return nil
	}
	return f
}

// Fetch returns the raw body of rawURL. Hosts outside the allow-list are
// rejected as invalid input; network failures and non-2xx responses are
// transport errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid article URL: %s", rawURL))
	}
	if !f.hostAllowed(u.Hostname()) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("host %s is not allowed", u.Hostname()))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, domain.NewTransportError(rawURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domain.NewTransportError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewTransportError(rawURL, fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, domain.NewTransportError(rawURL, err)
	}
	if f.maxBytes > 0 && int64(len(b)) > f.maxBytes {
		return nil, domain.NewTransportError(rawURL, fmt.Errorf("response too large (%d > %d)", len(b), f.maxBytes))
	}

	logger.Get().Debug("Fetched article markup",
		zap.String("url", rawURL),
		zap.Int("bytes", len(b)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return b, nil
}

// hostAllowed matches host against the allow-list, including subdomains.
// An empty allow-list permits every host.
func (f *HTTPFetcher) hostAllowed(host string) bool {
	if len(f.allowedHosts) == 0 {
		return true
	}
	host = strings.ToLower(host)
	for _, allowed := range f.allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if allowed == "" {
			continue
		}
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
