package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"surplus-scraper/internal/config"
	"surplus-scraper/internal/logger"

	"golang.org/x/time/rate"
)

// Error is a network or HTTP-level failure for a single URL.
type Error struct {
	URL    string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Service issues outbound requests through one shared client. A token-bucket
// limiter spaces successive requests by the configured politeness delay, so
// discovery and extraction share a single delay-spaced request stream. The
// service never retries; retry policy belongs to the caller.
type Service struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       *logger.Logger
}

func NewService(cfg config.Config) *Service {
	limit := rate.Inf
	if cfg.PolitenessDelay > 0 {
		limit = rate.Every(cfg.PolitenessDelay)
	}
	return &Service{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: cfg.UserAgent,
		log:       logger.New("FetchService"),
	}
}

// Fetch returns the raw markup at url, or a *Error on any network or non-2xx
// failure.
func (s *Service) Fetch(ctx context.Context, url string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", &Error{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.LogDebugf("fetch failed %s: %v", url, err)
		return "", &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.log.LogDebugf("fetch %s returned status %d", url, resp.StatusCode)
		return "", &Error{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	return string(body), nil
}
