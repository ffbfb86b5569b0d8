package scrape

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

const (
	fetchAttempts  = 3
	fetchBaseDelay = 1 * time.Second
	fetchMaxDelay  = 8 * time.Second
)

// permanentError marks a response that must not be retried (4xx).
type permanentError struct {
	status int
}

func (e *permanentError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.status)
}

// Fetcher downloads report archives with bounded retries and a circuit
// breaker per fetcher instance. The breaker opens after repeated exhausted
// retry budgets so a dead upstream fails fast for subsequent sources in the
// same tick.
type Fetcher struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker

	attempts  int
	baseDelay time.Duration
	maxDelay  time.Duration
}

// NewFetcher returns a fetcher using the given client, or a 60-second default
// when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	settings := gobreaker.Settings{
		Name:    "archive-fetch",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &Fetcher{
		client:    client,
		breaker:   gobreaker.NewCircuitBreaker(settings),
		attempts:  fetchAttempts,
		baseDelay: fetchBaseDelay,
		maxDelay:  fetchMaxDelay,
	}
}

// Fetch downloads url and returns the raw bytes. Network errors and 5xx
// responses are retried with exponential backoff (1s base, 8s cap, three
// attempts); 4xx responses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	out, err := f.breaker.Execute(func() (interface{}, error) {
		return f.fetchWithRetry(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	delay := f.baseDelay

	for attempt := 1; attempt <= f.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > f.maxDelay {
				delay = f.maxDelay
			}
		}

		body, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if pe, ok := err.(*permanentError); ok {
			return nil, fmt.Errorf("failed to fetch %s: %w", url, pe)
		}
		lastErr = err
		log.Warn().Err(err).Str("url", url).Int("attempt", attempt).
			Msg("archive fetch failed, will retry")
	}
	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", url, f.attempts, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &permanentError{status: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// ExtractTabular opens a downloaded zip container and returns the decoded
// text of the bundled report. Member selection prefers a name containing the
// family (case-insensitive), falling back to the first member with a tabular
// extension. Payloads that are not zip archives are assumed to already be the
// raw report text.
func ExtractTabular(data []byte, family string) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		// Some endpoints serve bare CSV despite the .zip-style listing name.
		if looksTabular(data) {
			return string(data), nil
		}
		return "", fmt.Errorf("failed to open archive: %w", err)
	}

	member := pickMember(zr, family)
	if member == nil {
		return "", fmt.Errorf("archive has no tabular member for family %s", family)
	}

	rc, err := member.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open archive member %s: %w", member.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read archive member %s: %w", member.Name, err)
	}
	return string(b), nil
}

func pickMember(zr *zip.Reader, family string) *zip.File {
	upper := strings.ToUpper(family)
	for _, f := range zr.File {
		if upper != "" && strings.Contains(strings.ToUpper(f.Name), upper) {
			return f
		}
	}
	for _, f := range zr.File {
		lower := strings.ToLower(f.Name)
		if strings.HasSuffix(lower, ".csv") || strings.HasSuffix(lower, ".txt") {
			return f
		}
	}
	return nil
}

// looksTabular sniffs the row-kind marker of the report format.
func looksTabular(data []byte) bool {
	return bytes.HasPrefix(data, []byte("C,")) ||
		bytes.HasPrefix(data, []byte("I,")) ||
		bytes.HasPrefix(data, []byte("D,"))
}
