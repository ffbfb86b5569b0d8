// Package scrape discovers and downloads report archives from the upstream
// publishing site. The site exposes each report family as a plain HTML
// directory listing linking to PUBLIC_<FAMILY>_<YYYYMMDDHHMM>_<SEQ>.zip files.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// The listing server returns abbreviated pages to clients it does not
// recognise, so requests carry a desktop browser user-agent.
const desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	scanAttempts    = 3
	minListingBytes = 500
)

var (
	// Strategy 1: anchor hrefs.
	hrefRe = regexp.MustCompile(`(?i)href="([^"]+\.(?:zip|csv))"`)
	// Strategy 2: bare filename pattern anywhere in the page.
	fileRe = regexp.MustCompile(`(?i)PUBLIC_[A-Z0-9_]+_\d{12}_[A-Z0-9]+\.(?:zip|csv)`)
	// Embedded publish timestamp inside a filename.
	stampRe = regexp.MustCompile(`\d{12}`)
)

// Scanner lists a report directory and picks candidate archive names.
type Scanner struct {
	client *http.Client
}

// NewScanner returns a scanner using the given client, or a 30-second default
// when nil.
func NewScanner(client *http.Client) *Scanner {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Scanner{client: client}
}

// List fetches the directory index at baseURL and returns the deduped archive
// filenames for family. Truncated pages are refetched up to three times; if
// every attempt comes back truncated the last body is still mined, since a
// partial listing usually covers the most recent files. An empty result is
// not an error.
func (s *Scanner) List(ctx context.Context, baseURL, family string) ([]string, error) {
	var body string
	var lastErr error

	for attempt := 1; attempt <= scanAttempts; attempt++ {
		b, err := s.get(ctx, baseURL)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("url", baseURL).Int("attempt", attempt).
				Msg("directory listing fetch failed")
			continue
		}
		body = b
		if !truncated(b) {
			lastErr = nil
			break
		}
		log.Warn().Str("url", baseURL).Int("attempt", attempt).Int("bytes", len(b)).
			Msg("directory listing looks truncated, refetching")
	}
	if body == "" {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch directory listing %s: %w", baseURL, lastErr)
		}
		return nil, nil
	}

	return extractFilenames(body, family), nil
}

func (s *Scanner) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read listing body: %w", err)
	}
	return string(b), nil
}

// truncated reports whether a listing body looks cut off.
func truncated(body string) bool {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) < minListingBytes {
		return true
	}
	lower := strings.ToLower(trimmed)
	if !strings.Contains(lower, "</html>") && !strings.Contains(lower, "</pre>") {
		return true
	}
	if strings.HasSuffix(trimmed, "...") || strings.HasSuffix(trimmed, "…") {
		return true
	}
	return strings.Contains(lower, "[truncated]")
}

// extractFilenames mines a listing body with three strategies and returns the
// union, deduped and filtered to family.
func extractFilenames(body, family string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		if !matchesFamily(name, family) {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, m := range hrefRe.FindAllStringSubmatch(body, -1) {
		add(m[1])
	}
	for _, m := range fileRe.FindAllString(body, -1) {
		add(m)
	}
	// Family-specific fallback for pages whose markup defeats both patterns.
	famRe := regexp.MustCompile(`(?i)PUBLIC_` + regexp.QuoteMeta(family) + `[A-Z0-9_]*_\d{12}\S*?\.(?:zip|csv)`)
	for _, m := range famRe.FindAllString(body, -1) {
		add(m)
	}

	sort.Strings(out)
	return out
}

func matchesFamily(name, family string) bool {
	if family == "" {
		return true
	}
	return strings.Contains(strings.ToUpper(name), "_"+strings.ToUpper(family))
}

// Latest returns the filename with the greatest embedded 12-digit publish
// timestamp, or "" when no candidate carries one. Lexical comparison is
// enough for fixed-width digit strings.
func Latest(filenames []string) string {
	best, bestStamp := "", ""
	for _, name := range filenames {
		stamp := stampRe.FindString(name)
		if stamp == "" {
			continue
		}
		if stamp > bestStamp || (stamp == bestStamp && name > best) {
			best, bestStamp = name, stamp
		}
	}
	return best
}
