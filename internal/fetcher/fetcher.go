package fetcher

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/temoto/robotstxt"
)

// maxJitter is added on top of the base delay to avoid a fixed request cadence.
const maxJitter = 3 * time.Second

// Fetcher wraps an HTTP client with politeness pacing, a User-Agent, gzip
// support, and per-host robots.txt checks.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	delay       time.Duration
	checkRobots bool
	robots      map[string]*robotstxt.Group
	fetched     bool
}

// New creates a Fetcher. delaySeconds is the base pause between consecutive
// requests; a random jitter of up to three seconds is added to it.
func New(userAgent string, delaySeconds int, checkRobots bool) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent:   userAgent,
		delay:       time.Duration(delaySeconds) * time.Second,
		checkRobots: checkRobots,
		robots:      make(map[string]*robotstxt.Group),
	}
}

// Fetch retrieves the body of the given URL, pausing first if a request was
// already made. It automatically decompresses gzip responses.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.checkRobots {
		if err := f.checkAllowed(ctx, rawURL); err != nil {
			return nil, err
		}
	}

	f.pause(ctx)

	body, _, err := f.get(ctx, rawURL)
	return body, err
}

// pause sleeps the base delay plus jitter, returning early on cancellation.
// The first request of a run is not delayed, and a zero delay disables
// pacing entirely.
func (f *Fetcher) pause(ctx context.Context) {
	if !f.fetched {
		f.fetched = true
		return
	}
	if f.delay <= 0 {
		return
	}
	select {
	case <-time.After(f.delay + rand.N(maxJitter)):
	case <-ctx.Done():
	}
}

// checkAllowed consults the host's robots.txt, fetching and caching it on
// first contact. A robots.txt that cannot be retrieved permits crawling.
func (f *Fetcher) checkAllowed(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}

	group, ok := f.robots[u.Host]
	if !ok {
		group = f.fetchRobots(ctx, u)
		f.robots[u.Host] = group
	}

	if group != nil && !group.Test(u.Path) {
		return fmt.Errorf("robots.txt disallows %s", rawURL)
	}
	return nil
}

func (f *Fetcher) fetchRobots(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	body, status, err := f.get(ctx, robotsURL)
	if err != nil {
		log.Debug("robots.txt not retrieved, allowing crawl", "host", u.Host, "err", err)
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(status, body)
	if err != nil {
		log.Debug("robots.txt not parseable, allowing crawl", "host", u.Host, "err", err)
		return nil
	}
	return data.FindGroup(f.userAgent)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" || strings.HasSuffix(rawURL, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, resp.StatusCode, fmt.Errorf("decompressing gzip response from %s: %w", rawURL, err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading body from %s: %w", rawURL, err)
	}

	return body, resp.StatusCode, nil
}
