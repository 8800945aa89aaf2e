// Package fetch downloads job inputs into the job workspace. Downloads are
// streaming (never buffered whole in memory), independently failing, and any
// single failure aborts the whole set; partial results are discarded by the
// workspace teardown.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Concurrent downloads per job, and the pacing of request starts. Clip
// sources are typically the same origin; pacing keeps a many-clip job from
// opening a burst of connections against it.
const (
	maxConcurrent = 4
	startsPerSec  = 8
)

// Error reports a failed download and names the offending URL, as the job
// result surfaces it.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("download %s: %v", e.URL, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Download is one URL to local-path binding.
type Download struct {
	URL  string
	Dest string
}

// Fetcher performs streaming HTTP GETs with a per-request timeout.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewFetcher returns a fetcher whose individual requests time out after
// timeout (headers and body combined).
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(startsPerSec), maxConcurrent),
	}
}

// All fetches every download concurrently. The first failure cancels the
// rest and is returned; on success every Dest exists and is complete.
func (f *Fetcher) All(ctx context.Context, downloads []Download) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, d := range downloads {
		d := d
		g.Go(func() error {
			return f.File(ctx, d.URL, d.Dest)
		})
	}
	return g.Wait()
}

// File streams one URL to dest. Non-2xx, timeout, and network errors all
// return a *Error naming the URL; a partial file is removed before return.
func (f *Fetcher) File(ctx context.Context, url, dest string) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return &Error{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{URL: url, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	out, err := os.Create(dest)
	if err != nil {
		return &Error{URL: url, Err: err}
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(dest)
		return &Error{URL: url, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return &Error{URL: url, Err: err}
	}
	return nil
}
