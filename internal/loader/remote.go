package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rewired-gh/lottostat/internal/logger"
)

// maxRemoteFileSize caps how much of a downloaded result file is read.
const maxRemoteFileSize = 32 << 20

// Fetcher downloads result files published over HTTP.
type Fetcher struct {
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewFetcher creates a Fetcher. Non-positive values fall back to 30s, 3 attempts
// and a 1s retry delay base.
func NewFetcher(timeout time.Duration, maxRetries int, retryDelayBase time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Fetcher{
		httpClient:     &http.Client{Timeout: timeout},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// isRemote reports whether a source path is an http(s) URL.
func isRemote(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// ReadRows downloads a result file and parses it like a local one, using the
// extension of the URL path to pick the format.
func (f *Fetcher) ReadRows(ctx context.Context, rawURL string) ([]Row, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %s: %w", rawURL, err)
	}

	start := time.Now()
	body, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	rows, err := readFormat(bytes.NewReader(body), path.Ext(u.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rawURL, err)
	}

	logger.Debug("Fetched %d rows (%d bytes) from %s in %v", len(rows), len(body), rawURL, time.Since(start))
	return rows, nil
}

// Fetch downloads rawURL. Transport errors and 5xx responses are retried with a
// linearly growing delay; other non-200 responses fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for i := 0; i < f.maxRetries; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.retryDelayBase * time.Duration(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			logger.Debug("Fetch %s attempt %d/%d failed: %v", rawURL, i+1, f.maxRetries, err)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			logger.Debug("Fetch %s attempt %d/%d failed: %v", rawURL, i+1, f.maxRetries, lastErr)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", rawURL, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteFileSize))
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read body: %w", err)
			continue
		}
		return body, nil
	}

	return nil, fmt.Errorf("failed to fetch %s: max retries exceeded: %w", rawURL, lastErr)
}
