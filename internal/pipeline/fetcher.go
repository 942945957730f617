package pipeline

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// fetchSleepFunc is overridable for tests
var fetchSleepFunc = time.Sleep

const fetchAttempts = 3

// Fetcher retrieves published sheet exports over HTTP
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool) *Fetcher {
	transport := &http.Transport{}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// FetchResult contains the fetched export and metadata
type FetchResult struct {
	Body        []byte
	ContentType string
	FinalURL    string
}

// Fetch retrieves the export at the given URL in a single attempt
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/csv,text/tab-separated-values,text/html;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt < fetchAttempts; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(backoff)
			backoff *= 2
		}

		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
	}

	return nil, lastErr
}

// isRetryableFetchError reports whether the fetch failure is transient:
// 5xx and 429 statuses plus connection-level errors
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "unexpected status:") {
		return strings.Contains(msg, "unexpected status: 5") ||
			strings.Contains(msg, "unexpected status: 429")
	}

	if strings.HasPrefix(msg, "fetch:") {
		return true
	}

	return false
}
