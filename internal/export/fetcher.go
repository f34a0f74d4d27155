package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxImageSize bounds a single fetched image at 32 MiB.
const maxImageSize = 32 << 20

// Fetcher retrieves image bytes from durable storage URLs so they can
// be embedded into documents without leaving external references.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher whose single-request deadline is bounded
// by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the image at url, returning its bytes and the
// Content-Type reported by the server.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: %s returned %d", ErrFetchFailed, url, res.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxImageSize))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return data, res.Header.Get("Content-Type"), nil
}
