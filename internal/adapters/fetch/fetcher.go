// Package fetch resolves document addresses: local paths are read from
// disk, http(s) addresses are fetched over the network.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/awkspace/runfile/pkg/domain"
)

// Fetcher implements ports.Fetcher over the filesystem and HTTP.
type Fetcher struct {
	client *http.Client
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient overrides the HTTP client used for remote addresses.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// New creates a Fetcher with a 30s default HTTP timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsRemote reports whether the address names a remote document.
func IsRemote(address string) bool {
	return strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://")
}

// Fetch reads the document at address. Local paths are tried first; an
// http(s) address is fetched remotely. An unreadable address either way
// yields a *domain.NotFoundError.
func (f *Fetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	if data, err := os.ReadFile(address); err == nil {
		return data, nil
	}

	if IsRemote(address) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, address, nil)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", address, err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, &domain.NotFoundError{Address: address}
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return io.ReadAll(resp.Body)
		}
	}

	return nil, &domain.NotFoundError{Address: address}
}
