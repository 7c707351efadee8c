package memory

import (
	"context"

	"github.com/awkspace/runfile/pkg/domain"
)

// Fetcher implements ports.Fetcher over a fixed address->content map.
type Fetcher struct {
	docs map[string]string
}

// NewFetcher creates a Fetcher serving the given documents.
func NewFetcher(docs map[string]string) *Fetcher {
	if docs == nil {
		docs = make(map[string]string)
	}
	return &Fetcher{docs: docs}
}

// Add registers (or replaces) a document under an address.
func (f *Fetcher) Add(address, content string) {
	f.docs[address] = content
}

// Fetch returns the registered content for address.
func (f *Fetcher) Fetch(ctx context.Context, address string) ([]byte, error) {
	content, ok := f.docs[address]
	if !ok {
		return nil, &domain.NotFoundError{Address: address}
	}
	return []byte(content), nil
}
