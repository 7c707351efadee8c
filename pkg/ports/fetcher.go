package ports

import "context"

// Fetcher resolves a document address into raw bytes. Addresses may be
// local paths or remote URIs; implementations return a
// *domain.NotFoundError when the address is unreachable either way.
type Fetcher interface {
	Fetch(ctx context.Context, address string) ([]byte, error)
}
