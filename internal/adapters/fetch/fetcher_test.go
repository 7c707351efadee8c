package fetch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awkspace/runfile/internal/adapters/fetch"
	"github.com/awkspace/runfile/pkg/domain"
)

func TestIsRemote(t *testing.T) {
	assert.True(t, fetch.IsRemote("https://example.com/Runfile.md"))
	assert.True(t, fetch.IsRemote("http://example.com/Runfile.md"))
	assert.False(t, fetch.IsRemote("Runfile.md"))
	assert.False(t, fetch.IsRemote("./docs/Runfile.md"))
}

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Runfile.md")
	require.NoError(t, os.WriteFile(path, []byte("# Project\n"), 0644))

	data, err := fetch.New().Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "# Project\n", string(data))
}

func TestFetch_Remote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Runfile.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("# Remote\n"))
	}))
	defer srv.Close()

	fetcher := fetch.New(fetch.WithHTTPClient(srv.Client()))

	data, err := fetcher.Fetch(context.Background(), srv.URL+"/Runfile.md")
	require.NoError(t, err)
	assert.Equal(t, "# Remote\n", string(data))

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/missing.md")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestFetch_NotFound(t *testing.T) {
	_, err := fetch.New().Fetch(context.Background(), "no/such/file.md")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, err.Error(), "no/such/file.md")
}
