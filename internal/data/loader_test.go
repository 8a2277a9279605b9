package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sinbibook/yeoyoochae/internal/retry"
)

func writeDoc(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoaderReadsLocalFile(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, `{"property":{"name":"여유채"}}`)
	doc, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "여유채", doc.String("property.name"))
}

func TestLoaderRejectsNonObjectDocuments(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, `[1,2,3]`)
	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoaderMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoaderCachesRemoteDocuments(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"property":{"name":"remote"}}`))
	}))
	t.Cleanup(srv.Close)

	l := NewLoader(WithCacheTTL(time.Minute))
	doc, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "remote", doc.String("property.name"))

	doc["property"] = "mutated"
	again, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "remote", again.String("property.name"))
	require.EqualValues(t, 1, hits.Load())
}

func TestLoaderFallsBackToLocalDocument(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	fallback := writeDoc(t, `{"property":{"name":"local"}}`)
	l := NewLoader(WithFallback(fallback), WithRetry(retry.Policy{Attempts: 2, Interval: time.Millisecond}))
	doc, err := l.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "local", doc.String("property.name"))
}
