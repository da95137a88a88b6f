package names

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/public/card/01001":
			_, _ = w.Write([]byte(`{"code":"01001","name":"Roland Banks"}`))
		case "/api/public/card/01002":
			_, _ = w.Write([]byte(`not json`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/public/card", "de", time.Second, RetryPolicy{})

	name, err := c.Lookup(context.Background(), "01001")
	require.NoError(t, err)
	assert.Equal(t, "Roland Banks", name)

	_, err = c.Lookup(context.Background(), "01002")
	assert.ErrorIs(t, err, ErrParse)

	_, err = c.Lookup(context.Background(), "09999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Daisy Walker"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "en", time.Second, RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond})
	name, err := c.Lookup(context.Background(), "01002")
	require.NoError(t, err)
	assert.Equal(t, "Daisy Walker", name)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	c = NewClient(srv.URL, "en", time.Second, RetryPolicy{MaxRetries: 1, Backoff: time.Millisecond})
	_, err = c.Lookup(context.Background(), "01002")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClientLocaleURL(t *testing.T) {
	c := NewClient("", "DE", 0, RetryPolicy{})
	assert.Equal(t, "https://de.arkhamdb.com/api/public/card/", c.baseURL)
}

func TestCachePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "names-de.json")

	c := NewCache(path)
	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())
	c.Set("01001", "Roland Banks")
	require.NoError(t, c.Save())

	reloaded := NewCache(path)
	require.NoError(t, reloaded.Load())
	name, ok := reloaded.Get("01001")
	assert.True(t, ok)
	assert.Equal(t, "Roland Banks", name)

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))
	assert.Error(t, NewCache(path).Load())
}

func TestCacheSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names-de.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	c := NewCache(path)
	c.Set("01001", "Roland Banks")
	require.NoError(t, c.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file renamed into place")
	assert.Equal(t, "names-de.json", entries[0].Name())

	reloaded := NewCache(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.Len())

	// a failed save leaves the previous file untouched
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0755) })
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	c.Set("01002", "Daisy Walker")
	assert.Error(t, c.Save())
	again := NewCache(path)
	require.NoError(t, again.Load())
	assert.Equal(t, 1, again.Len())
}

type countingLookup struct {
	calls int
	names map[string]string
}

func (l *countingLookup) Lookup(_ context.Context, id string) (string, error) {
	l.calls++
	if name, ok := l.names[id]; ok {
		return name, nil
	}
	return "", ErrNotFound
}

func TestServiceCachesSuccesses(t *testing.T) {
	lookup := &countingLookup{names: map[string]string{"01001": "Roland Banks"}}
	svc := NewService(lookup, nil)

	for i := 0; i < 3; i++ {
		name, err := svc.Name(context.Background(), "01001")
		require.NoError(t, err)
		assert.Equal(t, "Roland Banks", name)
	}
	assert.Equal(t, 1, lookup.calls)

	_, err := svc.Name(context.Background(), "01009")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Name(context.Background(), "01009")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, lookup.calls, "failures are not cached")

	offline := NewService(nil, svc.Cache())
	name, err := offline.Name(context.Background(), "01001")
	require.NoError(t, err)
	assert.Equal(t, "Roland Banks", name)
}
