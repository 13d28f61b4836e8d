package media_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kolotov/svahabot/internal/database"
	"github.com/kolotov/svahabot/internal/media"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveHandleHitSkipsNetwork(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cache := media.NewCache(nil, time.Second, discardLogger())

	// Handle and URL both present: the handle must win without any request.
	ref := database.MediaRef{
		Kind:      database.MediaKindPhoto,
		Handle:    "file-cached",
		SourceURL: srv.URL,
	}

	resolved, err := cache.Resolve(context.Background(), ref)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if resolved.Handle != "file-cached" {
		t.Errorf("Handle = %q, want %q", resolved.Handle, "file-cached")
	}
	if resolved.Fetched {
		t.Error("handle hit must not be marked as fetched")
	}
	if len(resolved.Data) != 0 {
		t.Errorf("handle hit carried %d payload bytes, want 0", len(resolved.Data))
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("handle hit touched the network %d times", hits)
	}
}

func TestResolveFetchesSourceURL(t *testing.T) {
	t.Parallel()

	payload := []byte("\x89PNG\r\n\x1a\nfakeimagedata")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write(payload); err != nil {
			t.Errorf("test server write failed: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	cache := media.NewCache(nil, time.Second, discardLogger())

	resolved, err := cache.Resolve(context.Background(), database.MediaRef{
		Kind:      database.MediaKindPhoto,
		SourceURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !resolved.Fetched {
		t.Error("URL resolution must be marked as fetched")
	}
	if string(resolved.Data) != string(payload) {
		t.Errorf("Data = %q, want original payload", resolved.Data)
	}
	if resolved.MIME != "image/png" {
		t.Errorf("MIME = %q, want image/png", resolved.MIME)
	}
	if resolved.Handle != "" {
		t.Errorf("fetched ref has no handle yet, got %q", resolved.Handle)
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	errorSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(errorSrv.Close)

	emptySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(emptySrv.Close)

	tests := []struct {
		name string
		ref  database.MediaRef
	}{
		{
			name: "no handle and no url",
			ref:  database.MediaRef{Kind: database.MediaKindPhoto},
		},
		{
			name: "unsupported scheme",
			ref:  database.MediaRef{Kind: database.MediaKindPhoto, SourceURL: "ftp://example.com/pic"},
		},
		{
			name: "non-200 response",
			ref:  database.MediaRef{Kind: database.MediaKindPhoto, SourceURL: errorSrv.URL},
		},
		{
			name: "empty body",
			ref:  database.MediaRef{Kind: database.MediaKindPhoto, SourceURL: emptySrv.URL},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache := media.NewCache(nil, time.Second, discardLogger())
			if _, err := cache.Resolve(context.Background(), tt.ref); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestResolveFetchTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	cache := media.NewCache(nil, 50*time.Millisecond, discardLogger())

	start := time.Now()
	_, err := cache.Resolve(context.Background(), database.MediaRef{
		Kind:      database.MediaKindPhoto,
		SourceURL: srv.URL,
	})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if elapsed > 2*time.Second {
		t.Errorf("fetch took %v, timeout did not bound it", elapsed)
	}
}
