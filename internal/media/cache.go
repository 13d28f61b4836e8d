// Package media resolves profile media references into sendable payloads,
// preferring cached Telegram file handles over network fetches.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kolotov/svahabot/internal/database"
)

const (
	defaultFetchTimeout = 10 * time.Second

	// maxFetchSize caps how many bytes a source URL fetch will read.
	maxFetchSize = 10 * 1024 * 1024
)

// Resolved is one media ref turned into something sendable. When the ref had
// a cached handle, Handle is set and no bytes were moved. When it had to be
// fetched, Data and MIME carry the payload and Fetched is true so the caller
// knows a fresh handle should be written back after sending.
type Resolved struct {
	Kind    string
	Handle  string
	Data    []byte
	MIME    string
	Fetched bool
}

// Cache resolves media refs and persists hydrated handles.
type Cache struct {
	store        database.Store
	client       *http.Client
	fetchTimeout time.Duration
	logger       *slog.Logger
}

// NewCache creates a media cache backed by the given store. fetchTimeout
// bounds each source URL fetch; zero selects the default.
func NewCache(store database.Store, fetchTimeout time.Duration, logger *slog.Logger) *Cache {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{
		store:        store,
		client:       http.DefaultClient,
		fetchTimeout: fetchTimeout,
		logger:       logger.With("component", "media"),
	}
}

// Resolve turns a media ref into a sendable payload. A ref with a handle
// resolves immediately without any I/O. A handleless ref is fetched from its
// source URL within the cache's timeout.
func (c *Cache) Resolve(ctx context.Context, ref database.MediaRef) (*Resolved, error) {
	if ref.Handle != "" {
		return &Resolved{
			Kind:   ref.NormalizedKind(),
			Handle: ref.Handle,
		}, nil
	}

	if ref.SourceURL == "" {
		return nil, fmt.Errorf("media ref has neither handle nor source URL")
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("context cancelled before media fetch: %w", ctx.Err())
	}

	data, mimeType, err := c.fetch(ctx, ref.SourceURL)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Kind:    ref.NormalizedKind(),
		Data:    data,
		MIME:    mimeType,
		Fetched: true,
	}, nil
}

// fetch downloads the payload at rawURL, bounded in time and size.
func (c *Cache) fetch(ctx context.Context, rawURL string) (data []byte, mimeType string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("invalid media source URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, "", fmt.Errorf("unsupported media source scheme %q", parsed.Scheme)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create HTTP request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch media from %s: %w", rawURL, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body from %s: %w", rawURL, closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", fmt.Errorf("unexpected status code %d from %s: %s",
			resp.StatusCode, rawURL, string(bodyBytes))
	}

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read media data from %s: %w", rawURL, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("received empty media data from %s", rawURL)
	}

	mimeType = http.DetectContentType(data)

	c.logger.DebugContext(ctx, "Fetched media from source URL",
		"url", rawURL, "bytes", len(data), "mime", mimeType)
	return data, mimeType, nil
}

// WriteBack persists hydrated refs so the next render hits their handles
// instead of the network. Callers pass the full ref list with handles filled
// in where sends succeeded.
func (c *Cache) WriteBack(ctx context.Context, userID int64, refs database.MediaRefs) error {
	if err := c.store.UpdateMediaRefs(ctx, userID, refs); err != nil {
		return fmt.Errorf("failed to write back hydrated media refs: %w", err)
	}
	c.logger.DebugContext(ctx, "Hydrated media refs written back", "user_id", userID, "count", len(refs))
	return nil
}
