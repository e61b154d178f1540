package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	lockRetryDelay   = 200 * time.Millisecond
	dirPermissions   = 0o750
)

// Background resolves the background track, downloading it once into a
// local cache file.
type Background struct {
	url       string
	cachePath string
	client    *http.Client
	logger    *slog.Logger
}

// NewBackground wires the download source and cache location.
func NewBackground(url, cachePath string, timeout time.Duration, log *slog.Logger) *Background {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Background{
		url:       url,
		cachePath: cachePath,
		client:    &http.Client{Timeout: timeout},
		logger:    log,
	}
}

// Resolve returns the cache path, downloading the asset if it is missing.
func (b *Background) Resolve(ctx context.Context) (string, error) {
	if b.cachePath == "" {
		return "", fmt.Errorf("%w: cache path not configured", ErrBackgroundFetch)
	}
	if cached(b.cachePath) {
		return b.cachePath, nil
	}
	if b.url == "" {
		return "", fmt.Errorf("%w: background url not configured", ErrBackgroundFetch)
	}

	if err := os.MkdirAll(filepath.Dir(b.cachePath), dirPermissions); err != nil {
		return "", fmt.Errorf("%w: create cache dir: %v", ErrBackgroundFetch, err)
	}

	lock := flock.New(b.cachePath + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", fmt.Errorf("%w: lock cache: %v", ErrBackgroundFetch, err)
	}
	if !locked {
		return "", fmt.Errorf("%w: cache lock not acquired", ErrBackgroundFetch)
	}
	defer func() { _ = lock.Unlock() }()

	// another process may have finished the download while we waited
	if cached(b.cachePath) {
		return b.cachePath, nil
	}

	if b.logger != nil {
		b.logger.Info("downloading background track", "url", b.url, "cache", b.cachePath)
	}
	if err := b.download(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackgroundFetch, err)
	}
	return b.cachePath, nil
}

func (b *Background) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request background: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("background returned %s", resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.cachePath), ".background-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil {
		return fmt.Errorf("write background: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close background: %w", closeErr)
	}
	if written == 0 {
		return errors.New("background body is empty")
	}

	if err := os.Rename(tmpName, b.cachePath); err != nil {
		return fmt.Errorf("persist background: %w", err)
	}
	return nil
}

func cached(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
