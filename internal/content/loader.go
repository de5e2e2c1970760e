// Package content implements the read side of the blog: it loads the
// collection document, normalizes every post, and answers queries from an
// in-memory, session-lifetime cache.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Loader fetches the raw bytes of the collection document.
type Loader interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileLoader reads the document from the serving location on disk.
type FileLoader struct {
	Path string
}

// Load returns the file contents.
func (l *FileLoader) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", l.Path, err)
	}
	return data, nil
}

// HTTPLoader fetches the document from a remote URL.
type HTTPLoader struct {
	URL    string
	Client *http.Client
}

// Load issues a GET request for the document, bypassing intermediary caches.
func (l *HTTPLoader) Load(ctx context.Context) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("content: build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content: fetch %s: %w", l.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("content: fetch %s: status %d", l.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("content: read body: %w", err)
	}
	return data, nil
}
