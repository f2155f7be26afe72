// internal/toolchain/feed.go
package toolchain

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"raceward/internal/core/domain"
	"raceward/internal/core/ports"
	"raceward/internal/platform/errors"
)

// feedDocument is the on-the-wire shape of a version feed.
//
//	versions:
//	  - version: nightly-2026-08-28
//	    interpreter: true
//	  - version: nightly-2026-08-29
//	    interpreter: false
type feedDocument struct {
	Versions []domain.ToolchainIdentity `yaml:"versions"`
}

// FileFeed reads a version feed from a local file.
type FileFeed struct {
	path string
}

// NewFileFeed creates a feed backed by the given file path.
func NewFileFeed(path string) *FileFeed {
	return &FileFeed{path: path}
}

// Versions implements ports.VersionFeed.
func (f *FileFeed) Versions(_ context.Context) ([]domain.ToolchainIdentity, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrFeedUnavailable, err), "reading feed file %s", f.path)
	}
	return decodeFeed(data)
}

// HTTPFeed reads a version feed from an HTTP endpoint.
type HTTPFeed struct {
	url    string
	client *http.Client
}

// NewHTTPFeed creates a feed backed by the given URL.
func NewHTTPFeed(url string) *HTTPFeed {
	return &HTTPFeed{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Versions implements ports.VersionFeed.
func (f *HTTPFeed) Versions(ctx context.Context) ([]domain.ToolchainIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrFeedUnavailable, err), "building feed request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.Join(errors.ErrFeedUnavailable, err), "querying feed %s", f.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrFeedUnavailable, "feed %s returned status %d", f.url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrFeedUnavailable, err), "reading feed response")
	}
	return decodeFeed(data)
}

// OpenFeed picks the feed implementation for a location string: http(s) URLs
// get the HTTP feed, everything else is treated as a file path.
func OpenFeed(location string) ports.VersionFeed {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPFeed(location)
	}
	return NewFileFeed(location)
}

func decodeFeed(data []byte) ([]domain.ToolchainIdentity, error) {
	var doc feedDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.Join(errors.ErrFeedUnavailable, err), "decoding feed document")
	}
	return doc.Versions, nil
}
