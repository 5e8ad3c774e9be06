package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ContentType is the include type announced by a server.
type ContentType int

const (
	TypeUnknown ContentType = iota
	TypeImage
	TypeSvg
	TypeMarkdown
	TypePDF
)

// maxDownloadSize caps a single remote include.
const maxDownloadSize = 64 << 20

// defaultFetchTimeout bounds one download when the context has no deadline.
const defaultFetchTimeout = 30 * time.Second

// Download is a remote resource stored in the cache.
type Download struct {
	Path string
	Type ContentType
}

// Fetcher downloads remote includes into a cache directory.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher creates a Fetcher caching into dir. A nil client uses a client
// with a default timeout.
func NewFetcher(dir string, client *http.Client) (*Fetcher, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}
	return &Fetcher{client: client, cacheDir: dir}, nil
}

// Fetch downloads u into the cache. The cache file name is derived from the
// URL, so a refetch overwrites the previous copy.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (Download, error) {
	sum := sha256.Sum256([]byte(u.String()))
	name := hex.EncodeToString(sum[:16]) + strings.ToLower(path.Ext(u.Path))
	dest := filepath.Join(f.cacheDir, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Download{}, newError(ErrDownload, "error downloading content", "cause: "+err.Error())
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return Download{}, newError(ErrDownload, "error downloading content", "cause: "+err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Download{}, newError(ErrDownload, "error downloading content",
			fmt.Sprintf("server answered %s", resp.Status))
	}

	file, err := os.Create(dest) // #nosec G304 -- name is a hash inside the cache dir
	if err != nil {
		return Download{}, newError(ErrCacheWrite, "error writing downloaded content to cache",
			"cause: "+err.Error(), "file: "+dest)
	}
	_, copyErr := io.Copy(file, io.LimitReader(resp.Body, maxDownloadSize))
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		cause := copyErr
		if cause == nil {
			cause = closeErr
		}
		return Download{}, newError(ErrCacheWrite, "error writing downloaded content to cache",
			"cause: "+cause.Error(), "file: "+dest)
	}

	return Download{Path: dest, Type: contentTypeOf(resp.Header.Get("Content-Type"))}, nil
}

// contentTypeOf classifies a Content-Type header value.
func contentTypeOf(header string) ContentType {
	mt, _, err := mime.ParseMediaType(header)
	if err != nil {
		return TypeUnknown
	}
	switch {
	case mt == "image/svg+xml":
		return TypeSvg
	case mt == "image/png", mt == "image/jpeg":
		return TypeImage
	case mt == "text/markdown", mt == "text/x-markdown":
		return TypeMarkdown
	case mt == "application/pdf":
		return TypePDF
	default:
		return TypeUnknown
	}
}
