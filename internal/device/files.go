package device

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
)

// LocalFiles reads evidence from the local filesystem. URIs may be plain
// paths or file:// URLs.
type LocalFiles struct{}

func (LocalFiles) ReadAsBase64(ctx context.Context, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, err := LocalPath(uri)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", uri, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// LocalPath converts a file:// URI to a path; anything else is returned as is.
func LocalPath(uri string) (string, error) {
	if !strings.HasPrefix(uri, "file://") {
		return uri, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid file uri %q: %w", uri, err)
	}
	return u.Path, nil
}

// FileName is the last path segment of a URI.
func FileName(uri string) string {
	if i := strings.IndexAny(uri, "?#"); i >= 0 && strings.Contains(uri, "://") {
		uri = uri[:i]
	}
	return path.Base(strings.ReplaceAll(uri, "\\", "/"))
}
