package tind

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"github.com/custodia-labs/willa/internal/core/domain"
)

// downloadPathRegex matches .../record/{id}/files/{name}/download[/].
var downloadPathRegex = regexp.MustCompile(`/record/([^/]+)/files/([^/]+)/download/?$`)

// dispositionRegex extracts the filename from a Content-Disposition header.
var dispositionRegex = regexp.MustCompile(`filename="(.+)"`)

// ParseDownloadURL validates a file download URL and returns its record ID
// and file name.
func ParseDownloadURL(rawURL string) (recordID, name string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", "", fmt.Errorf("%w: %s", domain.ErrInvalidDownloadURL, rawURL)
	}
	m := downloadPathRegex.FindStringSubmatch(u.EscapedPath())
	if m == nil {
		return "", "", fmt.Errorf("%w: %s", domain.ErrInvalidDownloadURL, rawURL)
	}
	recordID, _ = url.PathUnescape(m[1])
	name, _ = url.PathUnescape(m[2])
	return recordID, name, nil
}

// FetchFile downloads url into destDir and returns the saved path.
// The saved name comes from Content-Disposition when present, otherwise
// from the file segment of the URL. An existing file is never replaced:
// the collision fails with a *domain.StorageError wrapping fs.ErrExist.
func (c *Client) FetchFile(ctx context.Context, rawURL, destDir string) (string, error) {
	recordID, name, err := ParseDownloadURL(rawURL)
	if err != nil {
		return "", err
	}

	resp, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: file %s of record %s", domain.ErrRecordNotFound, name, recordID)
	case resp.StatusCode != http.StatusOK:
		return "", readError(resp)
	}

	if fromHeader := filenameFromDisposition(resp.Header.Get("Content-Disposition")); fromHeader != "" {
		name = fromHeader
	}
	name = safeName(name)
	if name == "" {
		return "", fmt.Errorf("%w: no file name in %s", domain.ErrInvalidDownloadURL, rawURL)
	}

	path := filepath.Join(destDir, name)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &domain.StorageError{Path: path, Err: err}
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(path)
		return "", &domain.StorageError{Path: path, Err: err}
	}
	if err := out.Close(); err != nil {
		return "", &domain.StorageError{Path: path, Err: err}
	}

	return path, nil
}

// filenameFromDisposition returns the quoted filename, or "" unless
// exactly one is present.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	matches := dispositionRegex.FindAllStringSubmatch(header, -1)
	if len(matches) != 1 {
		return ""
	}
	return matches[0][1]
}

// safeName strips any directory part so a file can never escape destDir.
func safeName(name string) string {
	base := filepath.Base(filepath.Clean("/" + name))
	if base == "/" || base == "." {
		return ""
	}
	return base
}
