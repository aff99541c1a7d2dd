package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
)

// ErrFilesystemConflict marks a download target whose parent path is already
// occupied by a regular file.
var ErrFilesystemConflict = errors.New("download path occupied by a file")

// Downloader materializes remote URLs as files under the mirror root.
type Downloader struct {
	client Getter
	root   string
	logger *zap.Logger
}

// NewDownloader returns a Downloader rooted at dir.
func NewDownloader(client Getter, root string, logger *zap.Logger) *Downloader {
	return &Downloader{
		client: client,
		root:   root,
		logger: logger,
	}
}

// Abs converts a mirror-relative path like /images/x.png into the on-disk
// location under the output root.
func (d *Downloader) Abs(localPath string) string {
	return filepath.Join(d.root, filepath.FromSlash(strings.TrimPrefix(localPath, "/")))
}

// Download fetches url and writes its body to localPath, creating parent
// directories as needed. Failures are returned for the caller to log and
// skip; they never abort the surrounding phase.
func (d *Downloader) Download(ctx context.Context, rawURL, localPath string) error {
	resp, err := d.client.Get(ctx, rawURL)
	if err != nil {
		downloadErrors.Inc()
		return fmt.Errorf("get %s: %w", rawURL, err)
	}

	target := d.Abs(localPath)
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		downloadErrors.Inc()
		if errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf("%w: %s", ErrFilesystemConflict, dir)
		}
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	if err := os.WriteFile(target, resp.Body, 0o600); err != nil {
		downloadErrors.Inc()
		return fmt.Errorf("write %s: %w", target, err)
	}

	downloadsTotal.Inc()
	d.logger.Debug("downloaded",
		zap.String("url", rawURL),
		zap.String("path", localPath),
		zap.Int("bytes", len(resp.Body)),
	)
	return nil
}
