// Package upload delivers finished videos to their destination and returns a
// publicly resolvable URL. Delivery failures are reported distinctly from
// processing failures: the artifact exists and can be recovered out-of-band
// from the operator's side.
package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/reelsmith/reelsmith/internal/config"
)

// Uploader pushes one local file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, localPath, filename string) (string, error)
}

// FromConfig constructs the configured backend. Missing credentials for the
// HTTP backend are a configuration error surfaced before any processing.
func FromConfig(cfg *config.Config) (Uploader, error) {
	switch cfg.Backend {
	case config.UploadHTTP:
		if cfg.UploadEndpoint == "" {
			return nil, fmt.Errorf("upload backend 'http' requires %s", config.EnvUploadEndpoint)
		}
		if cfg.UploadToken == "" {
			return nil, fmt.Errorf("upload backend 'http' requires %s", config.EnvUploadToken)
		}
		return &HTTPUploader{
			Endpoint: cfg.UploadEndpoint,
			Token:    cfg.UploadToken,
			BaseURL:  cfg.UploadBaseURL,
			Client:   &http.Client{Timeout: 2 * time.Minute},
		}, nil
	case config.UploadLocal:
		return &LocalUploader{Dir: cfg.LocalOut}, nil
	default:
		return nil, fmt.Errorf("unknown upload backend %q", cfg.Backend)
	}
}

// HTTPUploader PUTs the artifact to an object-storage gateway with bearer
// auth. The public URL is BaseURL joined with the filename.
type HTTPUploader struct {
	Endpoint string
	Token    string
	BaseURL  string
	Client   *http.Client
}

// Upload streams localPath to Endpoint/filename.
func (u *HTTPUploader) Upload(ctx context.Context, localPath, filename string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat artifact: %w", err)
	}

	target, err := url.JoinPath(u.Endpoint, filename)
	if err != nil {
		return "", fmt.Errorf("build upload URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, f)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+u.Token)
	req.Header.Set("Content-Type", "video/mp4")
	req.ContentLength = fi.Size()

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload to %s: status %s: %s", target, resp.Status, strings.TrimSpace(string(body)))
	}

	public, err := url.JoinPath(u.BaseURL, filename)
	if err != nil {
		return "", fmt.Errorf("build public URL: %w", err)
	}
	return public, nil
}

// LocalUploader copies the artifact into a directory and returns a file://
// URL. Used by one-shot CLI renders and in development.
type LocalUploader struct {
	Dir string
}

// Upload copies localPath into Dir/filename.
func (u *LocalUploader) Upload(_ context.Context, localPath, filename string) (string, error) {
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer src.Close()

	destPath := filepath.Join(u.Dir, filename)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", destPath, err)
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("copy artifact: %w", err)
	}
	if err := dest.Close(); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(destPath)
	if err != nil {
		return "", err
	}
	return "file://" + abs, nil
}
