// Package noaa downloads and parses the NOAA storm events dataset.
package noaa

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-impact-report/internal/config"
	"github.com/couchcryptid/storm-impact-report/internal/domain"
)

// Client fetches the storm events CSV, keeping a local cached copy so
// repeated runs skip the download. It implements pipeline.DatasetFetcher.
type Client struct {
	http      *resty.Client
	url       string
	cachePath string
	maxAge    time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
}

// NewClient creates a dataset client from config.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		http:      resty.New().SetTimeout(cfg.DownloadTimeout),
		url:       cfg.DatasetURL,
		cachePath: cfg.CachePath,
		maxAge:    cfg.CacheMaxAge,
		clock:     clockwork.NewRealClock(),
		logger:    logger,
	}
}

// Fetch returns all event records, downloading the dataset unless a usable
// cached copy exists. A failed download falls back to a stale cached copy
// with a warning; with no cache at all it is fatal.
func (c *Client) Fetch(ctx context.Context) ([]domain.EventRecord, error) {
	if c.cacheUsable() {
		c.logger.Info("using cached dataset", "path", c.cachePath)
		return c.parseFile(c.cachePath)
	}

	if err := c.download(ctx); err != nil {
		if _, statErr := os.Stat(c.cachePath); statErr == nil {
			c.logger.Warn("download failed, falling back to cached copy",
				"url", c.url, "path", c.cachePath, "error", err)
			return c.parseFile(c.cachePath)
		}
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}

	return c.parseFile(c.cachePath)
}

// cacheUsable reports whether the cached file exists and, when a max age is
// configured, is still fresh. Max age 0 means a cached copy never expires.
func (c *Client) cacheUsable() bool {
	info, err := os.Stat(c.cachePath)
	if err != nil {
		return false
	}
	if c.maxAge == 0 {
		return true
	}
	return c.clock.Since(info.ModTime()) <= c.maxAge
}

// download fetches the dataset to a temp file and renames it into place, so
// an interrupted download never leaves a truncated cache behind.
func (c *Client) download(ctx context.Context) error {
	if dir := filepath.Dir(c.cachePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	tmp := c.cachePath + ".download"
	c.logger.Info("downloading dataset", "url", c.url)

	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(tmp).
		Get(c.url)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("download %s: %w", c.url, err)
	}
	if resp.IsError() {
		os.Remove(tmp)
		return fmt.Errorf("download %s: unexpected status %d", c.url, resp.StatusCode())
	}

	if err := os.Rename(tmp, c.cachePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("store cache: %w", err)
	}

	c.logger.Info("dataset cached", "path", c.cachePath, "bytes", resp.Size())
	return nil
}

func (c *Client) parseFile(path string) ([]domain.EventRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	records, err := parseDataset(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
