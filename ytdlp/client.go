// Package ytdlp drives the yt-dlp executable to look up caption tracks and
// download them. It knows nothing about caching or refinement; it fetches
// bytes and classifies failures.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Config struct {
	// Path to the yt-dlp executable, resolved via PATH when relative.
	Path string
	// Timeout bounds one metadata probe or one track download.
	Timeout time.Duration
	// Rate and Burst shape outbound requests. YouTube answers bursts of
	// caption requests with 429 lockouts that last hours, so the default
	// is deliberately slow.
	Rate  float64
	Burst int
}

// Client fetches captions for single videos. A metadata probe and a track
// download share one limiter, so the two requests a cache miss costs are
// spaced like any other pair.
type Client struct {
	config  Config
	limiter *rate.Limiter
	http    *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Path == "" {
		cfg.Path = "yt-dlp"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &Client{
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.Rate), cfg.Burst),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// FetchCaptions returns the SRT payload and title for a video, or a typed
// error when the platform will not produce one.
func (c *Client) FetchCaptions(ctx context.Context, videoID, lang string) (*Result, error) {
	info, err := c.dumpInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks, ok := info.captionTracks(lang)
	if !ok {
		return nil, errors.Wrapf(ErrNoCaptions, "language %q", lang)
	}
	trackURL := srtURL(tracks)
	if trackURL == "" {
		return nil, errors.Wrapf(ErrNoSRTFormat, "language %q", lang)
	}

	captions, err := c.download(ctx, trackURL)
	if err != nil {
		return nil, err
	}

	title := info.Title
	if title == "" {
		title = "Untitled"
	}
	return &Result{Captions: captions, Title: title}, nil
}

// dumpInfo runs yt-dlp against the canonical watch URL for the video and
// decodes its single-video JSON.
func (c *Client) dumpInfo(ctx context.Context, videoID string) (*videoInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.config.Path,
		"--dump-single-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"https://www.youtube.com/watch?v="+videoID,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"path":     c.config.Path,
	}).Debug("Probing caption metadata")

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ErrNotInstalled
		}
		if classified := classifyStderr(stderr.String()); classified != nil {
			return nil, classified
		}
		return nil, errors.Wrapf(err, "yt-dlp failed: %s", firstLine(stderr.String()))
	}

	var info videoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, errors.Wrap(err, "decoding yt-dlp output")
	}
	return &info, nil
}

// download fetches one caption track over plain HTTP. The track URLs in the
// info JSON are short-lived and signed; they need no further authentication
// but also cannot be cached.
func (c *Client) download(ctx context.Context, trackURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building caption request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "downloading captions")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrAccessDenied
	case resp.StatusCode != http.StatusOK:
		return nil, errors.Errorf("caption download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading caption response")
	}
	return data, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
