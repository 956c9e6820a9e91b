// Package service wires the URL resolver, transcript cache, caption
// fetcher, and refiners into the request flow front ends call.
package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ytcapt/cache"
	"ytcapt/errors"
	"ytcapt/refine"
	"ytcapt/transcript"
	"ytcapt/validation"
	"ytcapt/ytdlp"
)

// Fetcher is the collaborator that talks to the video platform. The service
// owns the interface so tests can substitute a canned implementation.
type Fetcher interface {
	FetchCaptions(ctx context.Context, videoID, lang string) (*ytdlp.Result, error)
}

type Config struct {
	DefaultLang string
}

type Service struct {
	store   cache.Store
	fetcher Fetcher
	config  Config
}

func New(store cache.Store, fetcher Fetcher, cfg Config) *Service {
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "ko"
	}
	return &Service{store: store, fetcher: fetcher, config: cfg}
}

// Result carries everything a front end shows for one request. Lines is the
// cached pre-refinement transcript; Text is the refined output.
type Result struct {
	VideoID  string   `json:"video_id"`
	Title    string   `json:"title"`
	Language string   `json:"lang"`
	Lines    []string `json:"-"`
	Text     string   `json:"text"`
	Cached   bool     `json:"cached"`
}

// Transcript resolves the URL to a video ID and returns its refined
// transcript. The normalized transcript is served from the cache when a
// fresh entry exists; refinement always runs, so refiner improvements apply
// to cached videos too. force skips the cache read for this request, the
// fetched result is still written back.
func (s *Service) Transcript(ctx context.Context, rawURL, lang string, force bool) (*Result, error) {
	videoID, err := validation.ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = s.config.DefaultLang
	}

	log := logrus.WithFields(logrus.Fields{
		"video_id": videoID,
		"lang":     lang,
	})

	lines, title, cached := s.fromCache(ctx, videoID, lang, force, log)
	if !cached {
		lines, title, err = s.fetchAndStore(ctx, videoID, lang, log)
		if err != nil {
			return nil, err
		}
	}

	text, err := refine.Refine(lines, lang)
	if err != nil {
		return nil, err
	}

	return &Result{
		VideoID:  videoID,
		Title:    title,
		Language: lang,
		Lines:    lines,
		Text:     text,
		Cached:   cached,
	}, nil
}

// Purge removes every cache entry past the retention window.
func (s *Service) Purge(ctx context.Context) (int, error) {
	return s.store.PurgeExpired(ctx)
}

func (s *Service) fromCache(ctx context.Context, videoID, lang string, force bool, log *logrus.Entry) ([]string, string, bool) {
	if force {
		return nil, "", false
	}
	entry, err := s.store.Lookup(ctx, videoID, lang)
	if err != nil {
		if err != cache.ErrMiss {
			log.WithError(err).Warn("Cache lookup failed")
		}
		return nil, "", false
	}
	log.WithField("fetched_at", entry.FetchedAt).Debug("Serving transcript from cache")
	return entry.Lines, entry.Title, true
}

func (s *Service) fetchAndStore(ctx context.Context, videoID, lang string, log *logrus.Entry) ([]string, string, error) {
	const op = "service.fetchAndStore"

	log.Info("Fetching captions")
	res, err := s.fetcher.FetchCaptions(ctx, videoID, lang)
	if err != nil {
		log.WithError(err).Info("Caption fetch failed")
		return nil, "", errors.Unavailable(op, err, unavailableMessage(err, lang))
	}

	lines, err := transcript.Normalize(res.Captions)
	if err != nil {
		return nil, "", err
	}
	if len(lines) == 0 {
		return nil, "", errors.Parsing(op, nil,
			"the caption file was downloaded but no text could be extracted from it")
	}

	entry := &cache.Entry{
		VideoID:  videoID,
		Language: lang,
		Lines:    lines,
		Title:    res.Title,
	}
	if err := s.store.Put(ctx, entry); err != nil {
		// A failed write only costs the next request a refetch.
		log.WithError(err).Warn("Failed to cache transcript")
	}

	return lines, res.Title, nil
}

// unavailableMessage translates collaborator failures into the user-facing
// cause. The collaborator's own error stays attached underneath for logs.
func unavailableMessage(err error, lang string) string {
	switch {
	case errors.Is(err, ytdlp.ErrNoCaptions):
		return fmt.Sprintf("no auto-captions found for language %q", lang)
	case errors.Is(err, ytdlp.ErrNoSRTFormat):
		return fmt.Sprintf("could not find an SRT caption track for language %q", lang)
	case errors.Is(err, ytdlp.ErrAccessDenied):
		return "access denied: YouTube blocked the request, requiring sign-in to confirm you are not a bot"
	case errors.Is(err, ytdlp.ErrRateLimited):
		return fmt.Sprintf("the requested language %q is likely unavailable from your current address right now due to rate limiting", lang)
	case errors.Is(err, ytdlp.ErrVideoGone):
		return "the video does not exist or is no longer available"
	case errors.Is(err, ytdlp.ErrNotInstalled):
		return "yt-dlp is not installed or not on PATH"
	default:
		return "could not download captions for the video"
	}
}
