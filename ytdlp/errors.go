package ytdlp

import (
	"errors"
	"strings"
)

// Typed failures for callers to translate into user-facing messages. None
// of them leak yt-dlp's own formatting.
var (
	ErrNotInstalled = errors.New("yt-dlp executable not found")
	ErrVideoGone    = errors.New("video does not exist or is no longer available")
	ErrAccessDenied = errors.New("access denied pending a sign-in check")
	ErrRateLimited  = errors.New("too many caption requests")
	ErrNoCaptions   = errors.New("no captions available")
	ErrNoSRTFormat  = errors.New("no SRT format track available")
)

// classifyStderr maps yt-dlp's failure text onto the typed errors above.
// The substrings mirror the messages yt-dlp emits for bot checks and HTTP
// 429 lockouts; anything unrecognized returns nil and is reported verbatim
// by the caller.
func classifyStderr(stderr string) error {
	switch {
	case strings.Contains(stderr, "confirm you're not a bot"),
		strings.Contains(stderr, "confirm you’re not a bot"),
		strings.Contains(stderr, "Please sign in"):
		return ErrAccessDenied
	case strings.Contains(stderr, "429"),
		strings.Contains(stderr, "Too Many Requests"):
		return ErrRateLimited
	case strings.Contains(stderr, "Video unavailable"),
		strings.Contains(stderr, "This video is not available"),
		strings.Contains(stderr, "has been removed"):
		return ErrVideoGone
	}
	return nil
}
