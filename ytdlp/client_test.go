package ytdlp

import (
	"encoding/json"
	"testing"
	"time"
)

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{
			name:   "bot check",
			stderr: "ERROR: [youtube] abc: Sign in to confirm you’re not a bot.",
			want:   ErrAccessDenied,
		},
		{
			name:   "bot check with ascii apostrophe",
			stderr: "ERROR: Sign in to confirm you're not a bot. Use --cookies",
			want:   ErrAccessDenied,
		},
		{
			name:   "sign in required",
			stderr: "ERROR: Please sign in to view this video",
			want:   ErrAccessDenied,
		},
		{
			name:   "http 429",
			stderr: "ERROR: unable to download webpage: HTTP Error 429: Too Many Requests",
			want:   ErrRateLimited,
		},
		{
			name:   "video removed",
			stderr: "ERROR: [youtube] abc: Video unavailable. This video has been removed",
			want:   ErrVideoGone,
		},
		{
			name:   "unrecognized",
			stderr: "ERROR: something entirely different",
			want:   nil,
		},
		{
			name:   "empty",
			stderr: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStderr(tt.stderr); got != tt.want {
				t.Errorf("classifyStderr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCaptionTracks(t *testing.T) {
	raw := `{
		"id": "dQw4w9WgXcQ",
		"title": "Test Video",
		"automatic_captions": {
			"ko": [
				{"ext": "vtt", "url": "https://example.com/ko.vtt"},
				{"ext": "srt", "url": "https://example.com/ko.srt"}
			]
		},
		"subtitles": {
			"en": [
				{"ext": "srt", "url": "https://example.com/en.srt"}
			],
			"ko": [
				{"ext": "srt", "url": "https://example.com/manual-ko.srt"}
			]
		}
	}`

	var info videoInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		t.Fatalf("Unmarshal() returned error: %v", err)
	}

	// Auto captions win over manual subtitles for the same language.
	tracks, ok := info.captionTracks("ko")
	if !ok {
		t.Fatalf("expected tracks for ko")
	}
	if got := srtURL(tracks); got != "https://example.com/ko.srt" {
		t.Errorf("srtURL() = %q, want the auto caption track", got)
	}

	// Manual subtitles are the fallback when no auto track exists.
	tracks, ok = info.captionTracks("en")
	if !ok {
		t.Fatalf("expected tracks for en")
	}
	if got := srtURL(tracks); got != "https://example.com/en.srt" {
		t.Errorf("srtURL() = %q, want the manual subtitle track", got)
	}

	if _, ok := info.captionTracks("fr"); ok {
		t.Errorf("expected no tracks for fr")
	}
}

func TestSRTURLRequiresSRTFormat(t *testing.T) {
	tracks := []captionTrack{
		{Ext: "vtt", URL: "https://example.com/a.vtt"},
		{Ext: "json3", URL: "https://example.com/a.json3"},
	}
	if got := srtURL(tracks); got != "" {
		t.Errorf("srtURL() = %q, want empty for a list without srt", got)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})

	if c.config.Path != "yt-dlp" {
		t.Errorf("expected default path yt-dlp, got %s", c.config.Path)
	}
	if c.config.Timeout != 2*time.Minute {
		t.Errorf("expected default timeout 2m, got %s", c.config.Timeout)
	}
	if c.config.Rate != 1 {
		t.Errorf("expected default rate 1, got %f", c.config.Rate)
	}
	if c.config.Burst != 1 {
		t.Errorf("expected default burst 1, got %d", c.config.Burst)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"one line", "one line"},
		{"first\nsecond\nthird", "first"},
		{"  padded  \nrest", "padded"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
