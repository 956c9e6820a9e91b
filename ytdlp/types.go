package ytdlp

// Result is the collaborator's answer: the raw SRT caption payload plus the
// video title for cache metadata.
type Result struct {
	Captions []byte
	Title    string
}

// videoInfo is the slice of yt-dlp's --dump-single-json output this client
// reads. Caption tracks are keyed by language code; each language offers
// the same captions in several formats.
type videoInfo struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	AutomaticCaptions map[string][]captionTrack `json:"automatic_captions"`
	Subtitles         map[string][]captionTrack `json:"subtitles"`
}

type captionTrack struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// captionTracks returns the track list for lang. Machine-generated captions
// are preferred; manually uploaded subtitles are the fallback.
func (v *videoInfo) captionTracks(lang string) ([]captionTrack, bool) {
	if tracks, ok := v.AutomaticCaptions[lang]; ok && len(tracks) > 0 {
		return tracks, true
	}
	if tracks, ok := v.Subtitles[lang]; ok && len(tracks) > 0 {
		return tracks, true
	}
	return nil, false
}

// srtURL picks the SRT-format track out of a track list.
func srtURL(tracks []captionTrack) string {
	for _, t := range tracks {
		if t.Ext == "srt" && t.URL != "" {
			return t.URL
		}
	}
	return ""
}
