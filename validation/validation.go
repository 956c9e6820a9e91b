// Package validation resolves YouTube URLs to the 11-character video ID
// that keys the cache and the caption fetch.
package validation

import (
	"regexp"

	"ytcapt/errors"
)

// videoIDPattern matches the URL shapes that embed a video ID: watch?v=,
// youtu.be/, embed/ and shorts/ paths. The ID alphabet is fixed at eleven
// characters of [A-Za-z0-9_-].
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|embed/|shorts/)([A-Za-z0-9_-]{11})`)

// ExtractVideoID pulls the video ID out of a YouTube URL. The ID is used
// verbatim as the cache key and in the canonical watch URL; it is never
// normalized or checked against the network.
func ExtractVideoID(rawURL string) (string, error) {
	const op = "validation.ExtractVideoID"

	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", errors.InvalidURL(op, nil,
			"could not parse a valid YouTube video ID from the URL; only standard YouTube links are supported")
	}
	return m[1], nil
}
