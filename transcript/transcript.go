// Package transcript turns raw caption files into plain text lines.
package transcript

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"ytcapt/errors"
)

// blockSplit matches the blank line between caption blocks, CRLF tolerant.
var blockSplit = regexp.MustCompile(`\r?\n\r?\n`)

// Normalize converts SRT-style caption data into the ordered list of text
// lines the cache stores and the refiners consume. Each block contributes
// one line: the index and timing lines are dropped, the remaining lines are
// joined with spaces, and ">>" speaker markers are stripped. Auto-caption
// systems repeat the previous text while the next line scrolls in, so a
// line identical to the previously kept one is dropped; repeats further
// apart are legitimate speech and are kept.
//
// An empty result is not an error. Captions that exist but carry no text
// are the caller's problem to report.
func Normalize(raw []byte) ([]string, error) {
	const op = "transcript.Normalize"

	if !utf8.Valid(raw) {
		return nil, errors.Parsing(op, nil, "caption data is not valid UTF-8 text")
	}

	var (
		lines []string
		last  string
	)
	for _, block := range blockSplit.Split(strings.TrimSpace(string(raw)), -1) {
		blockLines := splitBlock(block)
		if len(blockLines) < 3 {
			continue
		}
		text := strings.Join(blockLines[2:], " ")
		text = strings.TrimSpace(strings.ReplaceAll(text, ">>", ""))
		if text == "" || text == last {
			continue
		}
		lines = append(lines, text)
		last = text
	}
	return lines, nil
}

func splitBlock(block string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		out = append(out, strings.TrimRight(line, "\r"))
	}
	return out
}
