package refine

import (
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
)

// DetectLanguage guesses the dominant language of the caption lines by
// majority vote with one detection per line; a single vote over the joined
// text is too easily swayed by quoted foreign phrases. Returns an ISO 639-1
// code, or "" when nothing can be decided.
func DetectLanguage(lines []string) string {
	votes := make(map[string]int)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		detected := whatlanggo.DetectLang(line)
		code := detected.Iso6391()
		if code == "" {
			code = baseCode(detected.Iso6393())
		}
		if code != "" {
			votes[code]++
		}
	}

	var (
		top      string
		topCount int
	)
	for code, count := range votes {
		if count > topCount {
			top, topCount = code, count
		}
	}
	return top
}

// baseCode maps an ISO 639-3 code onto its two-letter base tag where x/text
// knows one; some languages only carry the three-letter form.
func baseCode(iso3 string) string {
	if iso3 == "" {
		return ""
	}
	tag, err := language.Parse(iso3)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}
