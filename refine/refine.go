// Package refine turns flat caption lines into readable, punctuated
// sentences. Each supported language registers a Strategy; languages
// without one get the punctuation-based default.
package refine

import (
	"fmt"
	"regexp"
	"strings"

	"ytcapt/errors"
)

// Strategy turns normalized caption lines into sentence-per-paragraph text.
type Strategy interface {
	Name() string
	Refine(lines []string) (string, error)
}

// strategies is populated by Register calls at init and read-only after
// startup, so no locking is needed.
var strategies = map[string]Strategy{}

// Register installs a strategy for a sanitized language code.
func Register(lang string, s Strategy) {
	strategies[lang] = s
}

var langSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]`)

// SanitizeLang strips everything outside [A-Za-z0-9_] from a language code
// before it is used to select a strategy.
func SanitizeLang(lang string) string {
	return langSanitizer.ReplaceAllString(lang, "")
}

// Refine produces the refined text for the given lines. The strategy is
// chosen by the sanitized language code; an empty code falls back to
// detecting the language from the lines themselves. Any failure inside a
// strategy comes back as a parsing error naming the strategy, never as a
// panic or a raw internal error.
func Refine(lines []string, lang string) (text string, err error) {
	const op = "refine.Refine"

	key := SanitizeLang(lang)
	if key == "" {
		key = DetectLanguage(lines)
	}

	strategy, ok := strategies[key]
	if !ok {
		strategy = defaultStrategy{}
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Parsing(op, fmt.Errorf("%v", r),
				fmt.Sprintf("the %s refiner failed to process the transcript", strategy.Name()))
		}
	}()

	text, serr := strategy.Refine(lines)
	if serr != nil {
		return "", errors.Parsing(op, serr,
			fmt.Sprintf("the %s refiner failed to process the transcript", strategy.Name()))
	}
	return text, nil
}

// defaultStrategy suits languages whose captions already carry terminal
// punctuation: the lines are flattened into one text and split after every
// sentence-ending mark.
type defaultStrategy struct{}

func (defaultStrategy) Name() string { return "default" }

func (defaultStrategy) Refine(lines []string) (string, error) {
	full := strings.Join(lines, " ")

	var (
		sentences []string
		segment   strings.Builder
	)
	for _, r := range full {
		switch r {
		case '.', '?', '!':
			if text := strings.TrimSpace(segment.String()); text != "" {
				sentences = append(sentences, text+string(r))
			}
			segment.Reset()
		default:
			segment.WriteRune(r)
		}
	}
	// Whatever trails the last mark is still a sentence; close it with a
	// period so nothing is silently dropped.
	if tail := strings.TrimSpace(segment.String()); tail != "" {
		sentences = append(sentences, tail+".")
	}

	return strings.Join(sentences, "\n\n"), nil
}
