package refine

import (
	"fmt"
	"strings"
	"testing"

	"ytcapt/errors"
)

func TestDefaultRefine(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "splits after terminal punctuation",
			lines: []string{"Hello world.", "How are you"},
			want:  "Hello world.\n\nHow are you.",
		},
		{
			name:  "keeps question and exclamation marks",
			lines: []string{"Really?! I had no idea.", "Tell me more"},
			want:  "Really?\n\nI had no idea.\n\nTell me more.",
		},
		{
			name:  "collapses runs of punctuation",
			lines: []string{"Wait... what happened."},
			want:  "Wait.\n\nwhat happened.",
		},
		{
			name:  "terminates a trailing fragment",
			lines: []string{"no punctuation at all"},
			want:  "no punctuation at all.",
		},
		{
			name:  "empty input",
			lines: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Refine(tt.lines, "en")
			if err != nil {
				t.Fatalf("Refine() returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Refine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRefineUnknownLanguageFallsBack(t *testing.T) {
	got, err := Refine([]string{"Das ist ein Satz.", "Und noch einer"}, "de")
	if err != nil {
		t.Fatalf("Refine() returned error: %v", err)
	}
	want := "Das ist ein Satz.\n\nUnd noch einer."
	if got != want {
		t.Errorf("Refine() = %q, want %q", got, want)
	}
}

func TestRefineDispatchesToKorean(t *testing.T) {
	got, err := Refine([]string{"오늘은 날씨가", "정말 좋습니다"}, "ko")
	if err != nil {
		t.Fatalf("Refine() returned error: %v", err)
	}
	want := "오늘은 날씨가 정말 좋습니다."
	if got != want {
		t.Errorf("Refine() = %q, want %q", got, want)
	}
}

func TestRefineDetectsLanguageWhenEmpty(t *testing.T) {
	got, err := Refine([]string{"여러분 안녕하세요", "오늘도 시작합니다"}, "")
	if err != nil {
		t.Fatalf("Refine() returned error: %v", err)
	}
	// Hangul lines must route to the Korean strategy without an explicit
	// language code.
	want := "여러분 안녕하세요.\n\n오늘도 시작합니다."
	if got != want {
		t.Errorf("Refine() = %q, want %q", got, want)
	}
}

func TestSanitizeLang(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ko", "ko"},
		{"en-US", "enUS"},
		{"pt_BR", "pt_BR"},
		{"../../etc", "etc"},
		{"!!", ""},
	}

	for _, tt := range tests {
		if got := SanitizeLang(tt.in); got != tt.want {
			t.Errorf("SanitizeLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type panickyStrategy struct{}

func (panickyStrategy) Name() string { return "panicky" }
func (panickyStrategy) Refine(lines []string) (string, error) {
	panic("index out of range")
}

func TestRefineRecoversStrategyPanic(t *testing.T) {
	Register("zz", panickyStrategy{})

	_, err := Refine([]string{"anything"}, "zz")
	if err == nil {
		t.Fatalf("expected an error from a panicking strategy")
	}
	if !errors.IsKind(err, errors.KindParsing) {
		t.Errorf("expected KindParsing, got %v", errors.KindOf(err))
	}
	if !strings.Contains(err.Error(), "panicky") {
		t.Errorf("expected the error to name the failing strategy, got %q", err)
	}
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }
func (failingStrategy) Refine(lines []string) (string, error) {
	return "", fmt.Errorf("boom")
}

func TestRefineWrapsStrategyError(t *testing.T) {
	Register("zy", failingStrategy{})

	_, err := Refine([]string{"anything"}, "zy")
	if err == nil {
		t.Fatalf("expected an error from a failing strategy")
	}
	if !errors.IsKind(err, errors.KindParsing) {
		t.Errorf("expected KindParsing, got %v", errors.KindOf(err))
	}
	if !strings.Contains(err.Error(), "failing") {
		t.Errorf("expected the error to name the failing strategy, got %q", err)
	}
}
