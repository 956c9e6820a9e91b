package refine

import (
	"regexp"
	"sort"
	"strings"
)

func init() {
	Register("ko", koreanStrategy{})
}

// Korean auto-captions almost never carry sentence punctuation, and a
// sentence routinely spans several caption lines. The boundary has to be
// read off the verb-ending morphology of a line's final word. The lists
// below are a heuristic inventory of the sentence-final endings that
// dominate spoken captions, not a grammar.

// questionEndings mark interrogative sentences.
var questionEndings = []string{
	"까", "입니까", "합니까", "있습니까", "없습니까", "아닙니까",

	// ~요 questions
	"나요", "가요", "신가요", "인가요", "아닌가요", "뭔가요", "어떤가요",
	"건가요", "는 건가요", "은 건가요", "신 건가요",
	"까요", "을까요", "ㄹ까요", "그럴까요", "할까요", "볼까요",

	// general conjugations, present / past / conjecture
	"아요", "어요", "워요",
	"았어요", "었어요", "였어요", "웠어요",
	"겠어요",

	"있나요", "없나요",

	// plain style
	"냐", "는가", "은가", "ㄴ가", "으니", "느니",
	"인가", "을까",
}

// statementEndings mark declarative, imperative, and suggestive sentences.
var statementEndings = []string{
	// formal ~ㅂ니다 style
	"습니다", "합니다", "입니다", "있습니다", "됩니다", "않습니다", "ㅂ니다",
	"겁니다", "것입니다", "봅니다", "생각합니다", "말입니다", "것이죠", "랍니다",

	// informal ~요 style
	"고요", "죠", "해요", "에요", "예요", "이예요", "이죠", "그렇죠", "지요", "거예요", "게요",
	"거든요", "잖아요", "더라고요", "인데요", "니까요", "이거든요", "하거든요",
	"걸요", "텐데요", "뿐이에요", "네요", "군요", "있네요", "그렇네요", "구먼",

	"있어요", "없어요", "하세요", "않아요", "못해요",
	"있었죠", "했죠",

	// general conjugations, present / past / conjecture
	"아요", "어요", "워요",
	"았어요", "었어요", "였어요", "웠어요",
	"겠어요",

	// plain 반말 style
	"이다", "했다", "있다", "없다", "된다", "한다", "않는다",
	"었다", "았다", "단다", "란다",
	"거든", "잖아", "더라고", "는데", "니까", "단 말이야", "란 말이야",
	"구나",

	// nominalized endings
	"있음", "없음", "함", "됨", "것임", "필요함", "중요함", "같음",
}

// ending pairs a sentence-final suffix with its category.
type ending struct {
	suffix   string
	question bool
}

// endingTable holds every known ending plus its already-punctuated
// variants, longest suffix first so specific conjugations win over the
// short endings embedded in them: a line ending in 니까요 is a statement
// even though 까요 alone would read as a question. Built once at init and
// never mutated.
var endingTable = buildEndingTable()

func buildEndingTable() []ending {
	seen := make(map[string]bool)
	var table []ending
	add := func(suffix string, question bool) {
		if seen[suffix] {
			return
		}
		seen[suffix] = true
		table = append(table, ending{suffix: suffix, question: question})
	}

	// Question endings go in first: a suffix carried by both lists keeps
	// its question reading, matching how ambiguous conjugations like 아요
	// have always been treated here.
	for _, e := range questionEndings {
		add(e, true)
		add(e+".", true)
		add(e+"?", true)
	}
	for _, e := range statementEndings {
		add(e, false)
		add(e+".", false)
	}

	// A proper suffix is always strictly shorter in bytes, so sorting by
	// byte length guarantees the longest-match-first property.
	sort.SliceStable(table, func(i, j int) bool {
		return len(table[i].suffix) > len(table[j].suffix)
	})
	return table
}

// matchEnding returns the longest table entry that terminates line. The
// same match decides both that the sentence ends and whether it is a
// question.
func matchEnding(line string) (ending, bool) {
	for _, e := range endingTable {
		if strings.HasSuffix(line, e.suffix) {
			return e, true
		}
	}
	return ending{}, false
}

// noisePattern strips bracketed stage directions like (웃음) and [박수],
// and the ">>" speaker markers auto-captions inject.
var noisePattern = regexp.MustCompile(`\[.*?\]|\(.*?\)|>>`)

type koreanStrategy struct{}

func (koreanStrategy) Name() string { return "korean" }

func (koreanStrategy) Refine(lines []string) (string, error) {
	var (
		sentences []string
		buffer    []string
		last      string
	)

	emit := func(question bool) {
		sentence := strings.Join(buffer, " ")
		if !hasTerminalPunct(sentence) {
			if question {
				sentence += "?"
			} else {
				sentence += "."
			}
		}
		// Caption systems restate a sentence while it scrolls; drop exact
		// repeats of the one just emitted.
		if sentence != last {
			sentences = append(sentences, sentence)
			last = sentence
		}
		buffer = buffer[:0]
	}

	for _, line := range lines {
		line = strings.TrimSpace(noisePattern.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		buffer = append(buffer, line)

		// The freshly appended line signals the boundary; anything already
		// buffered is lead-up to this sentence.
		if e, ok := matchEnding(line); ok {
			emit(e.question)
		}
	}

	// Leftover fragments still form a sentence, classified by the last
	// line that went into the buffer.
	if len(buffer) > 0 {
		e, _ := matchEnding(buffer[len(buffer)-1])
		emit(e.question)
	}

	return strings.Join(sentences, "\n\n"), nil
}

func hasTerminalPunct(s string) bool {
	return strings.HasSuffix(s, ".") ||
		strings.HasSuffix(s, "?") ||
		strings.HasSuffix(s, "!")
}
