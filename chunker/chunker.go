// Package chunker segments an opinion's page text into ordered, word-budgeted
// chunks labelled with the legal-document section they belong to.
package chunker

import (
	"regexp"
	"strings"
)

// Config controls the chunking behaviour.
type Config struct {
	TargetWords int // Preferred chunk size.
	MinWords    int // Chunks below this are merged or dropped.
	MaxWords    int // Hard ceiling; larger chunks are split at sentences.
}

// Chunk is one ordered segment of the opinion.
type Chunk struct {
	Order     int // 1..N, dense, document order
	Section   string
	Text      string
	WordCount int
	CharCount int
}

// Chunker converts page text into store-ready chunks.
type Chunker struct {
	cfg Config
}

// New returns a Chunker with the given configuration.
// Zero-value fields are replaced with sensible defaults.
func New(cfg Config) *Chunker {
	if cfg.TargetWords == 0 {
		cfg.TargetWords = 350
	}
	if cfg.MinWords == 0 {
		cfg.MinWords = 200
	}
	if cfg.MaxWords == 0 {
		cfg.MaxWords = 500
	}
	return &Chunker{cfg: cfg}
}

// sectionPatterns map heading lines to section labels. Opinion body headings
// (FACTS, ANALYSIS, ...) must be a short all-caps line; caption patterns
// (HEADER, PARTIES) match the line shapes found on an opinion's first pages.
var sectionPatterns = []struct {
	label   string
	allCaps bool
	re      *regexp.Regexp
}{
	{"FACTS", true, regexp.MustCompile(`^(STATEMENT OF FACTS|FACTUAL BACKGROUND|FINDINGS OF FACT|FACTS)\b`)},
	{"ANALYSIS", true, regexp.MustCompile(`^(LEGAL ANALYSIS|CONCLUSIONS OF LAW|ANALYSIS|DISCUSSION|OPINION)\b`)},
	{"HOLDING", true, regexp.MustCompile(`^(HOLDING|CONCLUSION|DECISION|JUDGMENT|ORDER)\b`)},
	{"PROCEDURAL", true, regexp.MustCompile(`^(PROCEDURAL HISTORY|PROCEEDINGS|BACKGROUND|MOTION|APPEAL)\b`)},
	{"CUSTODY", true, regexp.MustCompile(`^(CHILD CUSTODY|CUSTODY|PARENTING PLAN|RESIDENTIAL SCHEDULE)\b`)},
	{"SUPPORT", true, regexp.MustCompile(`^(CHILD SUPPORT|SPOUSAL MAINTENANCE|MAINTENANCE)\b`)},
	{"PROPERTY", true, regexp.MustCompile(`^(PROPERTY DIVISION|COMMUNITY PROPERTY|SEPARATE PROPERTY)\b`)},
	{"FEES", true, regexp.MustCompile(`^(ATTORNEY FEES|FEES AND COSTS)\b`)},
	{"HEADER", false, regexp.MustCompile(`(?i)^(IN THE .*COURT|STATE OF WASHINGTON|COUNTY OF |NO\.\s*\d|CASE NO\.|DOCKET)`)},
	{"PARTIES", false, regexp.MustCompile(`(?i)\b(APPELLANT|RESPONDENT|PETITIONER|PLAINTIFF|DEFENDANT)S?[.,]?\s*$`)},
}

// DefaultSection labels text with no heading signal.
const DefaultSection = "CONTENT"

const headingLineLimit = 60

// Chunk segments page text into ordered chunks. Section headings close the
// current chunk; chunks are kept within [MinWords, MaxWords] except that a
// single sentence longer than MaxWords stays whole.
func (c *Chunker) Chunk(pages []string) []Chunk {
	paragraphs := splitParagraphs(strings.Join(pages, "\n\n"))

	var chunks []Chunk
	var buf []string
	bufWords := 0
	section := DefaultSection

	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.Join(buf, "\n\n")
		buf = buf[:0]
		bufWords = 0
		chunks = append(chunks, c.emit(text, section)...)
	}

	for _, para := range paragraphs {
		if label := detectSection(para); label != "" && label != section {
			flush()
			section = label
		}
		buf = append(buf, para)
		bufWords += countWords(para)
		if bufWords >= c.cfg.TargetWords {
			flush()
		}
	}
	flush()

	chunks = c.mergeTrailing(chunks)

	for i := range chunks {
		chunks[i].Order = i + 1
	}
	return chunks
}

// emit turns accumulated text into one or more chunks, splitting oversized
// text at sentence boundaries. Minimum-size enforcement happens later in
// mergeTrailing so sub-minimum pieces can attach to a neighbour.
func (c *Chunker) emit(text, section string) []Chunk {
	var out []Chunk
	for _, piece := range c.splitOversized(text) {
		out = append(out, Chunk{
			Section:   section,
			Text:      piece,
			WordCount: countWords(piece),
			CharCount: len(piece),
		})
	}
	return out
}

// splitOversized breaks text over MaxWords into sentence-bounded pieces.
// A single sentence longer than MaxWords is kept whole.
func (c *Chunker) splitOversized(text string) []string {
	if countWords(text) <= c.cfg.MaxWords {
		return []string{text}
	}

	sentences := splitSentences(text)
	var pieces []string
	var current strings.Builder
	currentWords := 0

	for _, sent := range sentences {
		words := countWords(sent)
		if currentWords+words > c.cfg.MaxWords && current.Len() > 0 {
			pieces = append(pieces, strings.TrimSpace(current.String()))
			current.Reset()
			currentWords = 0
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentWords += words
	}
	if current.Len() > 0 {
		pieces = append(pieces, strings.TrimSpace(current.String()))
	}
	return pieces
}

// mergeTrailing folds sub-minimum chunks into the preceding chunk when the
// combined size stays under MaxWords, and drops them otherwise, unless they
// are the only chunk.
func (c *Chunker) mergeTrailing(chunks []Chunk) []Chunk {
	var out []Chunk
	for _, ch := range chunks {
		if ch.WordCount >= c.cfg.MinWords || len(out) == 0 {
			out = append(out, ch)
			continue
		}
		prev := &out[len(out)-1]
		if prev.WordCount+ch.WordCount <= c.cfg.MaxWords {
			prev.Text = prev.Text + "\n\n" + ch.Text
			prev.WordCount += ch.WordCount
			prev.CharCount = len(prev.Text)
		}
		// Too small to keep and too big to merge: dropped.
	}
	return out
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// detectSection returns the section label signalled by a paragraph's first
// line, or "" when no heading applies.
func detectSection(para string) string {
	line := para
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || len(line) > headingLineLimit {
		return ""
	}

	isAllCaps := line == strings.ToUpper(line)
	for _, p := range sectionPatterns {
		if p.allCaps && !isAllCaps {
			continue
		}
		if p.re.MatchString(line) {
			return p.label
		}
	}
	return ""
}

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// splitParagraphs splits text on blank-line boundaries.
func splitParagraphs(text string) []string {
	raw := paragraphSplit.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences splits on period/question-mark/exclamation followed by
// whitespace or end of string.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		if runes[i] == '.' || runes[i] == '?' || runes[i] == '!' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				s := strings.TrimSpace(cur.String())
				if s != "" {
					sentences = append(sentences, s)
				}
				cur.Reset()
			}
		}
	}
	if cur.Len() > 0 {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
