// Package rag builds the retrieval artifacts for a case: sentences, word
// tokens, legal phrases, and embeddings over the chunked opinion text.
package rag

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// citationPatterns match legal citations and abbreviations whose periods must
// not terminate a sentence. Matches are swapped for placeholders before
// segmentation and restored afterwards.
var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s+Wn\.\s*(?:2d|App\.?)?\s*\d+`),
	regexp.MustCompile(`\d+\s+P\.\s*\d*d?\s+\d+`),
	regexp.MustCompile(`\d+\s+U\.S\.\s+\d+`),
	regexp.MustCompile(`RCW\s+\d+[A-Za-z]?\.\d+(?:\.\d+)?`),
	regexp.MustCompile(`WAC\s+\d+-\d+-\d+`),
	regexp.MustCompile(`\bex rel\.`),
	regexp.MustCompile(`\bNo\.\s*\d[\d.-]*`),
	regexp.MustCompile(`\bv\.`),
	regexp.MustCompile(`\b(?:Wash|Wn|App|Inc|Corp|Ltd|Co|Jr|Sr|Mr|Mrs|Ms|Dr|St|Div|Dep't|Dept)\.`),
}

const minSentenceChars = 10

// SplitSentences segments chunk text into sentences, protecting legal
// citations from being treated as sentence boundaries. Fragments shorter
// than ten characters are dropped.
func SplitSentences(text string) []string {
	protected, saved := protectCitations(text)

	runes := []rune(protected)
	var sentences []string
	var cur strings.Builder

	flush := func() {
		s := strings.TrimSpace(restoreCitations(cur.String(), saved))
		if len(s) >= minSentenceChars {
			sentences = append(sentences, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(runes); i++ {
		cur.WriteRune(runes[i])
		if isTerminator(runes[i]) && isBoundary(runes, i) {
			flush()
		}
	}
	flush()

	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '?' || r == '!'
}

// isBoundary reports whether the terminator at index i is followed by
// whitespace and then an uppercase letter or digit. An underscore also
// counts: the following token may be a citation placeholder standing in for
// a capitalized abbreviation.
func isBoundary(runes []rune, i int) bool {
	j := i + 1
	if j >= len(runes) {
		return true
	}
	if !unicode.IsSpace(runes[j]) {
		return false
	}
	for j < len(runes) && unicode.IsSpace(runes[j]) {
		j++
	}
	if j >= len(runes) {
		return true
	}
	return unicode.IsUpper(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_'
}

func protectCitations(text string) (string, []string) {
	var saved []string
	for _, re := range citationPatterns {
		text = re.ReplaceAllStringFunc(text, func(m string) string {
			saved = append(saved, m)
			return placeholder(len(saved) - 1)
		})
	}
	return text, saved
}

func restoreCitations(text string, saved []string) string {
	for i, m := range saved {
		text = strings.Replace(text, placeholder(i), m, 1)
	}
	return text
}

func placeholder(i int) string {
	return fmt.Sprintf("__CITATION_%d__", i)
}
