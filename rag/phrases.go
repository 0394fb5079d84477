package rag

import "strings"

// Phrase is an aggregated legal n-gram with its first observed location.
type Phrase struct {
	Text            string
	N               int
	Frequency       int
	ExampleSentence int // index into the case's sentence slice
	ExampleChunk    int // index into the case's chunk slice
}

// PhraseConfig tunes the phrase filter. Empty lists fall back to the shipped
// defaults.
type PhraseConfig struct {
	Mode        string // strict, relaxed
	Keywords    []string
	StopPhrases []string
}

// defaultPhraseKeywords admit an n-gram in strict mode when any token
// matches.
var defaultPhraseKeywords = []string{
	"court", "judge", "judicial", "trial", "appeal", "appellate", "motion",
	"order", "decree", "statute", "evidence", "custody", "support",
	"parenting", "maintenance", "property", "dissolution", "marriage",
	"child", "children", "spousal", "discretion", "fees", "income",
	"visitation", "guardian", "petition", "respondent", "appellant",
	"contempt", "modification", "jurisdiction", "findings", "relocation",
}

// defaultPhrasePatterns are curated legal phrases admitted regardless of the
// keyword test.
var defaultPhrasePatterns = []string{
	"due process", "best interests", "best interests of the child",
	"abuse of discretion", "substantial change in circumstances",
	"de novo", "burden of proof", "preponderance of the evidence",
	"community property", "separate property", "parenting plan",
	"child support", "attorney fees", "findings of fact",
	"conclusions of law", "manifest abuse", "equitable distribution",
}

// defaultStopPhrases are rejected in every mode.
var defaultStopPhrases = []string{
	"of the", "in the", "to the", "on the", "and the", "for the", "at the",
	"by the", "with the", "from the", "that the", "of a", "in a", "to a",
	"it is", "there is", "there was", "to be", "as a", "is not", "did not",
	"does not", "do not", "was not",
}

// PhraseExtractor filters and aggregates 2- to 4-gram candidates. Curated
// patterns longer than four tokens are admitted as well, so a phrase like
// "best interests of the child" survives intact.
type PhraseExtractor struct {
	strict      bool
	maxN        int
	keywords    map[string]bool
	patterns    map[string]bool
	stopPhrases map[string]bool
}

// NewPhraseExtractor builds an extractor for the given mode and term lists.
func NewPhraseExtractor(cfg PhraseConfig) *PhraseExtractor {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = defaultPhraseKeywords
	}
	stops := cfg.StopPhrases
	if len(stops) == 0 {
		stops = defaultStopPhrases
	}

	maxN := 4
	for _, pat := range defaultPhrasePatterns {
		if n := len(strings.Fields(pat)); n > maxN {
			maxN = n
		}
	}

	return &PhraseExtractor{
		strict:      cfg.Mode != "relaxed",
		maxN:        maxN,
		keywords:    toSet(keywords),
		patterns:    toSet(defaultPhrasePatterns),
		stopPhrases: toSet(stops),
	}
}

// Extract slides 2-, 3-, and 4-token windows over each sentence's tokens and
// aggregates the candidates that pass the filter. Frequency counts every
// window occurrence; the example location is the first one observed in
// document order.
func (e *PhraseExtractor) Extract(sentences []Sentence) []Phrase {
	byText := make(map[string]*Phrase)
	var ordered []*Phrase

	for si := range sentences {
		tokens := sentences[si].Tokens
		for n := 2; n <= e.maxN; n++ {
			for i := 0; i+n <= len(tokens); i++ {
				window := tokens[i : i+n]
				text := strings.Join(window, " ")
				if !e.admit(text, window, n) {
					continue
				}
				if p, ok := byText[text]; ok {
					p.Frequency++
					continue
				}
				p := &Phrase{
					Text:            text,
					N:               n,
					Frequency:       1,
					ExampleSentence: si,
					ExampleChunk:    sentences[si].ChunkIndex,
				}
				byText[text] = p
				ordered = append(ordered, p)
			}
		}
	}

	out := make([]Phrase, len(ordered))
	for i, p := range ordered {
		out[i] = *p
	}
	return out
}

// admit applies the filter policy to one candidate n-gram.
func (e *PhraseExtractor) admit(text string, tokens []string, n int) bool {
	if n > 4 {
		return e.patterns[text]
	}
	if e.stopPhrases[text] {
		return false
	}
	allStop := true
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			allStop = false
			break
		}
	}
	if allStop {
		return false
	}
	if !e.strict {
		return true
	}
	if e.patterns[text] {
		return true
	}
	for _, tok := range tokens {
		if e.keywords[tok] {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
