package rag

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenPattern = regexp.MustCompile(`[\w'-]+`)

// Tokenize normalizes sentence text into the word forms stored in the word
// dictionary: lowercased, surrounding punctuation stripped, internal hyphens
// and apostrophes kept, possessive 's dropped. Tokens need at least two
// characters including one letter. Token order matches sentence order, so
// occurrence positions are just slice indices.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(matches))
	for _, tok := range matches {
		tok = strings.TrimSuffix(tok, "'s")
		tok = strings.Trim(tok, "'-_")
		if len(tok) < 2 || !hasLetter(tok) {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// stopWords is the filter vocabulary for phrase extraction. Tokenize does
// not apply it; occurrence positions stay dense over every token.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "was": true, "are": true, "were": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "does": true,
	"did": true, "will": true, "would": true, "shall": true, "should": true,
	"may": true, "might": true, "must": true, "can": true, "could": true,
	"not": true, "nor": true, "but": true, "from": true, "into": true,
	"through": true, "during": true, "before": true, "after": true,
	"above": true, "below": true, "over": true, "under": true, "again": true,
	"further": true, "then": true, "once": true, "here": true, "there": true,
	"when": true, "where": true, "why": true, "how": true, "all": true,
	"any": true, "both": true, "each": true, "few": true, "more": true,
	"most": true, "other": true, "some": true, "such": true, "only": true,
	"own": true, "same": true, "than": true, "too": true, "very": true,
	"its": true, "his": true, "her": true, "their": true, "our": true,
	"your": true, "they": true, "them": true, "she": true, "him": true,
	"who": true, "whom": true, "which": true, "what": true, "these": true,
	"those": true, "of": true, "in": true, "on": true, "at": true,
	"by": true, "to": true, "as": true, "is": true, "it": true, "an": true,
	"or": true, "be": true, "do": true, "so": true, "no": true, "if": true,
	"a": true, "i": true, "we": true, "he": true,
}

// IsStopWord reports whether a normalized token is in the stop-word set.
func IsStopWord(token string) bool {
	return stopWords[token]
}
