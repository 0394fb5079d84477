package rag

import "testing"

// sentencesFromTexts builds tokenized sentences all in chunk 0.
func sentencesFromTexts(texts ...string) []Sentence {
	out := make([]Sentence, len(texts))
	for i, text := range texts {
		tokens := Tokenize(text)
		out[i] = Sentence{
			ChunkIndex:  0,
			Order:       i + 1,
			GlobalOrder: i + 1,
			Text:        text,
			Tokens:      tokens,
			WordCount:   len(tokens),
		}
	}
	return out
}

func phraseByText(phrases []Phrase, text string) (Phrase, bool) {
	for _, p := range phrases {
		if p.Text == text {
			return p, true
		}
	}
	return Phrase{}, false
}

func TestExtractStrictCuratedPhrase(t *testing.T) {
	sentence := "The trial court weighed the best interests of the child carefully."
	phrases := NewPhraseExtractor(PhraseConfig{Mode: "strict"}).
		Extract(sentencesFromTexts(sentence, sentence, sentence))

	p, ok := phraseByText(phrases, "best interests of the child")
	if !ok {
		t.Fatal("curated phrase missing under strict mode")
	}
	if p.Frequency != 3 {
		t.Errorf("Frequency = %d, want 3", p.Frequency)
	}
	if p.ExampleSentence != 0 || p.ExampleChunk != 0 {
		t.Errorf("example = (%d, %d), want (0, 0)", p.ExampleSentence, p.ExampleChunk)
	}

	if _, ok := phraseByText(phrases, "of the"); ok {
		t.Error("stop phrase admitted under strict mode")
	}
}

func TestExtractRelaxedStillRejectsStopPhrases(t *testing.T) {
	sentence := "The trial court weighed the best interests of the child carefully."
	phrases := NewPhraseExtractor(PhraseConfig{Mode: "relaxed"}).
		Extract(sentencesFromTexts(sentence, sentence, sentence))

	if _, ok := phraseByText(phrases, "of the"); ok {
		t.Error("stop phrase admitted under relaxed mode")
	}
	if _, ok := phraseByText(phrases, "best interests of the child"); !ok {
		t.Error("curated phrase missing under relaxed mode")
	}
}

func TestExtractKeywordRequirement(t *testing.T) {
	sentence := "Purple monkeys painted dishwashers yesterday afternoon."

	strict := NewPhraseExtractor(PhraseConfig{Mode: "strict"}).
		Extract(sentencesFromTexts(sentence))
	if len(strict) != 0 {
		t.Errorf("strict admitted %d phrases from keyword-free text: %v", len(strict), strict)
	}

	relaxed := NewPhraseExtractor(PhraseConfig{Mode: "relaxed"}).
		Extract(sentencesFromTexts(sentence))
	if _, ok := phraseByText(relaxed, "purple monkeys"); !ok {
		t.Error("relaxed rejected a non-stop-word bigram")
	}
}

func TestExtractRejectsAllStopWordWindows(t *testing.T) {
	phrases := NewPhraseExtractor(PhraseConfig{Mode: "relaxed"}).
		Extract([]Sentence{{Tokens: []string{"would", "not", "have", "been"}}})
	for _, p := range phrases {
		t.Errorf("all-stop-word window admitted: %q", p.Text)
	}
}

func TestExtractCustomLists(t *testing.T) {
	cfg := PhraseConfig{
		Mode:        "strict",
		Keywords:    []string{"zoning"},
		StopPhrases: []string{"zoning board"},
	}
	phrases := NewPhraseExtractor(cfg).
		Extract(sentencesFromTexts("The zoning board denied the zoning variance."))

	if _, ok := phraseByText(phrases, "zoning board"); ok {
		t.Error("custom stop phrase admitted")
	}
	if _, ok := phraseByText(phrases, "zoning variance"); !ok {
		t.Error("custom keyword phrase missing")
	}
}

func TestExtractFrequencyLaw(t *testing.T) {
	// "child support" appears in two sentences, twice in the first.
	phrases := NewPhraseExtractor(PhraseConfig{Mode: "strict"}).Extract(sentencesFromTexts(
		"Child support was set because child support matters.",
		"The child support order stands.",
	))
	p, ok := phraseByText(phrases, "child support")
	if !ok {
		t.Fatal("phrase missing")
	}
	if p.Frequency != 3 {
		t.Errorf("Frequency = %d, want 3", p.Frequency)
	}
	if p.N != 2 {
		t.Errorf("N = %d, want 2", p.N)
	}
}
