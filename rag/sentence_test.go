package rag

import (
	"strings"
	"testing"
)

func TestSplitSentencesCitationProtection(t *testing.T) {
	text := "State v. Smith, 175 Wn.2d 696, 285 P.3d 27 (2012). The court held the order invalid."
	got := SplitSentences(text)
	if len(got) != 2 {
		t.Fatalf("len(sentences) = %d, want 2: %q", len(got), got)
	}
	if got[0] != "State v. Smith, 175 Wn.2d 696, 285 P.3d 27 (2012)." {
		t.Errorf("sentences[0] = %q", got[0])
	}
	if got[1] != "The court held the order invalid." {
		t.Errorf("sentences[1] = %q", got[1])
	}
}

func TestSplitSentencesStatutes(t *testing.T) {
	text := "The trial court applied RCW 26.09.187 to the parenting plan. It also cited WAC 388-14-100 in passing. Neither party objected."
	got := SplitSentences(text)
	if len(got) != 3 {
		t.Fatalf("len(sentences) = %d, want 3: %q", len(got), got)
	}
	if !strings.Contains(got[0], "RCW 26.09.187") {
		t.Errorf("sentences[0] lost the statute citation: %q", got[0])
	}
	if !strings.Contains(got[1], "WAC 388-14-100") {
		t.Errorf("sentences[1] lost the regulation citation: %q", got[1])
	}
}

func TestSplitSentencesDropsShortFragments(t *testing.T) {
	got := SplitSentences("Yes. The court affirmed the judgment below.")
	if len(got) != 1 {
		t.Fatalf("len(sentences) = %d, want 1: %q", len(got), got)
	}
	if got[0] != "The court affirmed the judgment below." {
		t.Errorf("sentences[0] = %q", got[0])
	}
}

func TestSplitSentencesAbbreviations(t *testing.T) {
	text := "Mr. Doe appealed under cause No. 39300-3-III on time. Ms. Roe responded."
	got := SplitSentences(text)
	if len(got) != 2 {
		t.Fatalf("len(sentences) = %d, want 2: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "Mr. Doe") || !strings.Contains(got[0], "No. 39300-3-III") {
		t.Errorf("sentences[0] = %q", got[0])
	}
}

func TestSplitSentencesEmpty(t *testing.T) {
	if got := SplitSentences(""); len(got) != 0 {
		t.Errorf("len(sentences) = %d, want 0", len(got))
	}
}
