package store

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/rag"
)

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want string
	}{
		{"empty", nil, "[]"},
		{"single", []float32{0.5}, "[0.5]"},
		{"several", []float32{0.1, -2, 3.25}, "[0.1,-2,3.25]"},
	}
	for _, tt := range tests {
		if got := formatVector(tt.in); got != tt.want {
			t.Errorf("%s: formatVector = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatVectorRoundTrips(t *testing.T) {
	// float32 precision must survive the text literal.
	in := []float32{0.123456789, 1e-7, 12345.678}
	got := formatVector(in)

	parts := strings.Split(strings.Trim(got, "[]"), ",")
	if len(parts) != len(in) {
		t.Fatalf("len = %d, want %d (%q)", len(parts), len(in), got)
	}
	for i, part := range parts {
		f, err := strconv.ParseFloat(part, 32)
		if err != nil {
			t.Fatalf("parsing %q: %v", part, err)
		}
		if float32(f) != in[i] {
			t.Errorf("component %d = %v, want %v", i, f, in[i])
		}
	}
}

func TestIsDeadlock(t *testing.T) {
	deadlock := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "40P01"})
	if !isDeadlock(deadlock) {
		t.Error("isDeadlock(40P01) = false, want true")
	}
	if isDeadlock(&pgconn.PgError{Code: "23505"}) {
		t.Error("isDeadlock(23505) = true, want false")
	}
	if isDeadlock(errors.New("plain error")) {
		t.Error("isDeadlock(plain) = true, want false")
	}
	if isDeadlock(nil) {
		t.Error("isDeadlock(nil) = true, want false")
	}
}

func TestDeriveWinnerLegalRole(t *testing.T) {
	tests := []struct {
		name   string
		issues []cases.Issue
		want   string
	}{
		{"none", nil, ""},
		{"all empty", []cases.Issue{{}, {}}, ""},
		{
			"majority wins",
			[]cases.Issue{
				{WinnerLegalRole: "Respondent"},
				{WinnerLegalRole: "Appellant"},
				{WinnerLegalRole: "Respondent"},
			},
			"Respondent",
		},
		{
			"first wins ties",
			[]cases.Issue{
				{WinnerLegalRole: "Appellant"},
				{WinnerLegalRole: "Respondent"},
			},
			"Appellant",
		},
	}
	for _, tt := range tests {
		if got := deriveWinnerLegalRole(tt.issues); got != tt.want {
			t.Errorf("%s: deriveWinnerLegalRole = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNullHelpers(t *testing.T) {
	if nullStr("") != nil {
		t.Error("nullStr(\"\") != nil")
	}
	if got := nullStr("x"); got == nil || *got != "x" {
		t.Errorf("nullStr(\"x\") = %v", got)
	}
	if nullInt(0) != nil {
		t.Error("nullInt(0) != nil")
	}
	if got := nullInt(2024); got == nil || *got != 2024 {
		t.Errorf("nullInt(2024) = %v", got)
	}
}

func TestBuildWordRefsPositionsDense(t *testing.T) {
	sentences := []rag.Sentence{
		{ChunkIndex: 0, Tokens: []string{"court", "affirmed"}, WordCount: 2},
		{ChunkIndex: 0, Tokens: []string{"the", "trial", "court", "erred"}, WordCount: 4},
		{ChunkIndex: 1, Tokens: []string{"remanded"}, WordCount: 1},
	}
	chunkIDs := []int64{10, 11}
	sentenceIDs := []int64{100, 101, 102}

	refs := buildWordRefs(sentences, chunkIDs, sentenceIDs)
	if len(refs) != 7 {
		t.Fatalf("len(refs) = %d, want 7", len(refs))
	}

	// Each sentence's positions must be exactly {0..word_count-1}.
	bySentence := make(map[int64]map[int]bool)
	for _, r := range refs {
		if bySentence[r.sentenceID] == nil {
			bySentence[r.sentenceID] = make(map[int]bool)
		}
		if bySentence[r.sentenceID][r.position] {
			t.Errorf("sentence %d: position %d repeated", r.sentenceID, r.position)
		}
		bySentence[r.sentenceID][r.position] = true
	}
	for i, sent := range sentences {
		positions := bySentence[sentenceIDs[i]]
		if len(positions) != sent.WordCount {
			t.Errorf("sentence %d: %d positions, want %d", i, len(positions), sent.WordCount)
		}
		for p := 0; p < sent.WordCount; p++ {
			if !positions[p] {
				t.Errorf("sentence %d: position %d missing", i, p)
			}
		}
	}

	if refs[0].word != "court" || refs[0].position != 0 {
		t.Errorf("refs[0] = %+v, want court at position 0", refs[0])
	}
	if refs[6].chunkID != 11 || refs[6].sentenceID != 102 {
		t.Errorf("refs[6] = %+v, want chunk 11 sentence 102", refs[6])
	}
}

func TestDimKeyFoldsCase(t *testing.T) {
	tests := []struct {
		a, b []string
		same bool
	}{
		{[]string{"Family Law"}, []string{"FAMILY law"}, true},
		{[]string{"Fearing"}, []string{"fearing"}, true},
		{[]string{"Washington Court of Appeals", "Division I"}, []string{"washington court of appeals", "division i"}, true},
		{[]string{"RCW", "26.09.187"}, []string{"rcw", "26.09.187"}, true},
		{[]string{"Family Law"}, []string{"Criminal Law"}, false},
		{[]string{"Court", "Division I"}, []string{"Court", "Division II"}, false},
	}
	for _, tt := range tests {
		if got := dimKey(tt.a...) == dimKey(tt.b...); got != tt.same {
			t.Errorf("dimKey(%v) == dimKey(%v) = %v, want %v", tt.a, tt.b, got, tt.same)
		}
	}
}

func TestCaseRowArgsMatchesPlaceholders(t *testing.T) {
	published := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	c := cases.Case{
		FileID:           "39300-3",
		FileIDNormalized: "393003",
		Title:            "In re the Marriage of Doe",
		CourtLevel:       "Court of Appeals",
		Published:        true,
		PublishedDate:    &published,
		FullText:         "text",
		SourceFile:       "39300-3_III.pdf",
	}
	args := caseRowArgs(c, nil, nil, 3)

	max := 0
	for _, m := range regexp.MustCompile(`\$(\d+)`).FindAllStringSubmatch(upsertCaseSQL, -1) {
		if n, _ := strconv.Atoi(m[1]); n > max {
			max = n
		}
	}
	if len(args) != max {
		t.Fatalf("len(args) = %d, want %d placeholders", len(args), max)
	}

	if got, ok := args[14].(bool); !ok || !got {
		t.Errorf("args[14] = %v, want published=true", args[14])
	}
	c.Published = false
	if got := caseRowArgs(c, nil, nil, 3)[14].(bool); got {
		t.Error("published=false not propagated")
	}
}

func TestDimensionsReset(t *testing.T) {
	d := NewDimensions()
	d.caseTypes["Family Law"] = 1
	d.judges["Fearing"] = 7
	d.Reset()
	if len(d.caseTypes) != 0 || len(d.judges) != 0 {
		t.Error("Reset did not clear caches")
	}
}
