package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubEmbedder struct {
	calls [][]string
	dim   int
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, texts)
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = make([]float32, s.dim)
		for j := range out[i] {
			out[i][j] = 0.5
		}
	}
	return out, nil
}

// words returns n words arranged as ten-word sentences.
func words(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString("Word")
		if (i+1)%10 == 0 {
			b.WriteString(".")
		}
	}
	return b.String()
}

func TestBuildOrderings(t *testing.T) {
	emb := &stubEmbedder{dim: 8}
	p := NewProcessor(Config{}, emb)

	pages := []string{
		"FACTS\n\n" + words(250),
		"ANALYSIS\n\n" + words(250),
	}
	a, err := p.Build(context.Background(), pages, "State v. Doe", "A summary.")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(a.Chunks) != 2 {
		t.Fatalf("len(Chunks) = %d, want 2", len(a.Chunks))
	}
	if len(a.Sentences) == 0 {
		t.Fatal("no sentences")
	}

	// Global order is dense and increases with (chunk, order).
	lastChunk, lastOrder := -1, 0
	for i, s := range a.Sentences {
		if s.GlobalOrder != i+1 {
			t.Errorf("Sentences[%d].GlobalOrder = %d, want %d", i, s.GlobalOrder, i+1)
		}
		if s.ChunkIndex < lastChunk {
			t.Errorf("Sentences[%d] chunk index went backwards", i)
		}
		if s.ChunkIndex == lastChunk && s.Order != lastOrder+1 {
			t.Errorf("Sentences[%d].Order = %d, want %d", i, s.Order, lastOrder+1)
		}
		if s.ChunkIndex != lastChunk && s.Order != 1 {
			t.Errorf("Sentences[%d].Order = %d, want 1 at chunk start", i, s.Order)
		}
		if s.WordCount != len(s.Tokens) {
			t.Errorf("Sentences[%d].WordCount = %d, want %d", i, s.WordCount, len(s.Tokens))
		}
		lastChunk, lastOrder = s.ChunkIndex, s.Order
	}

	if len(a.ChunkEmbeddings) != 2 {
		t.Errorf("len(ChunkEmbeddings) = %d, want 2", len(a.ChunkEmbeddings))
	}
	if len(a.CaseEmbedding) != 8 {
		t.Errorf("len(CaseEmbedding) = %d, want 8", len(a.CaseEmbedding))
	}
	if !strings.Contains(a.CaseEmbeddingText, "State v. Doe") {
		t.Errorf("CaseEmbeddingText = %q", a.CaseEmbeddingText)
	}
}

func TestBuildImportantMode(t *testing.T) {
	emb := &stubEmbedder{dim: 4}
	p := NewProcessor(Config{ChunkMode: "important"}, emb)

	pages := []string{words(250), "FACTS\n\n" + words(250)}
	a, err := p.Build(context.Background(), pages, "t", "s")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Chunks) != 2 {
		t.Fatalf("len(Chunks) = %d, want 2", len(a.Chunks))
	}
	if len(a.ChunkEmbeddings) != 1 {
		t.Fatalf("len(ChunkEmbeddings) = %d, want 1", len(a.ChunkEmbeddings))
	}
	if _, ok := a.ChunkEmbeddings[1]; !ok {
		t.Error("the FACTS chunk was not embedded")
	}
}

func TestBuildNoneModeStillEmbedsCase(t *testing.T) {
	emb := &stubEmbedder{dim: 4}
	p := NewProcessor(Config{ChunkMode: "none"}, emb)

	a, err := p.Build(context.Background(), []string{words(250)}, "t", "s")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.ChunkEmbeddings) != 0 {
		t.Errorf("len(ChunkEmbeddings) = %d, want 0", len(a.ChunkEmbeddings))
	}
	if len(a.CaseEmbedding) != 4 {
		t.Errorf("len(CaseEmbedding) = %d, want 4", len(a.CaseEmbedding))
	}
}

func TestBuildBatchesAndTruncates(t *testing.T) {
	emb := &stubEmbedder{dim: 4}
	p := NewProcessor(Config{Batch: 2, TruncChars: 100}, emb)

	a, err := p.Build(context.Background(), []string{words(1800)}, "t", "s")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Chunks) != 4 {
		t.Fatalf("len(Chunks) = %d, want 4", len(a.Chunks))
	}

	// Two chunk batches of two, then the case embedding.
	if len(emb.calls) != 3 {
		t.Fatalf("embedder calls = %d, want 3", len(emb.calls))
	}
	if len(emb.calls[0]) != 2 || len(emb.calls[1]) != 2 {
		t.Errorf("chunk batch sizes = %d, %d, want 2, 2", len(emb.calls[0]), len(emb.calls[1]))
	}
	for i, call := range emb.calls[:2] {
		for j, text := range call {
			if len(text) > 100 {
				t.Errorf("call %d text %d length = %d, want <= 100", i, j, len(text))
			}
		}
	}
}

func TestBuildEmbedderFailure(t *testing.T) {
	p := NewProcessor(Config{}, &stubEmbedder{dim: 4, err: errors.New("unreachable")})
	if _, err := p.Build(context.Background(), []string{words(250)}, "t", "s"); err == nil {
		t.Fatal("Build err = nil, want error")
	}
}
