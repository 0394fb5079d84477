package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/chunker"
)

// Embedder generates fixed-dimension vectors for a batch of texts, in
// request order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Sentence is one segmented sentence with its dense orderings and tokens.
type Sentence struct {
	ChunkIndex  int // index into the case's chunk slice
	Order       int // 1..M within its chunk
	GlobalOrder int // 1..K across the case
	Text        string
	Tokens      []string
	WordCount   int
}

// Artifacts holds everything the RAG write path stores for one case.
type Artifacts struct {
	Chunks            []chunker.Chunk
	Sentences         []Sentence
	Phrases           []Phrase
	ChunkEmbeddings   map[int][]float32 // chunk index -> vector
	CaseEmbedding     []float32
	CaseEmbeddingText string
}

// Config controls chunking, phrase filtering, and embedding selection.
type Config struct {
	ChunkMode  string // all, important, none
	Batch      int    // texts per embedding request
	TruncChars int    // per-text character cap for embedding inputs
	Phrases    PhraseConfig
	Chunker    chunker.Config
}

// Processor composes chunking, sentence segmentation, tokenization, phrase
// extraction, and embedding generation.
type Processor struct {
	cfg      Config
	chunker  *chunker.Chunker
	phrases  *PhraseExtractor
	embedder Embedder
}

// NewProcessor returns a Processor. Zero-value config fields are replaced
// with defaults.
func NewProcessor(cfg Config, embedder Embedder) *Processor {
	if cfg.ChunkMode == "" {
		cfg.ChunkMode = "all"
	}
	if cfg.Batch == 0 {
		cfg.Batch = 25
	}
	if cfg.TruncChars == 0 {
		cfg.TruncChars = 4000
	}
	return &Processor{
		cfg:      cfg,
		chunker:  chunker.New(cfg.Chunker),
		phrases:  NewPhraseExtractor(cfg.Phrases),
		embedder: embedder,
	}
}

// importantSections are the chunk sections embedded in "important" mode.
var importantSections = map[string]bool{
	"FACTS":    true,
	"ANALYSIS": true,
	"HOLDING":  true,
}

// Build produces the full artifact set for one case: ordered chunks,
// sentences with dense global ordering, tokens, aggregated phrases, chunk
// embeddings per the configured mode, and the case-level embedding.
func (p *Processor) Build(ctx context.Context, pages []string, title, summary string) (*Artifacts, error) {
	start := time.Now()

	a := &Artifacts{
		Chunks:          p.chunker.Chunk(pages),
		ChunkEmbeddings: make(map[int][]float32),
	}

	global := 0
	for ci := range a.Chunks {
		for order, text := range SplitSentences(a.Chunks[ci].Text) {
			tokens := Tokenize(text)
			global++
			a.Sentences = append(a.Sentences, Sentence{
				ChunkIndex:  ci,
				Order:       order + 1,
				GlobalOrder: global,
				Text:        text,
				Tokens:      tokens,
				WordCount:   len(tokens),
			})
		}
	}

	a.Phrases = p.phrases.Extract(a.Sentences)

	if err := p.embedChunks(ctx, a); err != nil {
		return nil, err
	}

	vec, text, err := p.CaseEmbedding(ctx, title, summary, strings.Join(pages, "\n\n"))
	if err != nil {
		return nil, err
	}
	a.CaseEmbedding = vec
	a.CaseEmbeddingText = text

	slog.Debug("rag artifacts built",
		"chunks", len(a.Chunks),
		"sentences", len(a.Sentences),
		"phrases", len(a.Phrases),
		"chunk_embeddings", len(a.ChunkEmbeddings),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return a, nil
}

// CaseEmbedding generates the single case-level vector from the title,
// summary, and head of the opinion text. It is produced in every embedding
// mode, including none.
func (p *Processor) CaseEmbedding(ctx context.Context, title, summary, fullText string) ([]float32, string, error) {
	text := strings.TrimSpace(title + "\n\n" + summary + "\n\n" + truncate(fullText, p.cfg.TruncChars))
	vecs, err := p.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, "", fmt.Errorf("case embedding: %w", err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, "", fmt.Errorf("case embedding: got %d vectors, want 1", len(vecs))
	}
	return vecs[0], text, nil
}

// embedChunks generates chunk embeddings for the indices selected by the
// configured mode, in batches.
func (p *Processor) embedChunks(ctx context.Context, a *Artifacts) error {
	var indices []int
	for i, ch := range a.Chunks {
		switch p.cfg.ChunkMode {
		case "none":
		case "important":
			if importantSections[ch.Section] {
				indices = append(indices, i)
			}
		default:
			indices = append(indices, i)
		}
	}

	for start := 0; start < len(indices); start += p.cfg.Batch {
		end := start + p.cfg.Batch
		if end > len(indices) {
			end = len(indices)
		}
		batch := indices[start:end]

		texts := make([]string, len(batch))
		for i, ci := range batch {
			texts[i] = truncate(a.Chunks[ci].Text, p.cfg.TruncChars)
		}

		vecs, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunk batch at %d: %w", start, err)
		}
		if len(vecs) != len(texts) {
			return fmt.Errorf("embedding chunk batch at %d: got %d vectors, want %d", start, len(vecs), len(texts))
		}
		for i, ci := range batch {
			a.ChunkEmbeddings[ci] = vecs[i]
		}
	}
	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
