// Package caselaw ingests Washington appellate court opinions into Postgres.
// A PDF and its metadata sheet row are parsed, analyzed by an LLM, indexed
// into retrieval artifacts, and written as one transactional case record.
package caselaw

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/llm"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/parser"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/progress"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/rag"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/store"
)

// Pipeline wires the parser, extractor, RAG processor, and store together.
type Pipeline struct {
	cfg       Config
	extractor *llm.Extractor
	processor *rag.Processor
	store     *store.Store
	tracker   *progress.Tracker
}

// New validates the config and connects every component.
func New(ctx context.Context, cfg Config) (*Pipeline, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	chat, err := llm.NewProvider(llm.Config(cfg.Chat))
	if err != nil {
		return nil, fmt.Errorf("%w: chat provider: %v", ErrInvalidConfig, err)
	}
	embed, err := llm.NewProvider(llm.Config(cfg.Embedding))
	if err != nil {
		return nil, fmt.Errorf("%w: embedding provider: %v", ErrInvalidConfig, err)
	}

	st, err := store.New(ctx, store.Config{
		DatabaseURL: cfg.DatabaseURL,
		WordBatch:   cfg.WordBatch,
	})
	if err != nil {
		return nil, err
	}

	tracker, err := progress.Open(cfg.ProgressDB)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		extractor: llm.NewExtractor(chat),
		processor: rag.NewProcessor(rag.Config{
			ChunkMode:  cfg.ChunkEmbeddings,
			Batch:      cfg.EmbeddingBatch,
			TruncChars: cfg.EmbedTruncChars,
			Phrases: rag.PhraseConfig{
				Mode:        cfg.PhraseFilter,
				Keywords:    cfg.PhraseKeywords,
				StopPhrases: cfg.StopPhrases,
			},
		}, embed),
		store:   st,
		tracker: tracker,
	}, nil
}

func validate(cfg Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("%w: database url required", ErrInvalidConfig)
	}
	switch cfg.ChunkEmbeddings {
	case "all", "important", "none":
	default:
		return fmt.Errorf("%w: chunk embeddings mode %q", ErrInvalidConfig, cfg.ChunkEmbeddings)
	}
	switch cfg.PhraseFilter {
	case "strict", "relaxed":
	default:
		return fmt.Errorf("%w: phrase filter %q", ErrInvalidConfig, cfg.PhraseFilter)
	}
	if cfg.EmbeddingDim <= 0 {
		return fmt.Errorf("%w: embedding dim %d", ErrInvalidConfig, cfg.EmbeddingDim)
	}
	return nil
}

// Close releases the store and tracker.
func (p *Pipeline) Close() {
	p.store.Close()
	p.tracker.Close()
}

// ProcessFile ingests a single PDF with its metadata row and returns the
// stored case id.
func (p *Pipeline) ProcessFile(ctx context.Context, pdfPath string, meta cases.Metadata) (int64, error) {
	return p.processFile(ctx, store.NewDimensions(), pdfPath, meta)
}

// processFile runs the whole pipeline for one case. All parsing, LLM work,
// and embedding happens before the database transaction opens, so a worker
// never holds a transaction across a network call.
func (p *Pipeline) processFile(ctx context.Context, dims *store.Dimensions, pdfPath string, meta cases.Metadata) (int64, error) {
	start := time.Now()
	sourceFile := filepath.Base(pdfPath)

	pages, err := parser.ExtractText(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrParsingFailed, sourceFile, err)
	}
	fullText := strings.Join(pages, "\n")
	slog.Debug("text extracted", "file", sourceFile, "pages", len(pages), "chars", len(fullText))

	extracted, err := p.extractor.Extract(ctx, fullText)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrExtractionFailed, sourceFile, err)
	}

	c := cases.Assemble(meta, extracted, fullText, len(pages), sourceFile)

	artifacts, err := p.buildArtifacts(ctx, pages, c.Title, extracted.Summary, fullText)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", sourceFile, err)
	}

	caseID, err := p.store.InsertCase(ctx, dims, c, artifacts)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", classifyStoreErr(err), sourceFile, err)
	}

	slog.Info("case ingested",
		"case_id", caseID,
		"file", sourceFile,
		"chunks", len(artifacts.Chunks),
		"sentences", len(artifacts.Sentences),
		"phrases", len(artifacts.Phrases),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return caseID, nil
}

// classifyStoreErr maps a store failure to the pipeline's error kind:
// artifact-phase failures are indexing errors, everything else is a
// database error.
func classifyStoreErr(err error) error {
	if errors.Is(err, store.ErrIndexing) {
		return ErrIndexingFailed
	}
	return ErrDatabaseFailed
}

// buildArtifacts produces the full RAG artifact set, or only the case-level
// embedding when RAG indexing is disabled.
func (p *Pipeline) buildArtifacts(ctx context.Context, pages []string, title, summary, fullText string) (*rag.Artifacts, error) {
	if !p.cfg.EnableRAG {
		vec, text, err := p.processor.CaseEmbedding(ctx, title, summary, fullText)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
		}
		if len(vec) != p.cfg.EmbeddingDim {
			return nil, fmt.Errorf("%w: got dimension %d, want %d", ErrEmbeddingFailed, len(vec), p.cfg.EmbeddingDim)
		}
		return &rag.Artifacts{CaseEmbedding: vec, CaseEmbeddingText: text}, nil
	}

	artifacts, err := p.processor.Build(ctx, pages, title, summary)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(artifacts.CaseEmbedding) != p.cfg.EmbeddingDim {
		return nil, fmt.Errorf("%w: got dimension %d, want %d", ErrEmbeddingFailed, len(artifacts.CaseEmbedding), p.cfg.EmbeddingDim)
	}
	return artifacts, nil
}

// BatchOptions configures a directory run.
type BatchOptions struct {
	PDFDir     string
	SheetPath  string
	Limit      int  // 0 means no limit
	Workers    int  // 0 falls back to the config value
	Sequential bool // force a single worker
	Resume     bool // skip files that succeeded in a prior run
}

// BatchResult reports the outcome counters of a batch run.
type BatchResult struct {
	RunID             string
	Attempted         int64
	Succeeded         int64
	SkippedNoMetadata int64
	Failed            int64
}

// ProcessBatch ingests every PDF in a directory, joining each file to its
// metadata row by normalized case file id. Files without a metadata row are
// counted and skipped, never fatal. Workers process whole cases
// independently; cancellation stops dispatch and lets in-flight cases finish.
func (p *Pipeline) ProcessBatch(ctx context.Context, opts BatchOptions) (*BatchResult, error) {
	sheet, err := parser.LoadSheet(opts.SheetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	files, err := listPDFs(opts.PDFDir)
	if err != nil {
		return nil, err
	}

	var done map[string]bool
	if opts.Resume {
		done, err = p.tracker.SucceededFiles(ctx)
		if err != nil {
			return nil, err
		}
	}

	var pending []string
	for _, f := range files {
		if done[filepath.Base(f)] {
			continue
		}
		pending = append(pending, f)
	}
	if opts.Limit > 0 && len(pending) > opts.Limit {
		pending = pending[:opts.Limit]
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = p.cfg.Workers
	}
	if opts.Sequential {
		workers = 1
	}

	runID, err := p.tracker.StartRun(ctx, fmt.Sprintf("dir=%s workers=%d limit=%d resume=%t",
		opts.PDFDir, workers, opts.Limit, opts.Resume))
	if err != nil {
		return nil, err
	}

	slog.Info("batch started",
		"run_id", runID,
		"files", len(pending),
		"skipped_resumed", len(files)-len(pending),
		"workers", workers,
	)

	result := &BatchResult{RunID: runID}
	var attempted, succeeded, skipped, failed atomic.Int64
	var trackerMu sync.Mutex

	record := func(file, outcome string, caseID int64, procErr error) {
		trackerMu.Lock()
		defer trackerMu.Unlock()
		if err := p.tracker.RecordOutcome(ctx, file, outcome, caseID, procErr); err != nil {
			slog.Warn("could not record outcome", "file", file, "error", err)
		}
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dims := store.NewDimensions()
			for pdfPath := range jobs {
				file := filepath.Base(pdfPath)
				attempted.Add(1)

				meta, ok := sheet.Lookup(cases.NormalizeFileID(stem(file)))
				if !ok {
					skipped.Add(1)
					slog.Warn("no metadata row, skipping", "file", file)
					record(file, progress.OutcomeSkipped, 0, fmt.Errorf("%w: %s", ErrNoMetadata, file))
					continue
				}

				caseID, err := p.processFile(ctx, dims, pdfPath, meta)
				if err != nil {
					failed.Add(1)
					slog.Error("case failed", "file", file, "error", err)
					markErr := p.store.MarkFailed(ctx,
						cases.NormalizeFileID(stem(file)), cases.DeriveCourtLevel(meta.OpinionType))
					if markErr != nil {
						slog.Warn("could not mark case failed", "file", file, "error", markErr)
					}
					record(file, progress.OutcomeFailed, 0, err)
					continue
				}
				succeeded.Add(1)
				record(file, progress.OutcomeSucceeded, caseID, nil)
			}
		}()
	}

dispatch:
	for _, f := range pending {
		select {
		case <-ctx.Done():
			slog.Warn("batch cancelled, waiting for in-flight cases")
			break dispatch
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	if err := p.tracker.FinishRun(ctx); err != nil {
		slog.Warn("could not finish run", "error", err)
	}

	result.Attempted = attempted.Load()
	result.Succeeded = succeeded.Load()
	result.SkippedNoMetadata = skipped.Load()
	result.Failed = failed.Load()

	slog.Info("batch finished",
		"run_id", runID,
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"skipped_no_metadata", result.SkippedNoMetadata,
		"failed", result.Failed,
	)
	return result, nil
}

// Verify loads the stored row counts for a case.
func (p *Pipeline) Verify(ctx context.Context, caseID int64) (*store.VerifyReport, error) {
	report, err := p.store.Verify(ctx, caseID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: case %d", ErrCaseNotFound, caseID)
	}
	return report, err
}

func listPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pdf directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func stem(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file))
}
