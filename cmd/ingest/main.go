package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	caselaw "github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/parser"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to config file (JSON)")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")

		pdfPath   = flag.String("pdf", "", "Single PDF file to ingest")
		sheetPath = flag.String("csv", "", "Metadata sheet (.csv or .xlsx)")
		row       = flag.Int("row", 0, "1-based sheet row for the single PDF (default: match by file id)")

		batch      = flag.Bool("batch", false, "Ingest every PDF in --pdf-dir")
		pdfDir     = flag.String("pdf-dir", "", "Directory of PDFs for batch mode")
		limit      = flag.Int("limit", 0, "Maximum number of files to process (0 = all)")
		workers    = flag.Int("workers", 0, "Parallel case workers (default: config value)")
		sequential = flag.Bool("sequential", false, "Process files one at a time")
		resume     = flag.Bool("resume", false, "Skip files that succeeded in a prior run")

		chunkEmbeddings = flag.String("chunk-embeddings", "", "Chunk embedding mode: all, important, none")
		phraseFilter    = flag.String("phrase-filter", "", "Phrase filter mode: strict, relaxed")
		noRAG           = flag.Bool("no-rag", false, "Skip chunk/sentence/word/phrase indexing")

		verify = flag.Bool("verify", false, "Print stored row counts for --case-id")
		caseID = flag.Int64("case-id", 0, "Case id for --verify")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg := caselaw.DefaultConfig()
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			slog.Error("opening config", "error", err)
			os.Exit(1)
		}
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			f.Close()
			slog.Error("parsing config", "error", err)
			os.Exit(1)
		}
		f.Close()
	}
	cfg.LoadEnv()

	if *chunkEmbeddings != "" {
		cfg.ChunkEmbeddings = *chunkEmbeddings
	}
	if *phraseFilter != "" {
		cfg.PhraseFilter = *phraseFilter
	}
	if *noRAG {
		cfg.EnableRAG = false
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := caselaw.New(ctx, cfg)
	if err != nil {
		slog.Error("initializing pipeline", "error", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	switch {
	case *verify:
		if *caseID <= 0 {
			slog.Error("--verify requires --case-id")
			os.Exit(2)
		}
		runVerify(ctx, pipeline, *caseID)

	case *batch:
		if *pdfDir == "" || *sheetPath == "" {
			slog.Error("--batch requires --pdf-dir and --csv")
			os.Exit(2)
		}
		result, err := pipeline.ProcessBatch(ctx, caselaw.BatchOptions{
			PDFDir:     *pdfDir,
			SheetPath:  *sheetPath,
			Limit:      *limit,
			Workers:    *workers,
			Sequential: *sequential,
			Resume:     *resume,
		})
		if err != nil {
			slog.Error("batch failed", "error", err)
			os.Exit(1)
		}
		if result.Failed > 0 {
			os.Exit(1)
		}

	case *pdfPath != "":
		if *sheetPath == "" {
			slog.Error("--pdf requires --csv")
			os.Exit(2)
		}
		meta, err := lookupRow(*sheetPath, *pdfPath, *row)
		if err != nil {
			slog.Error("resolving metadata row", "error", err)
			os.Exit(1)
		}
		id, err := pipeline.ProcessFile(ctx, *pdfPath, meta)
		if err != nil {
			slog.Error("ingestion failed", "file", *pdfPath, "error", err)
			os.Exit(1)
		}
		fmt.Printf("case_id=%d\n", id)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// lookupRow resolves the metadata row for a single PDF, either by explicit
// 1-based row number or by normalized case file id.
func lookupRow(sheetPath, pdfPath string, row int) (cases.Metadata, error) {
	sheet, err := parser.LoadSheet(sheetPath)
	if err != nil {
		return cases.Metadata{}, err
	}

	if row > 0 {
		meta, ok := sheet.Row(row)
		if !ok {
			return cases.Metadata{}, fmt.Errorf("sheet has no row %d", row)
		}
		return meta, nil
	}

	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	meta, ok := sheet.Lookup(cases.NormalizeFileID(stem))
	if !ok {
		return cases.Metadata{}, fmt.Errorf("%w: %s", caselaw.ErrNoMetadata, base)
	}
	return meta, nil
}

func runVerify(ctx context.Context, pipeline *caselaw.Pipeline, caseID int64) {
	report, err := pipeline.Verify(ctx, caseID)
	if err != nil {
		slog.Error("verify failed", "case_id", caseID, "error", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
}
