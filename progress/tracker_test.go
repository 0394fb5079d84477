package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { tr.Close() })
	return tr
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	tr := openTestTracker(t)

	runID, err := tr.StartRun(ctx, "--batch --workers 4")
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	if err := tr.RecordOutcome(ctx, "a.pdf", OutcomeSucceeded, 1, nil); err != nil {
		t.Fatalf("RecordOutcome succeeded: %v", err)
	}
	if err := tr.RecordOutcome(ctx, "b.pdf", OutcomeSkipped, 0, nil); err != nil {
		t.Fatalf("RecordOutcome skipped: %v", err)
	}
	if err := tr.RecordOutcome(ctx, "c.pdf", OutcomeFailed, 0, errors.New("no text")); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if err := tr.FinishRun(ctx); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	var attempted, succeeded, skipped, failed int
	err = tr.db.QueryRow(
		"SELECT attempted, succeeded, skipped, failed FROM runs WHERE run_id = ?", runID).
		Scan(&attempted, &succeeded, &skipped, &failed)
	if err != nil {
		t.Fatalf("reading run counters: %v", err)
	}
	if attempted != 3 || succeeded != 1 || skipped != 1 || failed != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 3/1/1/1", attempted, succeeded, skipped, failed)
	}
}

func TestRecordOutcomeReplacesPrior(t *testing.T) {
	ctx := context.Background()
	tr := openTestTracker(t)
	if _, err := tr.StartRun(ctx, ""); err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	if err := tr.RecordOutcome(ctx, "a.pdf", OutcomeFailed, 0, errors.New("transient")); err != nil {
		t.Fatalf("first outcome: %v", err)
	}
	if err := tr.RecordOutcome(ctx, "a.pdf", OutcomeSucceeded, 7, nil); err != nil {
		t.Fatalf("second outcome: %v", err)
	}

	files, err := tr.SucceededFiles(ctx)
	if err != nil {
		t.Fatalf("SucceededFiles: %v", err)
	}
	if !files["a.pdf"] {
		t.Error("a.pdf not reported as succeeded after replacement")
	}
}

func TestSucceededFilesSpansRuns(t *testing.T) {
	ctx := context.Background()
	tr := openTestTracker(t)

	if _, err := tr.StartRun(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := tr.RecordOutcome(ctx, "a.pdf", OutcomeSucceeded, 1, nil); err != nil {
		t.Fatal(err)
	}
	if err := tr.FinishRun(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := tr.StartRun(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := tr.RecordOutcome(ctx, "b.pdf", OutcomeSucceeded, 2, nil); err != nil {
		t.Fatal(err)
	}

	files, err := tr.SucceededFiles(ctx)
	if err != nil {
		t.Fatalf("SucceededFiles: %v", err)
	}
	if !files["a.pdf"] || !files["b.pdf"] {
		t.Errorf("files = %v, want both runs' successes", files)
	}
	if files["c.pdf"] {
		t.Error("unexpected file reported")
	}
}

func TestRecordOutcomeWithoutRun(t *testing.T) {
	tr := openTestTracker(t)
	if err := tr.RecordOutcome(context.Background(), "a.pdf", OutcomeSucceeded, 1, nil); err == nil {
		t.Fatal("RecordOutcome err = nil, want error without active run")
	}
}
