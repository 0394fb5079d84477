package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned by Verify for an unknown case id.
var ErrNotFound = errors.New("store: case not found")

// VerifyReport summarizes one stored case and its dependent row counts.
type VerifyReport struct {
	CaseID           int64  `json:"case_id"`
	CaseFileID       string `json:"case_file_id"`
	Title            string `json:"title"`
	CourtLevel       string `json:"court_level"`
	ProcessingStatus string `json:"processing_status"`
	Parties          int64  `json:"parties"`
	Attorneys        int64  `json:"attorneys"`
	Judges           int64  `json:"judges"`
	Issues           int64  `json:"issues"`
	Arguments        int64  `json:"arguments"`
	Citations        int64  `json:"citations"`
	StatuteCitations int64  `json:"statute_citations"`
	Chunks           int64  `json:"chunks"`
	Sentences        int64  `json:"sentences"`
	WordOccurrences  int64  `json:"word_occurrences"`
	Phrases          int64  `json:"phrases"`
	Embeddings       int64  `json:"embeddings"`
}

// Verify loads the header and dependent counts for a stored case. A missing
// case returns pgx.ErrNoRows wrapped with the case id.
func (s *Store) Verify(ctx context.Context, caseID int64) (*VerifyReport, error) {
	r := &VerifyReport{CaseID: caseID}

	err := s.pool.QueryRow(ctx, `
		SELECT case_file_id, title, court_level, processing_status
		FROM cases WHERE case_id = $1`, caseID).
		Scan(&r.CaseFileID, &r.Title, &r.CourtLevel, &r.ProcessingStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("case %d: %w", caseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading case %d: %w", caseID, err)
	}

	counts := []struct {
		dst *int64
		sql string
	}{
		{&r.Parties, "SELECT COUNT(*) FROM parties WHERE case_id = $1"},
		{&r.Attorneys, "SELECT COUNT(*) FROM attorneys WHERE case_id = $1"},
		{&r.Judges, "SELECT COUNT(*) FROM case_judges WHERE case_id = $1"},
		{&r.Issues, "SELECT COUNT(*) FROM issue_decisions WHERE case_id = $1"},
		{&r.Arguments, "SELECT COUNT(*) FROM arguments WHERE issue_id IN (SELECT issue_id FROM issue_decisions WHERE case_id = $1)"},
		{&r.Citations, "SELECT COUNT(*) FROM citation_edges WHERE source_case_id = $1"},
		{&r.StatuteCitations, "SELECT COUNT(*) FROM statute_citations WHERE case_id = $1"},
		{&r.Chunks, "SELECT COUNT(*) FROM case_chunks WHERE case_id = $1"},
		{&r.Sentences, "SELECT COUNT(*) FROM case_sentences WHERE case_id = $1"},
		{&r.WordOccurrences, "SELECT COUNT(*) FROM word_occurrences WHERE case_id = $1"},
		{&r.Phrases, "SELECT COUNT(*) FROM case_phrases WHERE case_id = $1"},
		{&r.Embeddings, "SELECT COUNT(*) FROM embeddings WHERE case_id = $1"},
	}
	for _, c := range counts {
		if err := s.pool.QueryRow(ctx, c.sql, caseID).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting rows for case %d: %w", caseID, err)
		}
	}
	return r, nil
}
