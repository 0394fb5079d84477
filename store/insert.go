package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/rag"
)

// InsertCase writes one case and all its dependents in a single transaction
// and returns the case id. If the case already exists for its (normalized
// file id, court level) key, its row is updated and every dependent is
// deleted and re-inserted. A deadlock aborts the transaction and the whole
// case is retried once with a cleared dimension cache.
func (s *Store) InsertCase(ctx context.Context, dims *Dimensions, c cases.Case, artifacts *rag.Artifacts) (int64, error) {
	var caseID int64
	run := func() error {
		return s.inTx(ctx, func(tx pgx.Tx) error {
			id, err := s.insertCaseTx(ctx, tx, dims, c, artifacts)
			caseID = id
			return err
		})
	}

	err := run()
	if isDeadlock(err) {
		slog.Warn("deadlock during case insert, retrying once", "case_file_id", c.FileID)
		dims.Reset()
		err = run()
	}
	if err != nil {
		dims.Reset()
		return 0, err
	}
	return caseID, nil
}

func (s *Store) insertCaseTx(ctx context.Context, tx pgx.Tx, dims *Dimensions, c cases.Case, artifacts *rag.Artifacts) (int64, error) {
	var courtID, caseTypeID *int64
	if c.CourtName != "" {
		id, err := dims.EnsureCourt(ctx, tx, c.CourtName, c.CourtLevel, c.District, c.County)
		if err != nil {
			return 0, err
		}
		courtID = &id
	}
	if c.Extracted.CaseType != "" {
		id, err := dims.EnsureCaseType(ctx, tx, c.Extracted.CaseType)
		if err != nil {
			return 0, err
		}
		caseTypeID = &id
	}
	stageTypeID, err := dims.EnsureStageType(ctx, tx, "appeal")
	if err != nil {
		return 0, err
	}
	docTypeID, err := dims.EnsureDocumentType(ctx, tx, "Appellate Opinion", "court", "case_outcome", true, true)
	if err != nil {
		return 0, err
	}

	caseID, inserted, err := upsertCase(ctx, tx, c, courtID, caseTypeID, stageTypeID)
	if err != nil {
		return 0, err
	}
	if !inserted {
		slog.Info("case exists, replacing dependents", "case_id", caseID, "case_file_id", c.FileID)
		if err := deleteDependents(ctx, tx, caseID); err != nil {
			return 0, err
		}
	}

	if err := insertParticipants(ctx, tx, dims, caseID, c.Extracted); err != nil {
		return 0, err
	}
	if err := insertIssues(ctx, tx, dims, caseID, c.Extracted); err != nil {
		return 0, err
	}
	if err := insertCitations(ctx, tx, dims, caseID, c.Extracted); err != nil {
		return 0, err
	}

	var documentID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO documents (case_id, document_type_id, file_name, page_count)
		VALUES ($1, $2, $3, $4)
		RETURNING document_id`,
		caseID, docTypeID, c.SourceFile, c.PageCount).Scan(&documentID)
	if err != nil {
		return 0, fmt.Errorf("inserting document: %w", err)
	}

	if err := setStatus(ctx, tx, caseID, "ai_processed"); err != nil {
		return 0, err
	}

	if artifacts != nil {
		if err := s.insertArtifacts(ctx, tx, caseID, documentID, artifacts); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrIndexing, err)
		}
		if len(artifacts.CaseEmbedding) > 0 || len(artifacts.ChunkEmbeddings) > 0 {
			if err := setStatus(ctx, tx, caseID, "embedded"); err != nil {
				return 0, err
			}
		}
	}

	if err := setStatus(ctx, tx, caseID, "fully_processed"); err != nil {
		return 0, err
	}
	return caseID, nil
}

// upsertCaseSQL's column list must stay in step with caseRowArgs.
const upsertCaseSQL = `
	INSERT INTO cases (
		case_file_id, case_file_id_normalized, court_id, case_type_id,
		stage_type_id, title, docket_number, court_level, district, county,
		decision_year, decision_month, appeal_published_date,
		publication_status, published, opinion_type, summary, full_text,
		processing_status, appeal_outcome, winner_legal_role,
		winner_personal_role, trial_judge, source_docket_number,
		oral_argument_date, opinion_filed_date, source_file
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, 'text_extracted', $19, $20, $21, $22, $23, $24, $25, $26
	)
	ON CONFLICT (case_file_id_normalized, lower(court_level)) DO UPDATE SET
		case_file_id = EXCLUDED.case_file_id,
		court_id = EXCLUDED.court_id,
		case_type_id = EXCLUDED.case_type_id,
		stage_type_id = EXCLUDED.stage_type_id,
		title = EXCLUDED.title,
		docket_number = EXCLUDED.docket_number,
		district = EXCLUDED.district,
		county = EXCLUDED.county,
		decision_year = EXCLUDED.decision_year,
		decision_month = EXCLUDED.decision_month,
		appeal_published_date = EXCLUDED.appeal_published_date,
		publication_status = EXCLUDED.publication_status,
		published = EXCLUDED.published,
		opinion_type = EXCLUDED.opinion_type,
		summary = EXCLUDED.summary,
		full_text = EXCLUDED.full_text,
		processing_status = 'text_extracted',
		appeal_outcome = EXCLUDED.appeal_outcome,
		winner_legal_role = EXCLUDED.winner_legal_role,
		winner_personal_role = EXCLUDED.winner_personal_role,
		trial_judge = EXCLUDED.trial_judge,
		source_docket_number = EXCLUDED.source_docket_number,
		oral_argument_date = EXCLUDED.oral_argument_date,
		opinion_filed_date = EXCLUDED.opinion_filed_date,
		source_file = EXCLUDED.source_file,
		extraction_timestamp = now()
	RETURNING case_id, (xmax = 0) AS inserted`

// caseRowArgs orders the case row values to match upsertCaseSQL's
// placeholders.
func caseRowArgs(c cases.Case, courtID, caseTypeID *int64, stageTypeID int64) []any {
	return []any{
		c.FileID, c.FileIDNormalized, courtID, caseTypeID, stageTypeID,
		c.Title, nullStr(c.DocketNumber), c.CourtLevel, nullStr(c.District),
		nullStr(c.County), nullInt(c.DecisionYear), nullStr(c.DecisionMonth),
		c.PublishedDate, nullStr(c.PublicationStatus), c.Published,
		nullStr(c.OpinionType), nullStr(c.Extracted.Summary), c.FullText,
		nullStr(c.Extracted.Disposition), nullStr(deriveWinnerLegalRole(c.Extracted.Issues)),
		nullStr(c.Extracted.WinnerRole), nullStr(c.Extracted.TrialJudge),
		nullStr(c.Extracted.SourceDocket), c.Extracted.OralArgumentDate,
		c.Extracted.OpinionFiledDate, c.SourceFile,
	}
}

// upsertCase inserts or updates the case row on its natural key and reports
// whether the row was newly inserted (xmax = 0 on a fresh row).
func upsertCase(ctx context.Context, tx pgx.Tx, c cases.Case, courtID, caseTypeID *int64, stageTypeID int64) (int64, bool, error) {
	var (
		caseID   int64
		inserted bool
	)
	err := tx.QueryRow(ctx, upsertCaseSQL,
		caseRowArgs(c, courtID, caseTypeID, stageTypeID)...,
	).Scan(&caseID, &inserted)
	if err != nil {
		return 0, false, fmt.Errorf("upserting case %q: %w", c.FileID, err)
	}
	return caseID, inserted, nil
}

// deleteDependents removes every dependent row of a case before re-insert.
// Children of issues go first so the deletes never trip a foreign key.
func deleteDependents(ctx context.Context, tx pgx.Tx, caseID int64) error {
	stmts := []string{
		"DELETE FROM word_occurrences WHERE case_id = $1",
		"DELETE FROM case_phrases WHERE case_id = $1",
		"DELETE FROM embeddings WHERE case_id = $1",
		"DELETE FROM case_sentences WHERE case_id = $1",
		"DELETE FROM case_chunks WHERE case_id = $1",
		"DELETE FROM arguments WHERE issue_id IN (SELECT issue_id FROM issue_decisions WHERE case_id = $1)",
		"DELETE FROM issue_rcws WHERE issue_id IN (SELECT issue_id FROM issue_decisions WHERE case_id = $1)",
		"DELETE FROM issue_decisions WHERE case_id = $1",
		"DELETE FROM citation_edges WHERE source_case_id = $1",
		"DELETE FROM statute_citations WHERE case_id = $1",
		"DELETE FROM parties WHERE case_id = $1",
		"DELETE FROM attorneys WHERE case_id = $1",
		"DELETE FROM case_judges WHERE case_id = $1",
		"DELETE FROM documents WHERE case_id = $1",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt, caseID); err != nil {
			return fmt.Errorf("deleting dependents: %w", err)
		}
	}
	return nil
}

func insertParticipants(ctx context.Context, tx pgx.Tx, dims *Dimensions, caseID int64, ex cases.ExtractedCase) error {
	for _, p := range ex.Parties {
		_, err := tx.Exec(ctx, `
			INSERT INTO parties (case_id, name, legal_role, personal_role, party_type)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''))`,
			caseID, p.Name, p.LegalRole, p.PersonalRole, p.Type)
		if err != nil {
			return fmt.Errorf("inserting party %q: %w", p.Name, err)
		}
	}

	for _, a := range ex.Attorneys {
		_, err := tx.Exec(ctx, `
			INSERT INTO attorneys (case_id, name, firm, representing_role)
			VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))`,
			caseID, a.Name, a.Firm, a.Representing)
		if err != nil {
			return fmt.Errorf("inserting attorney %q: %w", a.Name, err)
		}
	}

	for _, j := range ex.Judges {
		judgeID, err := dims.EnsureJudge(ctx, tx, j.Name)
		if err != nil {
			return err
		}
		// A judge can appear twice in a sloppy panel listing; keep the
		// last role seen.
		_, err = tx.Exec(ctx, `
			INSERT INTO case_judges (case_id, judge_id, role)
			VALUES ($1, $2, $3)
			ON CONFLICT (case_id, judge_id) DO UPDATE SET role = EXCLUDED.role`,
			caseID, judgeID, j.Role)
		if err != nil {
			return fmt.Errorf("inserting case judge %q: %w", j.Name, err)
		}
	}
	return nil
}

func insertIssues(ctx context.Context, tx pgx.Tx, dims *Dimensions, caseID int64, ex cases.ExtractedCase) error {
	for _, issue := range ex.Issues {
		root := issue.CaseType
		if root == "" {
			root = ex.CaseType
		}
		if root == "" {
			root = "General"
		}
		taxonomyID, err := dims.EnsureTaxonomyPath(ctx, tx, root, issue.Category, issue.Subcategory)
		if err != nil {
			return err
		}

		var issueID int64
		err = tx.QueryRow(ctx, `
			INSERT INTO issue_decisions (
				case_id, issue_summary, decision_summary, issue_outcome,
				winner_legal_role, winner_personal_role, keywords, taxonomy_id
			) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)
			RETURNING issue_id`,
			caseID, issue.Question, issue.Ruling, issue.Outcome,
			issue.WinnerLegalRole, issue.WinnerPersonalRole, issue.Keywords,
			taxonomyID).Scan(&issueID)
		if err != nil {
			return fmt.Errorf("inserting issue: %w", err)
		}

		sides := []struct {
			side string
			text string
		}{
			{"appellant", issue.AppellantArgument},
			{"respondent", issue.RespondentArgument},
		}
		for _, arg := range sides {
			if strings.TrimSpace(arg.text) == "" {
				continue
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO arguments (issue_id, side, text) VALUES ($1, $2, $3)`,
				issueID, arg.side, arg.text)
			if err != nil {
				return fmt.Errorf("inserting %s argument: %w", arg.side, err)
			}
		}

		for _, rcw := range issue.RelatedRCWs {
			if strings.TrimSpace(rcw) == "" {
				continue
			}
			statuteID, err := dims.EnsureStatute(ctx, tx, rcw)
			if err != nil {
				return err
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO issue_rcws (issue_id, rcw_id) VALUES ($1, $2)
				ON CONFLICT DO NOTHING`, issueID, statuteID)
			if err != nil {
				return fmt.Errorf("linking issue statute %q: %w", rcw, err)
			}
		}
	}
	return nil
}

func insertCitations(ctx context.Context, tx pgx.Tx, dims *Dimensions, caseID int64, ex cases.ExtractedCase) error {
	for _, cit := range ex.Citations {
		_, err := tx.Exec(ctx, `
			INSERT INTO citation_edges (source_case_id, target_case_citation, target_case_name, relationship)
			VALUES ($1, $2, NULLIF($3, ''), $4)`,
			caseID, cit.FullCitation, cit.CaseName, cit.Relationship)
		if err != nil {
			return fmt.Errorf("inserting citation %q: %w", cit.FullCitation, err)
		}
	}

	seen := make(map[int64]bool)
	for _, statute := range ex.Statutes {
		if strings.TrimSpace(statute) == "" {
			continue
		}
		statuteID, err := dims.EnsureStatute(ctx, tx, statute)
		if err != nil {
			return err
		}
		if seen[statuteID] {
			continue
		}
		seen[statuteID] = true
		_, err = tx.Exec(ctx, `
			INSERT INTO statute_citations (case_id, statute_id, context)
			VALUES ($1, $2, $3)`, caseID, statuteID, statute)
		if err != nil {
			return fmt.Errorf("inserting statute citation %q: %w", statute, err)
		}
	}
	return nil
}

// insertArtifacts writes chunks, sentences, words, phrases, and embeddings.
// Chunk and sentence ids are captured as they insert so the later tables can
// reference them by the in-memory indices the artifacts carry.
func (s *Store) insertArtifacts(ctx context.Context, tx pgx.Tx, caseID, documentID int64, a *rag.Artifacts) error {
	sentenceCounts := make(map[int]int)
	for _, sent := range a.Sentences {
		sentenceCounts[sent.ChunkIndex]++
	}

	chunkIDs := make([]int64, len(a.Chunks))
	for i, ch := range a.Chunks {
		err := tx.QueryRow(ctx, `
			INSERT INTO case_chunks (case_id, chunk_order, section, chunk_text, word_count, sentence_count)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING chunk_id`,
			caseID, ch.Order, ch.Section, ch.Text, ch.WordCount, sentenceCounts[i]).Scan(&chunkIDs[i])
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", ch.Order, err)
		}
	}

	sentenceIDs := make([]int64, len(a.Sentences))
	for i, sent := range a.Sentences {
		err := tx.QueryRow(ctx, `
			INSERT INTO case_sentences (case_id, chunk_id, sentence_order, global_sentence_order, sentence_text, word_count)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING sentence_id`,
			caseID, chunkIDs[sent.ChunkIndex], sent.Order, sent.GlobalOrder,
			sent.Text, sent.WordCount).Scan(&sentenceIDs[i])
		if err != nil {
			return fmt.Errorf("inserting sentence %d: %w", sent.GlobalOrder, err)
		}
	}

	if err := s.insertWords(ctx, tx, caseID, buildWordRefs(a.Sentences, chunkIDs, sentenceIDs)); err != nil {
		return err
	}

	for _, p := range a.Phrases {
		_, err := tx.Exec(ctx, `
			INSERT INTO case_phrases (case_id, phrase, n, frequency, example_sentence_id, example_chunk_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			caseID, p.Text, p.N, p.Frequency,
			sentenceIDs[p.ExampleSentence], chunkIDs[p.ExampleChunk])
		if err != nil {
			return fmt.Errorf("inserting phrase %q: %w", p.Text, err)
		}
	}

	for i, ch := range a.Chunks {
		vec, ok := a.ChunkEmbeddings[i]
		if !ok {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO embeddings (case_id, chunk_id, document_id, embed_text, embedding, chunk_order, section)
			VALUES ($1, $2, $3, $4, $5::vector, $6, $7)`,
			caseID, chunkIDs[i], documentID, ch.Text, formatVector(vec), ch.Order, ch.Section)
		if err != nil {
			return fmt.Errorf("inserting chunk embedding %d: %w", ch.Order, err)
		}
	}

	if len(a.CaseEmbedding) > 0 {
		_, err := tx.Exec(ctx, `
			INSERT INTO embeddings (case_id, chunk_id, document_id, embed_text, embedding)
			VALUES ($1, NULL, $2, $3, $4::vector)`,
			caseID, documentID, a.CaseEmbeddingText, formatVector(a.CaseEmbedding))
		if err != nil {
			return fmt.Errorf("inserting case embedding: %w", err)
		}
	}
	return nil
}

func setStatus(ctx context.Context, tx pgx.Tx, caseID int64, status string) error {
	if _, err := tx.Exec(ctx, `UPDATE cases SET processing_status = $2 WHERE case_id = $1`, caseID, status); err != nil {
		return fmt.Errorf("setting status %q: %w", status, err)
	}
	return nil
}

// MarkFailed stamps 'failed' on the case row matching the full natural key,
// outside any transaction. The insert transaction rolls back whole, so this
// only touches a row left over from an earlier successful ingestion; a
// sibling case sharing the same digits at another court level is untouched.
func (s *Store) MarkFailed(ctx context.Context, fileIDNormalized, courtLevel string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE cases SET processing_status = 'failed'
		WHERE case_file_id_normalized = $1 AND lower(court_level) = lower($2)`,
		fileIDNormalized, courtLevel)
	if err != nil {
		return fmt.Errorf("marking case %q failed: %w", fileIDNormalized, err)
	}
	return nil
}

// deriveWinnerLegalRole picks the most frequent issue-level winner as the
// case-level winner, empty when no issue names one.
func deriveWinnerLegalRole(issues []cases.Issue) string {
	counts := make(map[string]int)
	best := ""
	for _, issue := range issues {
		role := strings.TrimSpace(issue.WinnerLegalRole)
		if role == "" {
			continue
		}
		counts[role]++
		if best == "" || counts[role] > counts[best] {
			best = role
		}
	}
	return best
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
