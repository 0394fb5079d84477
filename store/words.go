package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/rag"
)

// wordRef locates one token occurrence inside a stored sentence.
type wordRef struct {
	word       string
	chunkID    int64
	sentenceID int64
	position   int
}

// buildWordRefs flattens sentence tokens into occurrence rows. Positions are
// the 0-based token indices, so each sentence's positions are exactly
// 0..word_count-1.
func buildWordRefs(sentences []rag.Sentence, chunkIDs, sentenceIDs []int64) []wordRef {
	var refs []wordRef
	for i, sent := range sentences {
		for pos, token := range sent.Tokens {
			refs = append(refs, wordRef{
				word:       token,
				chunkID:    chunkIDs[sent.ChunkIndex],
				sentenceID: sentenceIDs[i],
				position:   pos,
			})
		}
	}
	return refs
}

// insertWords populates word_dictionary and word_occurrences for one case,
// batching multi-row inserts at the configured batch size. New dictionary
// entries are inserted with DO NOTHING; ids are then resolved with a single
// select per batch so concurrent workers inserting the same word agree.
func (s *Store) insertWords(ctx context.Context, tx pgx.Tx, caseID int64, refs []wordRef) error {
	if len(refs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(refs))
	words := make([]string, 0, len(refs))
	for _, r := range refs {
		if _, ok := seen[r.word]; ok {
			continue
		}
		seen[r.word] = struct{}{}
		words = append(words, r.word)
	}

	ids := make(map[string]int64, len(words))
	for start := 0; start < len(words); start += s.wordBatch {
		end := min(start+s.wordBatch, len(words))
		if err := s.upsertWordBatch(ctx, tx, words[start:end], ids); err != nil {
			return err
		}
	}

	for start := 0; start < len(refs); start += s.wordBatch {
		end := min(start+s.wordBatch, len(refs))
		if err := insertOccurrenceBatch(ctx, tx, caseID, refs[start:end], ids); err != nil {
			return err
		}
	}

	return updateDocumentFrequencies(ctx, tx, caseID)
}

func (s *Store) upsertWordBatch(ctx context.Context, tx pgx.Tx, batch []string, ids map[string]int64) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO word_dictionary (word) VALUES ")
	args := make([]any, len(batch))
	for i, w := range batch {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "($%d)", i+1)
		args[i] = w
	}
	sb.WriteString(" ON CONFLICT (word) DO NOTHING")

	if _, err := tx.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("inserting word batch: %w", err)
	}

	rows, err := tx.Query(ctx,
		"SELECT word_id, word FROM word_dictionary WHERE word = ANY($1)", batch)
	if err != nil {
		return fmt.Errorf("resolving word ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var word string
		if err := rows.Scan(&id, &word); err != nil {
			return fmt.Errorf("scanning word id: %w", err)
		}
		ids[word] = id
	}
	return rows.Err()
}

func insertOccurrenceBatch(ctx context.Context, tx pgx.Tx, caseID int64, batch []wordRef, ids map[string]int64) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO word_occurrences (word_id, case_id, chunk_id, sentence_id, position) VALUES ")
	args := make([]any, 0, len(batch)*5)
	for i, r := range batch {
		id, ok := ids[r.word]
		if !ok {
			return fmt.Errorf("word %q missing from dictionary after upsert", r.word)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		n := len(args)
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d)", n+1, n+2, n+3, n+4, n+5)
		args = append(args, id, caseID, r.chunkID, r.sentenceID, r.position)
	}

	if _, err := tx.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("inserting occurrence batch: %w", err)
	}
	return nil
}

// updateDocumentFrequencies recomputes df for every word that occurs in the
// given case. df counts distinct cases, so only the touched words need a
// refresh after ingestion.
func updateDocumentFrequencies(ctx context.Context, tx pgx.Tx, caseID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE word_dictionary w SET df = sub.df
		FROM (
			SELECT word_id, COUNT(DISTINCT case_id) AS df
			FROM word_occurrences
			WHERE word_id IN (
				SELECT DISTINCT word_id FROM word_occurrences WHERE case_id = $1
			)
			GROUP BY word_id
		) sub
		WHERE w.word_id = sub.word_id`, caseID)
	if err != nil {
		return fmt.Errorf("updating document frequencies: %w", err)
	}
	return nil
}
