package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
)

// Dimensions caches dimension-table ids for one worker. Entries are added
// only after the owning upsert succeeds; the cache must be Reset when a case
// transaction rolls back, since the upsert may have rolled back with it.
// Keys are case-folded to match the lower() unique indexes.
type Dimensions struct {
	caseTypes  map[string]int64
	stageTypes map[string]int64
	docTypes   map[string]int64
	courts     map[string]int64
	taxonomy   map[string]int64
	statutes   map[string]int64
	judges     map[string]int64
}

// NewDimensions returns an empty dimension cache.
func NewDimensions() *Dimensions {
	d := &Dimensions{}
	d.Reset()
	return d
}

// Reset discards all cached ids.
func (d *Dimensions) Reset() {
	d.caseTypes = make(map[string]int64)
	d.stageTypes = make(map[string]int64)
	d.docTypes = make(map[string]int64)
	d.courts = make(map[string]int64)
	d.taxonomy = make(map[string]int64)
	d.statutes = make(map[string]int64)
	d.judges = make(map[string]int64)
}

// dimKey builds a case-folded cache key, matching how the database compares
// the natural key.
func dimKey(parts ...string) string {
	return strings.ToLower(strings.Join(parts, "|"))
}

// EnsureCaseType upserts a case type by name and returns its id.
func (d *Dimensions) EnsureCaseType(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty case type name")
	}
	key := dimKey(name)
	if id, ok := d.caseTypes[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO case_types (name) VALUES ($1)
		ON CONFLICT (lower(name)) DO UPDATE SET name = EXCLUDED.name
		RETURNING case_type_id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting case type %q: %w", name, err)
	}
	d.caseTypes[key] = id
	return id, nil
}

// EnsureStageType upserts a stage type by name and returns its id.
func (d *Dimensions) EnsureStageType(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty stage type name")
	}
	key := dimKey(name)
	if id, ok := d.stageTypes[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO stage_types (name) VALUES ($1)
		ON CONFLICT (lower(name)) DO UPDATE SET name = EXCLUDED.name
		RETURNING stage_type_id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting stage type %q: %w", name, err)
	}
	d.stageTypes[key] = id
	return id, nil
}

// EnsureDocumentType upserts a document type by name and returns its id.
func (d *Dimensions) EnsureDocumentType(ctx context.Context, tx pgx.Tx, name, role, strategy string, hasDecision, adversarial bool) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty document type name")
	}
	key := dimKey(name)
	if id, ok := d.docTypes[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO document_types (name, role, has_decision, is_adversarial, processing_strategy)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lower(name)) DO UPDATE SET role = EXCLUDED.role
		RETURNING document_type_id`,
		name, role, hasDecision, adversarial, strategy).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting document type %q: %w", name, err)
	}
	d.docTypes[key] = id
	return id, nil
}

// EnsureCourt upserts a court by (name, district) and returns its id.
// District is stored as the empty string when the court has no division.
func (d *Dimensions) EnsureCourt(ctx context.Context, tx pgx.Tx, name, level, district, county string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty court name")
	}
	key := dimKey(name, district)
	if id, ok := d.courts[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO courts (name, level, district, county)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		ON CONFLICT (lower(name), lower(district)) DO UPDATE SET level = EXCLUDED.level
		RETURNING court_id`,
		name, level, district, county).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting court %q: %w", name, err)
	}
	d.courts[key] = id
	return id, nil
}

// EnsureStatute upserts a statute by (jurisdiction, code) and returns its id.
// The raw citation is parsed into jurisdiction, code, and subsection.
func (d *Dimensions) EnsureStatute(ctx context.Context, tx pgx.Tx, citation string) (int64, error) {
	jurisdiction, code, subsection := cases.ParseStatute(citation)
	if code == "" {
		return 0, fmt.Errorf("empty statute citation")
	}
	key := dimKey(jurisdiction, code)
	if id, ok := d.statutes[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO statutes (jurisdiction, code, section)
		VALUES ($1, $2, NULLIF($3, ''))
		ON CONFLICT (lower(jurisdiction), lower(code)) DO UPDATE SET jurisdiction = EXCLUDED.jurisdiction
		RETURNING statute_id`,
		jurisdiction, code, subsection).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting statute %q: %w", citation, err)
	}
	d.statutes[key] = id
	return id, nil
}

// EnsureJudge upserts a judge by name and returns the global judge id.
func (d *Dimensions) EnsureJudge(ctx context.Context, tx pgx.Tx, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("empty judge name")
	}
	key := dimKey(name)
	if id, ok := d.judges[key]; ok {
		return id, nil
	}

	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO judges (name) VALUES ($1)
		ON CONFLICT (lower(name)) DO UPDATE SET name = EXCLUDED.name
		RETURNING judge_id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting judge %q: %w", name, err)
	}
	d.judges[key] = id
	return id, nil
}

// EnsureTaxonomyPath upserts up to three taxonomy levels (case type,
// category, subcategory) and returns the id of the deepest non-empty node.
func (d *Dimensions) EnsureTaxonomyPath(ctx context.Context, tx pgx.Tx, caseType, category, subcategory string) (int64, error) {
	levels := []struct {
		name  string
		level string
	}{
		{strings.TrimSpace(caseType), "case_type"},
		{strings.TrimSpace(category), "category"},
		{strings.TrimSpace(subcategory), "subcategory"},
	}
	if levels[0].name == "" {
		return 0, fmt.Errorf("empty taxonomy root")
	}

	var parent *int64
	var deepest int64
	for _, l := range levels {
		if l.name == "" {
			break
		}
		id, err := d.ensureTaxonomyNode(ctx, tx, parent, l.name, l.level)
		if err != nil {
			return 0, err
		}
		deepest = id
		p := id
		parent = &p
	}
	return deepest, nil
}

func (d *Dimensions) ensureTaxonomyNode(ctx context.Context, tx pgx.Tx, parent *int64, name, level string) (int64, error) {
	parentKey := int64(-1)
	if parent != nil {
		parentKey = *parent
	}
	key := fmt.Sprintf("%d|%s", parentKey, dimKey(name, level))
	if id, ok := d.taxonomy[key]; ok {
		return id, nil
	}

	// The natural key is a unique expression index, so the insert uses
	// DO NOTHING and falls back to a select when the row already exists.
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO legal_taxonomy (parent_id, name, level_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (COALESCE(parent_id, -1), lower(name), level_type) DO NOTHING
		RETURNING taxonomy_id`,
		parent, name, level).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
			SELECT taxonomy_id FROM legal_taxonomy
			WHERE COALESCE(parent_id, -1) = COALESCE($1, -1) AND lower(name) = lower($2) AND level_type = $3`,
			parent, name, level).Scan(&id)
	}
	if err != nil {
		return 0, fmt.Errorf("upserting taxonomy node %q (%s): %w", name, level, err)
	}
	d.taxonomy[key] = id
	return id, nil
}
