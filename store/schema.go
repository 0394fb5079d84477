package store

// schema is the full relational contract: dimension tables upserted on
// natural keys, the case aggregate keyed by (case_file_id_normalized,
// court_level), and the retrieval tables (chunks, sentences, words,
// phrases, embeddings). Textual natural keys compare case-insensitively,
// so the unique indexes are lower() expression indexes and the upserts
// target those expressions. Dependents cascade on case deletion;
// re-ingestion of an existing case deletes them explicitly before
// re-inserting.
const schema = `
CREATE TABLE IF NOT EXISTS case_types (
    case_type_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name         TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS case_types_name_key
    ON case_types (lower(name));

CREATE TABLE IF NOT EXISTS stage_types (
    stage_type_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name          TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS stage_types_name_key
    ON stage_types (lower(name));

CREATE TABLE IF NOT EXISTS document_types (
    document_type_id    BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name                TEXT NOT NULL,
    role                TEXT NOT NULL DEFAULT 'court',
    has_decision        BOOLEAN NOT NULL DEFAULT TRUE,
    is_adversarial      BOOLEAN NOT NULL DEFAULT TRUE,
    processing_strategy TEXT NOT NULL DEFAULT 'case_outcome'
);
CREATE UNIQUE INDEX IF NOT EXISTS document_types_name_key
    ON document_types (lower(name));

CREATE TABLE IF NOT EXISTS courts (
    court_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name     TEXT NOT NULL,
    level    TEXT NOT NULL,
    district TEXT NOT NULL DEFAULT '',
    county   TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS courts_name_district_key
    ON courts (lower(name), lower(district));

CREATE TABLE IF NOT EXISTS legal_taxonomy (
    taxonomy_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    parent_id   BIGINT REFERENCES legal_taxonomy(taxonomy_id),
    name        TEXT NOT NULL,
    level_type  TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS legal_taxonomy_natural_key
    ON legal_taxonomy (COALESCE(parent_id, -1), lower(name), level_type);

CREATE TABLE IF NOT EXISTS statutes (
    statute_id   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    jurisdiction TEXT NOT NULL,
    code         TEXT NOT NULL,
    title        TEXT,
    section      TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS statutes_jurisdiction_code_key
    ON statutes (lower(jurisdiction), lower(code));

CREATE TABLE IF NOT EXISTS judges (
    judge_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name     TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS judges_name_key
    ON judges (lower(name));

CREATE TABLE IF NOT EXISTS cases (
    case_id                 BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_file_id            TEXT NOT NULL,
    case_file_id_normalized TEXT NOT NULL,
    court_id                BIGINT REFERENCES courts(court_id),
    case_type_id            BIGINT REFERENCES case_types(case_type_id),
    stage_type_id           BIGINT REFERENCES stage_types(stage_type_id),
    title                   TEXT NOT NULL,
    docket_number           TEXT,
    court_level             TEXT NOT NULL,
    district                TEXT,
    county                  TEXT,
    decision_year           INT,
    decision_month          TEXT,
    appeal_published_date   DATE,
    publication_status      TEXT,
    published               BOOLEAN NOT NULL DEFAULT FALSE,
    opinion_type            TEXT,
    summary                 TEXT,
    full_text               TEXT NOT NULL,
    processing_status       TEXT NOT NULL DEFAULT 'pending',
    appeal_outcome          TEXT,
    winner_legal_role       TEXT,
    winner_personal_role    TEXT,
    trial_judge             TEXT,
    source_docket_number    TEXT,
    oral_argument_date      DATE,
    opinion_filed_date      DATE,
    source_file             TEXT NOT NULL,
    extraction_timestamp    TIMESTAMPTZ NOT NULL DEFAULT now(),
    parent_case_id          BIGINT REFERENCES cases(case_id)
);
CREATE UNIQUE INDEX IF NOT EXISTS cases_natural_key
    ON cases (case_file_id_normalized, lower(court_level));
CREATE INDEX IF NOT EXISTS cases_file_id_normalized_idx
    ON cases (case_file_id_normalized);

CREATE TABLE IF NOT EXISTS parties (
    party_id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id       BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    name          TEXT NOT NULL,
    legal_role    TEXT,
    personal_role TEXT,
    party_type    TEXT
);

CREATE TABLE IF NOT EXISTS attorneys (
    attorney_id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id           BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    name              TEXT NOT NULL,
    firm              TEXT,
    representing_role TEXT
);

CREATE TABLE IF NOT EXISTS case_judges (
    case_id  BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    judge_id BIGINT NOT NULL REFERENCES judges(judge_id),
    role     TEXT NOT NULL DEFAULT 'author',
    PRIMARY KEY (case_id, judge_id)
);

CREATE TABLE IF NOT EXISTS issue_decisions (
    issue_id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id              BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    issue_summary        TEXT NOT NULL,
    decision_summary     TEXT,
    issue_outcome        TEXT,
    winner_legal_role    TEXT,
    winner_personal_role TEXT,
    keywords             TEXT[],
    taxonomy_id          BIGINT NOT NULL REFERENCES legal_taxonomy(taxonomy_id)
);

CREATE TABLE IF NOT EXISTS arguments (
    argument_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    issue_id    BIGINT NOT NULL REFERENCES issue_decisions(issue_id) ON DELETE CASCADE,
    side        TEXT NOT NULL,
    text        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS citation_edges (
    citation_id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    source_case_id       BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    target_case_id       BIGINT REFERENCES cases(case_id),
    target_case_citation TEXT NOT NULL,
    target_case_name     TEXT,
    relationship         TEXT NOT NULL DEFAULT 'cites',
    importance           TEXT
);

CREATE TABLE IF NOT EXISTS statute_citations (
    statute_citation_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id             BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    statute_id          BIGINT NOT NULL REFERENCES statutes(statute_id),
    context             TEXT
);

CREATE TABLE IF NOT EXISTS issue_rcws (
    issue_id BIGINT NOT NULL REFERENCES issue_decisions(issue_id) ON DELETE CASCADE,
    rcw_id   BIGINT NOT NULL REFERENCES statutes(statute_id),
    PRIMARY KEY (issue_id, rcw_id)
);

CREATE TABLE IF NOT EXISTS documents (
    document_id      BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id          BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    document_type_id BIGINT REFERENCES document_types(document_type_id),
    file_name        TEXT NOT NULL,
    page_count       INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS case_chunks (
    chunk_id       BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id        BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    chunk_order    INT NOT NULL,
    section        TEXT NOT NULL DEFAULT 'CONTENT',
    chunk_text     TEXT NOT NULL,
    word_count     INT NOT NULL DEFAULT 0,
    sentence_count INT NOT NULL DEFAULT 0,
    tsv            TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', chunk_text)) STORED,
    UNIQUE (case_id, chunk_order)
);
CREATE INDEX IF NOT EXISTS case_chunks_tsv_idx ON case_chunks USING GIN (tsv);

CREATE TABLE IF NOT EXISTS case_sentences (
    sentence_id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id               BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    chunk_id              BIGINT NOT NULL REFERENCES case_chunks(chunk_id) ON DELETE CASCADE,
    sentence_order        INT NOT NULL,
    global_sentence_order INT NOT NULL,
    sentence_text         TEXT NOT NULL,
    word_count            INT NOT NULL DEFAULT 0,
    tsv                   TSVECTOR GENERATED ALWAYS AS (to_tsvector('english', sentence_text)) STORED,
    UNIQUE (case_id, chunk_id, sentence_order),
    UNIQUE (case_id, global_sentence_order)
);
CREATE INDEX IF NOT EXISTS case_sentences_tsv_idx ON case_sentences USING GIN (tsv);

CREATE TABLE IF NOT EXISTS word_dictionary (
    word_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    word    TEXT NOT NULL UNIQUE,
    df      INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS word_occurrences (
    word_id     BIGINT NOT NULL REFERENCES word_dictionary(word_id),
    case_id     BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    chunk_id    BIGINT NOT NULL REFERENCES case_chunks(chunk_id) ON DELETE CASCADE,
    sentence_id BIGINT NOT NULL REFERENCES case_sentences(sentence_id) ON DELETE CASCADE,
    position    INT NOT NULL,
    PRIMARY KEY (word_id, sentence_id, position)
);
CREATE INDEX IF NOT EXISTS word_occurrences_case_idx ON word_occurrences (case_id);

CREATE TABLE IF NOT EXISTS case_phrases (
    phrase_id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id             BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    phrase              TEXT NOT NULL,
    n                   INT NOT NULL,
    frequency           INT NOT NULL DEFAULT 1,
    example_sentence_id BIGINT REFERENCES case_sentences(sentence_id) ON DELETE SET NULL,
    example_chunk_id    BIGINT REFERENCES case_chunks(chunk_id) ON DELETE SET NULL,
    UNIQUE (case_id, phrase)
);

CREATE TABLE IF NOT EXISTS embeddings (
    embedding_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    case_id      BIGINT NOT NULL REFERENCES cases(case_id) ON DELETE CASCADE,
    chunk_id     BIGINT REFERENCES case_chunks(chunk_id) ON DELETE CASCADE,
    document_id  BIGINT REFERENCES documents(document_id) ON DELETE SET NULL,
    embed_text   TEXT NOT NULL,
    embedding    VECTOR(1024),
    chunk_order  INT,
    section      TEXT
);
CREATE INDEX IF NOT EXISTS embeddings_case_idx ON embeddings (case_id);
`
