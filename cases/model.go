// Package cases holds the domain model for an ingested appellate opinion:
// the metadata-sheet row, the structured facts extracted by the LLM, and the
// assembled canonical case record.
package cases

import "time"

// Metadata is one row of the scraped-opinion metadata sheet. The sheet joins
// to PDFs by the normalized case-file id derived from CaseNumber (or, when
// absent, from the PDF filename).
type Metadata struct {
	OpinionType       string
	PublicationStatus string
	Year              int
	Month             string
	CaseNumber        string
	Division          string
	CaseTitle         string
	FileDate          string
	FileContains      string
	CaseInfoURL       string
	PDFURL            string
	PDFFilename       string
}

// ExtractedCase is the structured output of LLM extraction, after enum
// coercion and key normalization.
type ExtractedCase struct {
	Summary          string
	CaseType         string
	County           string
	CourtName        string
	TrialJudge       string
	SourceDocket     string
	Disposition      string
	OutcomeDetails   string
	PrevailingParty  string
	WinnerRole       string
	Parties          []Party
	Attorneys        []Attorney
	Judges           []Judge
	Citations        []Citation
	Statutes         []string
	Issues           []Issue
	OralArgumentDate *time.Time
	OpinionFiledDate *time.Time
}

// Party is a named participant with its appellate and trial roles merged.
type Party struct {
	Name         string
	LegalRole    string
	PersonalRole string
	Type         string // individual, organization, government
}

// Attorney represents counsel of record.
type Attorney struct {
	Name         string
	Representing string
	Firm         string
}

// Judge is a panel member with an opinion role.
type Judge struct {
	Name string
	Role string // author, concurring, dissenting, per_curiam
}

// Citation is one precedent cited by the opinion.
type Citation struct {
	FullCitation string
	CaseName     string
	Relationship string // cites, distinguishes, overrules, follows, affirms, reverses, discusses
}

// Issue is one legal question the court decided, placed in the three-level
// taxonomy (case type, category, subcategory).
type Issue struct {
	CaseType           string
	Category           string
	Subcategory        string
	Question           string
	Ruling             string
	Outcome            string // Affirmed, Dismissed, Reversed, Remanded, Mixed
	WinnerLegalRole    string
	WinnerPersonalRole string
	RelatedRCWs        []string
	Keywords           []string
	AppellantArgument  string
	RespondentArgument string
}

// Case is the canonical record written to the store: metadata-sheet fields
// merged with LLM-extracted fields and text derived values.
type Case struct {
	FileID            string
	FileIDNormalized  string
	Title             string
	CourtLevel        string
	CourtName         string
	District          string
	County            string
	DocketNumber      string
	DecisionYear      int
	DecisionMonth     string
	PublishedDate     *time.Time
	Published         bool
	PublicationStatus string
	OpinionType       string
	SourceFile        string
	FullText          string
	PageCount         int
	Extracted         ExtractedCase
}
