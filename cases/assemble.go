package cases

import (
	"log/slog"
	"strings"
)

// Assemble merges a metadata-sheet row with the LLM extraction and the parsed
// opinion text into the canonical case record. Sheet fields win for identity
// (file id, court, title, dates); extracted fields win for substance
// (summary, outcome, county when the sheet is silent).
func Assemble(meta Metadata, extracted ExtractedCase, fullText string, pageCount int, sourceFile string) Case {
	caseNumber := strings.TrimSpace(meta.CaseNumber)
	division := strings.TrimSpace(meta.Division)
	if caseNumber == "" {
		caseNumber, division = ParseFilename(sourceFile)
	}

	level := DeriveCourtLevel(meta.OpinionType)
	district := DeriveDistrict(level, division)

	county := strings.TrimSpace(extracted.County)
	if county == "" {
		county = ExtractCounty(fullText)
	}

	title := strings.TrimSpace(meta.CaseTitle)
	if title == "" {
		title = caseNumber
	}

	pubStatus := strings.ToLower(meta.PublicationStatus)

	c := Case{
		FileID:            caseNumber,
		FileIDNormalized:  NormalizeFileID(caseNumber),
		Title:             title,
		CourtLevel:        level,
		CourtName:         DeriveCourtName(level, district),
		District:          district,
		County:            county,
		DocketNumber:      BuildDocket(caseNumber, division),
		DecisionYear:      meta.Year,
		DecisionMonth:     meta.Month,
		Published:         strings.Contains(pubStatus, "published") && !strings.Contains(pubStatus, "unpublished"),
		PublicationStatus: meta.PublicationStatus,
		OpinionType:       meta.OpinionType,
		SourceFile:        sourceFile,
		FullText:          fullText,
		PageCount:         pageCount,
		Extracted:         extracted,
	}

	if t, ok := ParseDate(meta.FileDate); ok {
		c.PublishedDate = &t
	} else if extracted.OpinionFiledDate != nil {
		c.PublishedDate = extracted.OpinionFiledDate
	}

	if c.FileIDNormalized == "" {
		slog.Warn("case has no normalized file id", "source_file", sourceFile)
	}
	return c
}
