package cases

import "testing"

func TestAssemble(t *testing.T) {
	meta := Metadata{
		OpinionType:       "appeals",
		PublicationStatus: "Published Opinion",
		Year:              2025,
		Month:             "January",
		CaseNumber:        "39300-3",
		Division:          "III",
		CaseTitle:         "In re the Marriage of Doe",
		FileDate:          "Jan. 16, 2025",
	}
	extracted := ExtractedCase{
		Summary: "Dissolution appeal.",
		County:  "Spokane",
	}

	c := Assemble(meta, extracted, "full text here", 12, "39300-3_III.pdf")

	if c.FileID != "39300-3" {
		t.Errorf("FileID = %q, want %q", c.FileID, "39300-3")
	}
	if c.FileIDNormalized != "393003" {
		t.Errorf("FileIDNormalized = %q, want %q", c.FileIDNormalized, "393003")
	}
	if c.CourtLevel != "Court of Appeals" {
		t.Errorf("CourtLevel = %q, want %q", c.CourtLevel, "Court of Appeals")
	}
	if c.District != "Division III" {
		t.Errorf("District = %q, want %q", c.District, "Division III")
	}
	if c.CourtName != "Washington Court of Appeals Division III" {
		t.Errorf("CourtName = %q", c.CourtName)
	}
	if c.DocketNumber != "39300-3-III" {
		t.Errorf("DocketNumber = %q, want %q", c.DocketNumber, "39300-3-III")
	}
	if c.County != "Spokane" {
		t.Errorf("County = %q, want %q", c.County, "Spokane")
	}
	if !c.Published {
		t.Errorf("Published = false, want true")
	}
	if c.PublishedDate == nil || c.PublishedDate.Year() != 2025 {
		t.Errorf("PublishedDate = %v, want January 2025", c.PublishedDate)
	}
	if c.PageCount != 12 {
		t.Errorf("PageCount = %d, want 12", c.PageCount)
	}
}

func TestAssembleFilenameFallback(t *testing.T) {
	meta := Metadata{
		OpinionType:       "supreme",
		PublicationStatus: "Unpublished Opinion",
	}
	c := Assemble(meta, ExtractedCase{}, "Appeal from the King County Superior Court.", 3, "102586-6.pdf")

	if c.FileID != "102586-6" {
		t.Errorf("FileID = %q, want %q", c.FileID, "102586-6")
	}
	if c.FileIDNormalized != "1025866" {
		t.Errorf("FileIDNormalized = %q, want %q", c.FileIDNormalized, "1025866")
	}
	if c.CourtLevel != "Supreme Court" {
		t.Errorf("CourtLevel = %q, want %q", c.CourtLevel, "Supreme Court")
	}
	if c.District != "" {
		t.Errorf("District = %q, want empty", c.District)
	}
	if c.County != "King" {
		t.Errorf("County = %q, want %q", c.County, "King")
	}
	if c.Published {
		t.Errorf("Published = true, want false")
	}
	if c.Title != "102586-6" {
		t.Errorf("Title = %q, want file id fallback", c.Title)
	}
}
