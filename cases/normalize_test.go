package cases

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// File id normalization
// ----------------------------------------------------------------------------

func TestNormalizeFileID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"69423-5", "694235"},
		{"694235", "694235"},
		{"69423-5-I", "694235"},
		{"102586-6", "1025866"},
		{"", ""},
		{"no digits", ""},
	}
	for _, tt := range tests {
		if got := NormalizeFileID(tt.in); got != tt.want {
			t.Errorf("NormalizeFileID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFilename(t *testing.T) {
	tests := []struct {
		in           string
		wantNumber   string
		wantDivision string
	}{
		{"39300-3_III.pdf", "39300-3", "III"},
		{"/opinions/2025/39300-3_III.pdf", "39300-3", "III"},
		{"102586-6.pdf", "102586-6", ""},
		{"1025866", "1025866", ""},
	}
	for _, tt := range tests {
		number, division := ParseFilename(tt.in)
		if number != tt.wantNumber || division != tt.wantDivision {
			t.Errorf("ParseFilename(%q) = (%q, %q), want (%q, %q)",
				tt.in, number, division, tt.wantNumber, tt.wantDivision)
		}
	}
}

// ----------------------------------------------------------------------------
// Court derivation
// ----------------------------------------------------------------------------

func TestDeriveCourtLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"supreme", "Supreme Court"},
		{"Supreme Court Opinion", "Supreme Court"},
		{"appeals", "Court of Appeals"},
		{"appellate", "Court of Appeals"},
		{"", "Unknown"},
		{"District Court", "District Court"},
	}
	for _, tt := range tests {
		if got := DeriveCourtLevel(tt.in); got != tt.want {
			t.Errorf("DeriveCourtLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDeriveDistrict(t *testing.T) {
	tests := []struct {
		level    string
		division string
		want     string
	}{
		{"Court of Appeals", "III", "Division III"},
		{"Court of Appeals", "Division II", "Division II"},
		{"Court of Appeals", "1", "Division I"},
		{"Court of Appeals", "", ""},
		{"Supreme Court", "II", ""},
	}
	for _, tt := range tests {
		if got := DeriveDistrict(tt.level, tt.division); got != tt.want {
			t.Errorf("DeriveDistrict(%q, %q) = %q, want %q", tt.level, tt.division, got, tt.want)
		}
	}
}

func TestDeriveCourtName(t *testing.T) {
	tests := []struct {
		level    string
		district string
		want     string
	}{
		{"Supreme Court", "", "Washington State Supreme Court"},
		{"Court of Appeals", "Division II", "Washington Court of Appeals Division II"},
		{"Court of Appeals", "", "Washington Court of Appeals"},
	}
	for _, tt := range tests {
		if got := DeriveCourtName(tt.level, tt.district); got != tt.want {
			t.Errorf("DeriveCourtName(%q, %q) = %q, want %q", tt.level, tt.district, got, tt.want)
		}
	}
}

func TestBuildDocket(t *testing.T) {
	tests := []struct {
		number   string
		division string
		want     string
	}{
		{"39300-3", "III", "39300-3-III"},
		{"102586-6", "", "102586-6"},
		{"", "III", ""},
	}
	for _, tt := range tests {
		if got := BuildDocket(tt.number, tt.division); got != tt.want {
			t.Errorf("BuildDocket(%q, %q) = %q, want %q", tt.number, tt.division, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// County extraction
// ----------------------------------------------------------------------------

func TestExtractCounty(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "superior court pattern",
			text: "Appeal from the Spokane County Superior Court, Honorable J. Smith.",
			want: "Spokane",
		},
		{
			name: "appeal from pattern",
			text: "This is an appeal from King County regarding a parenting plan.",
			want: "King",
		},
		{
			name: "two word county",
			text: "On review from the Grays Harbor County Superior Court.",
			want: "Grays Harbor",
		},
		{
			name: "no county",
			text: "The trial court did not abuse its discretion.",
			want: "",
		},
		{
			name: "superior court wins over earlier bare mention",
			text: "The King Street property dispute arose in the Pierce County Superior Court.",
			want: "Pierce",
		},
	}
	for _, tt := range tests {
		if got := ExtractCounty(tt.text); got != tt.want {
			t.Errorf("%s: ExtractCounty = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Enum coercion
// ----------------------------------------------------------------------------

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tort", "Tort Law"},
		{"Criminal", "Criminal Law"},
		{"domestic", "Family Law"},
		{"real estate", "Property Law"},
		{"Child Custody", "Child Custody"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoerceIssueOutcome(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Affirmed", "Affirmed"},
		{"reversed", "Reversed"},
		{"affirmed in part", "Affirmed"},
		{"granted", "Mixed"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CoerceIssueOutcome(tt.in); got != tt.want {
			t.Errorf("CoerceIssueOutcome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoerceJudgeRole(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Author", "author", true},
		{"Concurring", "concurring", true},
		{"Dissenting", "dissenting", true},
		{"Signatory", "concurring", true},
		{"per curiam", "per_curiam", true},
		{"presiding", "author", false},
	}
	for _, tt := range tests {
		got, ok := CoerceJudgeRole(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CoerceJudgeRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCoerceCitationRelationship(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"relied_upon", "follows"},
		{"distinguished", "distinguishes"},
		{"overruled", "overrules"},
		{"cited", "cites"},
		{"something else", "cites"},
	}
	for _, tt := range tests {
		if got := CoerceCitationRelationship(tt.in); got != tt.want {
			t.Errorf("CoerceCitationRelationship(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Dates and statutes
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2025-01-16", "2025-01-16", true},
		{"Jan. 16, 2025", "2025-01-16", true},
		{"January 16, 2025", "2025-01-16", true},
		{"1/16/2025", "2025-01-16", true},
		{"yesterday", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got.Format(time.DateOnly) != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format(time.DateOnly), tt.want)
		}
	}
}

func TestParseStatute(t *testing.T) {
	tests := []struct {
		in               string
		wantJurisdiction string
		wantCode         string
		wantSubsection   string
	}{
		{"RCW 26.09.187(3)(a)", "RCW", "26.09.187", "(3)(a)"},
		{"rcw 9A.44.010", "RCW", "9A.44.010", ""},
		{"WAC 388-14A-1000", "RCW", "WAC 388-14A-1000", ""},
		{"chapter 26.09 RCW", "RCW", "chapter 26.09 RCW", ""},
	}
	for _, tt := range tests {
		jurisdiction, code, subsection := ParseStatute(tt.in)
		if jurisdiction != tt.wantJurisdiction || code != tt.wantCode || subsection != tt.wantSubsection {
			t.Errorf("ParseStatute(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.in, jurisdiction, code, subsection,
				tt.wantJurisdiction, tt.wantCode, tt.wantSubsection)
		}
	}
}
