package cases

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// NormalizeFileID strips every non-digit from a case-file id. It is the join
// key between PDF filenames and metadata rows and the uniqueness key (with
// court level) for the case table.
func NormalizeFileID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseFilename recovers a case-file id and appellate division from a PDF
// filename like "39300-3_III.pdf". The division part is optional.
func ParseFilename(name string) (caseNumber, division string) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if i := strings.LastIndex(stem, "_"); i >= 0 {
		return stem[:i], stem[i+1:]
	}
	return stem, ""
}

// ----------------------------------------------------------------------------
// Court derivation
// ----------------------------------------------------------------------------

// DeriveCourtLevel maps the sheet's opinion type to a court level.
func DeriveCourtLevel(opinionType string) string {
	t := strings.ToLower(strings.TrimSpace(opinionType))
	switch {
	case strings.Contains(t, "supreme"):
		return "Supreme Court"
	case strings.Contains(t, "appeals"), strings.Contains(t, "appellate"):
		return "Court of Appeals"
	case t == "":
		return "Unknown"
	default:
		return strings.TrimSpace(opinionType)
	}
}

// DeriveDistrict maps an appellate division token (I, II, III, or "Division
// II") to the canonical district label. Supreme Court cases have no district.
func DeriveDistrict(level, division string) string {
	if level != "Court of Appeals" {
		return ""
	}
	d := strings.ToUpper(strings.TrimSpace(division))
	d = strings.TrimPrefix(d, "DIVISION")
	d = strings.TrimSpace(d)
	switch d {
	case "I", "1":
		return "Division I"
	case "II", "2":
		return "Division II"
	case "III", "3":
		return "Division III"
	default:
		return ""
	}
}

// DeriveCourtName builds the court display name from level and district.
func DeriveCourtName(level, district string) string {
	switch level {
	case "Supreme Court":
		return "Washington State Supreme Court"
	case "Court of Appeals":
		if district != "" {
			return "Washington Court of Appeals " + district
		}
		return "Washington Court of Appeals"
	default:
		return level
	}
}

// BuildDocket joins the case number and division into the docket string
// printed on the opinion, e.g. "39300-3-III".
func BuildDocket(caseNumber, division string) string {
	n := strings.TrimSpace(caseNumber)
	d := strings.TrimSpace(division)
	if n == "" {
		return ""
	}
	if d == "" {
		return n
	}
	return n + "-" + d
}

// ----------------------------------------------------------------------------
// County extraction
// ----------------------------------------------------------------------------

var washingtonCounties = []string{
	"Adams", "Asotin", "Benton", "Chelan", "Clallam", "Clark", "Columbia",
	"Cowlitz", "Douglas", "Ferry", "Franklin", "Garfield", "Grant",
	"Grays Harbor", "Island", "Jefferson", "King", "Kitsap", "Kittitas",
	"Klickitat", "Lewis", "Lincoln", "Mason", "Okanogan", "Pacific",
	"Pend Oreille", "Pierce", "San Juan", "Skagit", "Skamania", "Snohomish",
	"Spokane", "Stevens", "Thurston", "Wahkiakum", "Walla Walla", "Whatcom",
	"Whitman", "Yakima",
}

const countyScanLimit = 15000

// ExtractCounty scans the head of the opinion text for an originating-county
// mention. Patterns are tried most-specific first so that a "Superior Court"
// reference wins over an incidental county name.
func ExtractCounty(text string) string {
	head := text
	if len(head) > countyScanLimit {
		head = head[:countyScanLimit]
	}
	head = strings.ToLower(head)

	patterns := []string{
		"%s county superior court",
		"appeal from %s county",
		"in %s county",
		"of %s county",
		"%s county",
	}
	for _, pat := range patterns {
		for _, county := range washingtonCounties {
			needle := fmt.Sprintf(pat, strings.ToLower(county))
			if strings.Contains(head, needle) {
				return county
			}
		}
	}
	return ""
}

// ----------------------------------------------------------------------------
// Enum coercion
// ----------------------------------------------------------------------------

var categoryAliases = map[string]string{
	"tort":           "Tort Law",
	"torts":          "Tort Law",
	"criminal":       "Criminal Law",
	"civil":          "Civil Procedure",
	"constitutional": "Constitutional Law",
	"administrative": "Administrative Law",
	"family":         "Family Law",
	"domestic":       "Family Law",
	"property":       "Property Law",
	"real estate":    "Property Law",
	"contract":       "Contract Law",
	"contracts":      "Contract Law",
	"employment":     "Employment Law",
	"labor":          "Employment Law",
	"evidence":       "Evidence",
}

// NormalizeCategory folds LLM category variants onto the taxonomy vocabulary.
// Unrecognized categories pass through trimmed so the taxonomy still gets a
// node for them.
func NormalizeCategory(category string) string {
	c := strings.TrimSpace(category)
	if c == "" {
		return ""
	}
	if canonical, ok := categoryAliases[strings.ToLower(c)]; ok {
		return canonical
	}
	return c
}

var issueOutcomes = map[string]string{
	"affirmed":  "Affirmed",
	"dismissed": "Dismissed",
	"reversed":  "Reversed",
	"remanded":  "Remanded",
	"mixed":     "Mixed",
}

// CoerceIssueOutcome maps an LLM-reported issue outcome onto the closed
// vocabulary. Unknown values become Mixed.
func CoerceIssueOutcome(outcome string) string {
	o := strings.ToLower(strings.TrimSpace(outcome))
	if o == "" {
		return ""
	}
	if canonical, ok := issueOutcomes[o]; ok {
		return canonical
	}
	for key, canonical := range issueOutcomes {
		if strings.Contains(o, key) {
			return canonical
		}
	}
	return "Mixed"
}

var judgeRoles = map[string]string{
	"author":     "author",
	"authored":   "author",
	"concurring": "concurring",
	"concur":     "concurring",
	"dissenting": "dissenting",
	"dissent":    "dissenting",
	"per curiam": "per_curiam",
	"per_curiam": "per_curiam",
	"signatory":  "concurring",
}

// CoerceJudgeRole maps a panel role onto the closed vocabulary. The second
// return reports whether the input was recognized; unknown roles become
// author so the panel link is never dropped.
func CoerceJudgeRole(role string) (string, bool) {
	r := strings.ToLower(strings.TrimSpace(role))
	if canonical, ok := judgeRoles[r]; ok {
		return canonical, true
	}
	return "author", false
}

var citationRelationships = map[string]string{
	"relied_upon":   "follows",
	"relied upon":   "follows",
	"follows":       "follows",
	"cited":         "cites",
	"cites":         "cites",
	"distinguished": "distinguishes",
	"distinguishes": "distinguishes",
	"overruled":     "overrules",
	"overrules":     "overrules",
	"affirms":       "affirms",
	"reverses":      "reverses",
	"discusses":     "discusses",
}

// CoerceCitationRelationship maps an LLM relationship onto the edge
// vocabulary. Unknown values become cites.
func CoerceCitationRelationship(rel string) string {
	r := strings.ToLower(strings.TrimSpace(rel))
	if canonical, ok := citationRelationships[r]; ok {
		return canonical
	}
	return "cites"
}

// ----------------------------------------------------------------------------
// Dates
// ----------------------------------------------------------------------------

var dateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan. 2, 2006",
	"Jan 2, 2006",
	"1/2/2006",
	"01/02/2006",
}

// ParseDate parses the date formats seen in metadata sheets and LLM output.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var statutePattern = regexp.MustCompile(`(?i)^(RCW|WAC)\s+(\d+[A-Z]?)\.([0-9A-Za-z.]+?)((?:\([^)]+\))+)?$`)

// ParseStatute splits a Washington statute citation like "RCW 26.09.187(3)(a)"
// into jurisdiction, code, and subsection. Citations that do not match the
// pattern are kept verbatim as the code under the RCW jurisdiction.
func ParseStatute(citation string) (jurisdiction, code, subsection string) {
	c := strings.TrimSpace(citation)
	m := statutePattern.FindStringSubmatch(c)
	if m == nil {
		return "RCW", c, ""
	}
	jurisdiction = strings.ToUpper(m[1])
	code = m[2] + "." + strings.TrimSuffix(m[3], ".")
	subsection = m[4]
	return jurisdiction, code, subsection
}
