package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/zeeshanhxider/Postrgres-Ingestion-LegalAI/cases"
)

const (
	// extractionCharCap bounds the opinion text sent to the model. Longer
	// texts keep their head, a centered middle slice, and their tail.
	extractionCharCap = 25000

	truncationSeparator = "\n\n[...document continues...]\n\n"
)

// Extractor turns opinion text into a structured ExtractedCase via the chat
// provider.
type Extractor struct {
	provider Provider
}

// NewExtractor returns an Extractor backed by the given provider.
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract prompts the model with the (truncated) opinion text and parses the
// JSON response. A malformed response is retried once with a stricter
// reminder; a second failure is returned as an error.
func (e *Extractor) Extract(ctx context.Context, text string) (cases.ExtractedCase, error) {
	start := time.Now()
	prompt := fmt.Sprintf(extractionPrompt, truncateSmart(text, extractionCharCap))

	extracted, err := e.attempt(ctx, prompt)
	if err != nil {
		slog.Warn("extraction attempt failed, retrying with reminder", "error", err)
		extracted, err = e.attempt(ctx, prompt+extractionRetryReminder)
		if err != nil {
			return cases.ExtractedCase{}, fmt.Errorf("extraction failed after retry: %w", err)
		}
	}

	slog.Debug("extraction complete",
		"issues", len(extracted.Issues),
		"parties", len(extracted.Parties),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return extracted, nil
}

func (e *Extractor) attempt(ctx context.Context, prompt string) (cases.ExtractedCase, error) {
	resp, err := e.provider.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.1,
		MaxTokens:      8192,
		ResponseFormat: "json_object",
	})
	if err != nil {
		return cases.ExtractedCase{}, err
	}
	return parseExtraction(resp.Content)
}

// ----------------------------------------------------------------------------
// Response parsing
// ----------------------------------------------------------------------------

// extractionWire mirrors the JSON structure the prompt requests.
type extractionWire struct {
	Summary          string `json:"summary"`
	CaseCategory     string `json:"case_category"`
	OriginatingCourt struct {
		County             string `json:"county"`
		CourtName          string `json:"court_name"`
		TrialJudge         string `json:"trial_judge"`
		SourceDocketNumber string `json:"source_docket_number"`
	} `json:"originating_court"`
	Outcome struct {
		Disposition        string `json:"disposition"`
		Details            string `json:"details"`
		PrevailingParty    string `json:"prevailing_party"`
		WinnerPersonalRole string `json:"winner_personal_role"`
	} `json:"outcome"`
	Parties []struct {
		Name          string `json:"name"`
		AppellateRole string `json:"appellate_role"`
		TrialRole     string `json:"trial_role"`
		Type          string `json:"type"`
		PersonalRole  string `json:"personal_role"`
	} `json:"parties_parsed"`
	Attorneys []struct {
		AttorneyName string `json:"attorney_name"`
		Representing string `json:"representing"`
		FirmOrAgency string `json:"firm_or_agency"`
	} `json:"legal_representation"`
	Judges []struct {
		JudgeName string `json:"judge_name"`
		Role      string `json:"role"`
	} `json:"judicial_panel"`
	Citations []struct {
		FullCitation string `json:"full_citation"`
		CaseName     string `json:"case_name"`
		Relationship string `json:"relationship"`
	} `json:"cases_cited"`
	LegalAnalysis struct {
		KeyStatutesCited []string `json:"key_statutes_cited"`
		Issues           []struct {
			CaseType           string   `json:"case_type"`
			Category           string   `json:"category"`
			Subcategory        string   `json:"subcategory"`
			Question           string   `json:"question"`
			Ruling             string   `json:"ruling"`
			Outcome            string   `json:"outcome"`
			WinnerLegalRole    string   `json:"winner_legal_role"`
			WinnerPersonalRole string   `json:"winner_personal_role"`
			RelatedRCWs        []string `json:"related_rcws"`
			Keywords           []string `json:"keywords"`
			AppellantArgument  string   `json:"appellant_argument"`
			RespondentArgument string   `json:"respondent_argument"`
		} `json:"issues"`
	} `json:"legal_analysis"`
	ProceduralDates struct {
		OralArgumentDate string `json:"oral_argument_date"`
		OpinionFiledDate string `json:"opinion_filed_date"`
	} `json:"procedural_dates"`
}

// parseExtraction repairs and decodes the model response, then coerces it
// into the domain model's vocabulary.
func parseExtraction(content string) (cases.ExtractedCase, error) {
	var wire extractionWire
	if err := json.Unmarshal([]byte(cleanJSON(content)), &wire); err != nil {
		return cases.ExtractedCase{}, fmt.Errorf("decoding extraction response: %w", err)
	}

	out := cases.ExtractedCase{
		Summary:         strings.TrimSpace(wire.Summary),
		CaseType:        primaryCategory(wire.CaseCategory),
		County:          strings.TrimSpace(wire.OriginatingCourt.County),
		CourtName:       strings.TrimSpace(wire.OriginatingCourt.CourtName),
		TrialJudge:      strings.TrimSpace(wire.OriginatingCourt.TrialJudge),
		SourceDocket:    strings.TrimSpace(wire.OriginatingCourt.SourceDocketNumber),
		Disposition:     strings.TrimSpace(wire.Outcome.Disposition),
		OutcomeDetails:  strings.TrimSpace(wire.Outcome.Details),
		PrevailingParty: strings.TrimSpace(wire.Outcome.PrevailingParty),
		WinnerRole:      strings.TrimSpace(wire.Outcome.WinnerPersonalRole),
		Statutes:        wire.LegalAnalysis.KeyStatutesCited,
	}

	for _, p := range wire.Parties {
		if p.Name == "" {
			continue
		}
		role := p.AppellateRole
		if p.TrialRole != "" {
			role = fmt.Sprintf("%s (%s)", p.AppellateRole, p.TrialRole)
		}
		out.Parties = append(out.Parties, cases.Party{
			Name:         p.Name,
			LegalRole:    role,
			PersonalRole: p.PersonalRole,
			Type:         p.Type,
		})
	}

	for _, a := range wire.Attorneys {
		if a.AttorneyName == "" {
			continue
		}
		out.Attorneys = append(out.Attorneys, cases.Attorney{
			Name:         a.AttorneyName,
			Representing: a.Representing,
			Firm:         a.FirmOrAgency,
		})
	}

	for _, j := range wire.Judges {
		if j.JudgeName == "" {
			continue
		}
		role, known := cases.CoerceJudgeRole(j.Role)
		if !known {
			slog.Warn("unknown judge role, coercing to author", "judge", j.JudgeName, "role", j.Role)
		}
		out.Judges = append(out.Judges, cases.Judge{Name: j.JudgeName, Role: role})
	}

	for _, c := range wire.Citations {
		if c.FullCitation == "" && c.CaseName == "" {
			continue
		}
		out.Citations = append(out.Citations, cases.Citation{
			FullCitation: c.FullCitation,
			CaseName:     c.CaseName,
			Relationship: cases.CoerceCitationRelationship(c.Relationship),
		})
	}

	for _, i := range wire.LegalAnalysis.Issues {
		if i.Question == "" {
			continue
		}
		out.Issues = append(out.Issues, cases.Issue{
			CaseType:           strings.TrimSpace(i.CaseType),
			Category:           cases.NormalizeCategory(i.Category),
			Subcategory:        strings.TrimSpace(i.Subcategory),
			Question:           i.Question,
			Ruling:             i.Ruling,
			Outcome:            cases.CoerceIssueOutcome(i.Outcome),
			WinnerLegalRole:    i.WinnerLegalRole,
			WinnerPersonalRole: i.WinnerPersonalRole,
			RelatedRCWs:        i.RelatedRCWs,
			Keywords:           i.Keywords,
			AppellantArgument:  i.AppellantArgument,
			RespondentArgument: i.RespondentArgument,
		})
	}

	if t, ok := cases.ParseDate(wire.ProceduralDates.OralArgumentDate); ok {
		out.OralArgumentDate = &t
	}
	if t, ok := cases.ParseDate(wire.ProceduralDates.OpinionFiledDate); ok {
		out.OpinionFiledDate = &t
	}

	return out, nil
}

// primaryCategory takes the first segment of a possibly pipe-separated
// category string.
func primaryCategory(category string) string {
	first, _, _ := strings.Cut(category, "|")
	return strings.TrimSpace(first)
}

var (
	trailingCommaObject = regexp.MustCompile(`,\s*}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*]`)
)

// cleanJSON strips markdown fences and text outside the outermost braces,
// and removes trailing commas.
func cleanJSON(content string) string {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}

	s = trailingCommaObject.ReplaceAllString(s, "}")
	s = trailingCommaArray.ReplaceAllString(s, "]")
	return s
}

// truncateSmart caps text at limit characters by keeping the first 40%, the
// middle 35%, and the last 25%, joined with continuation markers.
func truncateSmart(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	headLen := limit * 40 / 100
	midLen := limit * 35 / 100
	tailLen := limit - headLen - midLen

	midStart := (len(text) - midLen) / 2
	return text[:headLen] +
		truncationSeparator +
		text[midStart:midStart+midLen] +
		truncationSeparator +
		text[len(text)-tailLen:]
}
