package llm

const extractionSystemPrompt = `You are a legal analyst specializing in Washington State appellate opinions. You extract structured facts from court opinions and respond with a single JSON object, nothing else. Use only the enumerated vocabulary where a field lists its allowed values. Identify between 2 and 5 distinct legal issues per case.`

const extractionPrompt = `Analyze the following Washington State appellate court opinion and return a JSON object with exactly this structure:

{
  "summary": "2-4 sentence summary of the case and its resolution",
  "case_category": "primary area of law (e.g. Family Law, Criminal Law, Tort Law)",
  "originating_court": {
    "county": "county of the trial court, or null",
    "court_name": "name of the trial court, or null",
    "trial_judge": "name of the trial judge, or null",
    "source_docket_number": "trial court docket number, or null"
  },
  "outcome": {
    "disposition": "affirmed | reversed | remanded | dismissed | mixed",
    "details": "one sentence describing the disposition",
    "prevailing_party": "name of the prevailing party, or null",
    "winner_personal_role": "personal role of the winner (e.g. mother, employer), or null"
  },
  "parties_parsed": [
    {
      "name": "party name",
      "appellate_role": "Appellant | Respondent | Petitioner | Amicus",
      "trial_role": "Plaintiff | Defendant | Petitioner | Respondent, or null",
      "type": "individual | organization | government",
      "personal_role": "real-world role (e.g. mother, father, employer), or null"
    }
  ],
  "legal_representation": [
    {
      "attorney_name": "name",
      "representing": "which party they represent",
      "firm_or_agency": "firm or agency name, or null"
    }
  ],
  "judicial_panel": [
    {
      "judge_name": "name without honorifics",
      "role": "Author | Concurring | Dissenting | Signatory"
    }
  ],
  "cases_cited": [
    {
      "full_citation": "complete citation string",
      "case_name": "short case name",
      "relationship": "relied_upon | distinguished | cited | overruled"
    }
  ],
  "legal_analysis": {
    "key_statutes_cited": ["RCW citations, e.g. RCW 26.09.187"],
    "issues": [
      {
        "case_type": "top-level case type (e.g. Family Law)",
        "category": "issue category within the case type",
        "subcategory": "specific sub-issue, or null",
        "question": "the legal question presented",
        "ruling": "how the court ruled on this issue",
        "outcome": "Affirmed | Dismissed | Reversed | Remanded | Mixed",
        "winner_legal_role": "Appellant | Respondent, or null",
        "winner_personal_role": "personal role of the issue winner, or null",
        "related_rcws": ["RCW citations bearing on this issue"],
        "keywords": ["3-6 search keywords"],
        "confidence": 0.0,
        "appellant_argument": "the appellant's argument on this issue, or null",
        "respondent_argument": "the respondent's argument on this issue, or null"
      }
    ]
  },
  "procedural_dates": {
    "oral_argument_date": "YYYY-MM-DD or null",
    "opinion_filed_date": "YYYY-MM-DD or null"
  }
}

Respond with the JSON object only. Do not add commentary or markdown fences.

OPINION TEXT:

%s`

const extractionRetryReminder = `

REMINDER: Your previous response was not valid JSON. Respond with ONLY a single valid JSON object matching the requested structure. No markdown fences, no commentary, no trailing commas.`
