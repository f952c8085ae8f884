// Package types provides type definitions for structured data used throughout the career coach system.
package types

// Result sources
const (
	SourceModel     = "model"
	SourceHeuristic = "heuristic"
)

// Section names of a resume assessment.
const (
	SectionContact    = "contact"
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionSkills     = "skills"
	SectionEducation  = "education"
)

// SectionWeights is the maximum score each resume section can carry.
var SectionWeights = map[string]int{
	SectionContact:    10,
	SectionSummary:    10,
	SectionExperience: 15,
	SectionSkills:     10,
	SectionEducation:  10,
}

// SectionScores holds the per-section resume scores.
type SectionScores struct {
	Contact    int `json:"contact"`
	Summary    int `json:"summary"`
	Experience int `json:"experience"`
	Skills     int `json:"skills"`
	Education  int `json:"education"`
}

// Clamp bounds every section into [0, weight].
func (s SectionScores) Clamp() SectionScores {
	return SectionScores{
		Contact:    ClampInt(s.Contact, 0, SectionWeights[SectionContact]),
		Summary:    ClampInt(s.Summary, 0, SectionWeights[SectionSummary]),
		Experience: ClampInt(s.Experience, 0, SectionWeights[SectionExperience]),
		Skills:     ClampInt(s.Skills, 0, SectionWeights[SectionSkills]),
		Education:  ClampInt(s.Education, 0, SectionWeights[SectionEducation]),
	}
}

// KeywordGap lists high-signal job description terms absent from the resume.
type KeywordGap struct {
	MissingFromJobDescription []string `json:"missingFromJobDescription"`
}

// RewriteExample shows a weak bullet and a stronger rewrite of it.
type RewriteExample struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// AssessmentResult is the structured outcome of a resume analysis.
type AssessmentResult struct {
	Score           int            `json:"score"`
	SectionScores   SectionScores  `json:"sectionScores"`
	QuickWins       []string       `json:"quickWins"`
	MissingKeywords []string       `json:"missingKeywords"`
	FoundKeywords   []string       `json:"foundKeywords"`
	KeywordGap      KeywordGap     `json:"keywordGap"`
	Example         RewriteExample `json:"example"`
	Source          string         `json:"source"`
}

// Normalize clamps all numeric fields and replaces nil lists with empty ones.
func (a AssessmentResult) Normalize() AssessmentResult {
	a.Score = ClampInt(a.Score, 0, 100)
	a.SectionScores = a.SectionScores.Clamp()
	a.QuickWins = nonNil(a.QuickWins)
	a.MissingKeywords = nonNil(a.MissingKeywords)
	a.FoundKeywords = nonNil(a.FoundKeywords)
	a.KeywordGap.MissingFromJobDescription = nonNil(a.KeywordGap.MissingFromJobDescription)
	return a
}

// Breakdown holds the four interview sub-scores.
type Breakdown struct {
	Clarity           int `json:"clarity"`
	TechnicalAccuracy int `json:"technicalAccuracy"`
	Communication     int `json:"communication"`
	Structure         int `json:"structure"`
}

// Clamp bounds every sub-score into [1, 10].
func (b Breakdown) Clamp() Breakdown {
	return Breakdown{
		Clarity:           ClampInt(b.Clarity, 1, 10),
		TechnicalAccuracy: ClampInt(b.TechnicalAccuracy, 1, 10),
		Communication:     ClampInt(b.Communication, 1, 10),
		Structure:         ClampInt(b.Structure, 1, 10),
	}
}

// FeedbackResult is the structured outcome of scoring one interview answer.
type FeedbackResult struct {
	Score        int       `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
	Highlights   []string  `json:"highlights"`
	Improvements []string  `json:"improvements"`
	ModelAnswer  string    `json:"modelAnswer"`
	Source       string    `json:"source"`
}

// MaxFeedbackItems caps highlights and improvements.
const MaxFeedbackItems = 4

// Normalize clamps all numeric fields and caps both lists.
func (f FeedbackResult) Normalize() FeedbackResult {
	f.Score = ClampInt(f.Score, 1, 10)
	f.Breakdown = f.Breakdown.Clamp()
	f.Highlights = truncate(nonNil(f.Highlights), MaxFeedbackItems)
	f.Improvements = truncate(nonNil(f.Improvements), MaxFeedbackItems)
	return f
}

// ClampInt bounds v into [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func truncate(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
