// Package scoring provides the deterministic heuristic scorers used when no model reply is usable.
package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/career-coach/internal/types"
)

// Resume scoring constants
const (
	ResumeBaseScore        = 55
	ResumeKeywordBonus     = 5
	ResumeKeywordBonusCap  = 25
	ResumeLengthPenaltyMax = 10
	ResumeLengthUnit       = 600 // characters per point of penalty relief
	ResumeMinScore         = 40
	ResumeMaxScore         = 95

	// skills section is rated higher once this many role keywords are present
	SkillsKeywordThreshold = 3

	// job description tokens shorter than this are ignored
	MinJDTokenLength = 2
	// at most this many distinct job description tokens are considered
	MaxJDTokens = 5000
)

// DefaultRole is used when the target role is empty or unknown.
const DefaultRole = "software engineer"

// RoleKeywords are the per-role keyword lists checked against the resume.
var RoleKeywords = map[string][]string{
	"software engineer":    {"javascript", "react", "node", "api", "rest", "sql", "tests", "git"},
	"full-stack developer": {"react", "node", "express", "graphql", "rest", "docker", "postgres", "aws"},
	"data scientist":       {"python", "pandas", "numpy", "sklearn", "ml", "model", "sql", "visualization"},
	"data analyst":         {"sql", "excel", "tableau", "power bi", "dashboard", "report", "python", "analysis"},
	"product manager":      {"roadmap", "stakeholder", "kpi", "user research", "metrics", "backlog", "prioritize"},
}

// JDSignalTerms are the high-signal technical terms looked for in a job description.
var JDSignalTerms = []string{
	"react", "node", "express", "sql", "postgres", "python", "java", "aws", "docker",
	"kubernetes", "rest", "api", "graphql", "typescript", "testing", "ci", "cd", "ml",
	"model", "pandas", "numpy",
}

// Section scores assigned by presence checks: [present, absent].
var (
	ContactScore           = 8
	SummaryScores          = [2]int{8, 6}
	ExperienceScores       = [2]int{14, 11}
	SkillsScores           = [2]int{9, 7}
	EducationScores        = [2]int{8, 7}
	DefaultResumeQuickWins = []string{
		"Start bullets with strong verbs (Built, Led, Optimized).",
		"Add 2-3 quantifiable metrics (%/time/$) to top bullets.",
		"Include a concise tech stack in Skills (e.g., React, Node, SQL).",
	}
	DefaultRewriteExample = types.RewriteExample{
		Before: "Developed a web application for the company.",
		After:  "Engineered a React + Node web app used by 500+ users, reducing manual data entry by 40%.",
	}
)

var jdTokenSplit = regexp.MustCompile(`[^a-z0-9+.#]+`)

// KeywordsForRole returns the keyword list for role, defaulting to software engineer.
func KeywordsForRole(role string) []string {
	if kws, ok := RoleKeywords[strings.ToLower(strings.TrimSpace(role))]; ok {
		return kws
	}
	return RoleKeywords[DefaultRole]
}

// AnalyzeResume scores resume text without any external call.
func AnalyzeResume(resumeText, targetRole, jobDescription string) types.AssessmentResult {
	lower := strings.ToLower(resumeText)

	keywords := KeywordsForRole(targetRole)
	found := make([]string, 0, len(keywords))
	missing := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			found = append(found, k)
		} else {
			missing = append(missing, k)
		}
	}

	bonus := min(len(found)*ResumeKeywordBonus, ResumeKeywordBonusCap)
	penalty := max(0, ResumeLengthPenaltyMax-min(ResumeLengthPenaltyMax, len(resumeText)/ResumeLengthUnit))
	score := types.ClampInt(ResumeBaseScore+bonus-penalty, ResumeMinScore, ResumeMaxScore)

	sections := types.SectionScores{
		Contact:    ContactScore,
		Summary:    pick(SummaryScores, strings.Contains(lower, "summary")),
		Experience: pick(ExperienceScores, strings.Contains(lower, "experience")),
		Skills:     pick(SkillsScores, len(found) >= SkillsKeywordThreshold),
		Education:  pick(EducationScores, strings.Contains(lower, "education")),
	}

	result := types.AssessmentResult{
		Score:           score,
		SectionScores:   sections,
		QuickWins:       append([]string(nil), DefaultResumeQuickWins...),
		MissingKeywords: missing,
		FoundKeywords:   found,
		KeywordGap: types.KeywordGap{
			MissingFromJobDescription: jobDescriptionGap(lower, jobDescription),
		},
		Example: DefaultRewriteExample,
		Source:  types.SourceHeuristic,
	}
	return result.Normalize()
}

// jobDescriptionGap returns signal terms present in the job description but absent from the resume.
func jobDescriptionGap(resumeLower, jobDescription string) []string {
	jd := strings.ToLower(jobDescription)
	if strings.TrimSpace(jd) == "" {
		return []string{}
	}

	tokens := make(map[string]bool)
	for _, tok := range jdTokenSplit.Split(jd, -1) {
		if len(tok) < MinJDTokenLength {
			continue
		}
		if len(tokens) >= MaxJDTokens {
			break
		}
		tokens[tok] = true
	}

	gap := []string{}
	for _, term := range JDSignalTerms {
		if tokens[term] && !strings.Contains(resumeLower, term) {
			gap = append(gap, term)
		}
	}
	return gap
}

func pick(scores [2]int, present bool) int {
	if present {
		return scores[0]
	}
	return scores[1]
}
