package assessment

import (
	"strconv"
	"strings"

	"github.com/jonathan/career-coach/internal/prompts"
	"github.com/jonathan/career-coach/internal/types"
)

// Model call parameters
const (
	ResumeMaxTokens     = 900
	ResumeTemperature   = 0.2
	FeedbackMaxTokens   = 650
	FeedbackTemperature = 0.3
)

var (
	resumeSystemPrompt   = prompts.MustGet(prompts.AssessmentFile, "resume-system")
	resumeUserPrompt     = prompts.MustGet(prompts.AssessmentFile, "resume-user")
	feedbackSystemPrompt = prompts.MustGet(prompts.AssessmentFile, "feedback-system")
	feedbackUserPrompt   = prompts.MustGet(prompts.AssessmentFile, "feedback-user")
)

func buildResumePrompt(resumeText, targetRole, jobDescription string) string {
	if strings.TrimSpace(targetRole) == "" {
		targetRole = "Software Engineer"
	}
	return prompts.Format(resumeUserPrompt, map[string]string{
		"Contact":        strconv.Itoa(types.SectionWeights[types.SectionContact]),
		"Summary":        strconv.Itoa(types.SectionWeights[types.SectionSummary]),
		"Experience":     strconv.Itoa(types.SectionWeights[types.SectionExperience]),
		"Skills":         strconv.Itoa(types.SectionWeights[types.SectionSkills]),
		"Education":      strconv.Itoa(types.SectionWeights[types.SectionEducation]),
		"TargetRole":     targetRole,
		"JobDescription": jobDescription,
		"ResumeText":     resumeText,
	})
}

func buildFeedbackPrompt(in AnswerInput) string {
	return prompts.Format(feedbackUserPrompt, map[string]string{
		"InterviewType": string(in.Type),
		"Difficulty":    string(in.Difficulty),
		"TargetRole":    in.TargetRole,
		"Question":      in.Question,
		"Answer":        in.Answer,
	})
}
