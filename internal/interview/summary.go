package interview

import (
	"math"

	"github.com/jonathan/career-coach/internal/types"
)

// OverallScore is the rounded mean of all feedback scores, or nil without feedback.
func OverallScore(t types.Transcript) *int {
	feedbacks := t.Feedbacks()
	if len(feedbacks) == 0 {
		return nil
	}
	sum := 0
	for _, f := range feedbacks {
		sum += f.Score
	}
	return roundMean(sum, len(feedbacks))
}

// Summarize folds a transcript into a session summary without modifying it.
func Summarize(t types.Transcript) types.SessionSummary {
	feedbacks := t.Feedbacks()

	summary := types.SessionSummary{
		OverallScore:   OverallScore(t),
		Strengths:      []string{},
		Improvements:   []string{},
		AnswersCount:   t.Count(types.KindAnswer),
		QuestionsCount: t.Count(types.KindQuestion),
	}
	if len(feedbacks) == 0 {
		return summary
	}

	var sum types.Breakdown
	for _, f := range feedbacks {
		sum.Clarity += f.Breakdown.Clarity
		sum.TechnicalAccuracy += f.Breakdown.TechnicalAccuracy
		sum.Communication += f.Breakdown.Communication
		sum.Structure += f.Breakdown.Structure
	}
	n := len(feedbacks)
	summary.AvgBreakdown = types.AverageBreakdown{
		Clarity:           roundMean(sum.Clarity, n),
		TechnicalAccuracy: roundMean(sum.TechnicalAccuracy, n),
		Communication:     roundMean(sum.Communication, n),
		Structure:         roundMean(sum.Structure, n),
	}

	last := feedbacks[n-1]
	if last.Highlights != nil {
		summary.Strengths = last.Highlights
	}
	if last.Improvements != nil {
		summary.Improvements = last.Improvements
	}
	return summary
}

func roundMean(sum, n int) *int {
	v := int(math.Round(float64(sum) / float64(n)))
	return &v
}
