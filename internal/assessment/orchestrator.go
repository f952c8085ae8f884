// Package assessment turns a resume or interview answer into a scored result.
// A configured model is tried once; any failure falls back to the heuristic scorer.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/llm"
	"github.com/jonathan/career-coach/internal/logger"
	"github.com/jonathan/career-coach/internal/schemas"
	"github.com/jonathan/career-coach/internal/scoring"
	"github.com/jonathan/career-coach/internal/types"
)

const logPreviewLimit = 300

var errNoModel = errors.New("no model configured")

// Orchestrator chooses between the model and the heuristic for each assessment.
type Orchestrator struct {
	completer llm.Completer
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates an orchestrator. A nil completer means heuristic only.
func New(completer llm.Completer, timeout time.Duration, log *zap.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = llm.DefaultTimeout
	}
	return &Orchestrator{
		completer: completer,
		timeout:   timeout,
		logger:    logger.OrNop(log),
	}
}

// AnswerInput is one interview answer to be scored.
type AnswerInput struct {
	Question   string
	Answer     string
	Type       types.InterviewType
	Difficulty types.Difficulty
	TargetRole string
}

// AnalyzeResume scores resume text. The only error it returns is a validation error
// for text shorter than types.MinResumeTextLength.
func (o *Orchestrator) AnalyzeResume(ctx context.Context, resumeText, targetRole, jobDescription string) (types.AssessmentResult, error) {
	if utf8.RuneCountInString(strings.TrimSpace(resumeText)) < types.MinResumeTextLength {
		return types.AssessmentResult{}, &types.ErrValidation{
			Field:   "resume_text",
			Message: fmt.Sprintf("must be at least %d characters", types.MinResumeTextLength),
		}
	}

	result, err := o.modelResume(ctx, resumeText, targetRole, jobDescription)
	if err == nil {
		return result, nil
	}
	o.logFallback("resume", err)
	return scoring.AnalyzeResume(resumeText, targetRole, jobDescription), nil
}

// ScoreAnswer scores one interview answer. It never fails.
func (o *Orchestrator) ScoreAnswer(ctx context.Context, in AnswerInput) types.FeedbackResult {
	in.Type = types.ParseInterviewType(string(in.Type))
	in.Difficulty = types.ParseDifficulty(string(in.Difficulty))

	result, err := o.modelFeedback(ctx, in)
	if err == nil {
		return result
	}
	o.logFallback("interview", err)
	return scoring.ScoreAnswer(in.Answer, in.Type)
}

// ModelEnabled reports whether a model is configured.
func (o *Orchestrator) ModelEnabled() bool {
	return o.completer != nil
}

func (o *Orchestrator) logFallback(kind string, err error) {
	if errors.Is(err, errNoModel) {
		o.logger.Debug("using heuristic", zap.String("kind", kind))
		return
	}
	o.logger.Warn("model assessment failed, using heuristic",
		zap.String("kind", kind),
		zap.Error(err),
	)
}

func (o *Orchestrator) complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (map[string]any, error) {
	if o.completer == nil {
		return nil, errNoModel
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	raw, err := o.completer.Complete(callCtx, system, user, maxTokens, temperature)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	o.logger.Debug("model reply",
		zap.Duration("elapsed", time.Since(start)),
		zap.String("preview", logger.TruncateForLog(raw, logPreviewLimit)),
	)

	obj := llm.ExtractJSONObject(raw)
	if obj == nil {
		return nil, fmt.Errorf("no JSON object in model reply")
	}
	return obj, nil
}

type analysisWire struct {
	Score         float64 `mapstructure:"score"`
	SectionScores struct {
		Contact    float64 `mapstructure:"contact"`
		Summary    float64 `mapstructure:"summary"`
		Experience float64 `mapstructure:"experience"`
		Skills     float64 `mapstructure:"skills"`
		Education  float64 `mapstructure:"education"`
	} `mapstructure:"sectionScores"`
	QuickWins       []string `mapstructure:"quickWins"`
	MissingKeywords []string `mapstructure:"missingKeywords"`
	FoundKeywords   []string `mapstructure:"foundKeywords"`
	KeywordGap      struct {
		MissingFromJobDescription []string `mapstructure:"missingFromJobDescription"`
	} `mapstructure:"keywordGap"`
	Example struct {
		Before string `mapstructure:"before"`
		After  string `mapstructure:"after"`
	} `mapstructure:"example"`
}

type feedbackWire struct {
	Score     float64 `mapstructure:"score"`
	Breakdown struct {
		Clarity           float64 `mapstructure:"clarity"`
		TechnicalAccuracy float64 `mapstructure:"technicalAccuracy"`
		Communication     float64 `mapstructure:"communication"`
		Structure         float64 `mapstructure:"structure"`
	} `mapstructure:"breakdown"`
	Highlights   []string `mapstructure:"highlights"`
	Improvements []string `mapstructure:"improvements"`
	ModelAnswer  string   `mapstructure:"modelAnswer"`
}

func (o *Orchestrator) modelResume(ctx context.Context, resumeText, targetRole, jobDescription string) (types.AssessmentResult, error) {
	obj, err := o.complete(ctx, resumeSystemPrompt, buildResumePrompt(resumeText, targetRole, jobDescription),
		ResumeMaxTokens, ResumeTemperature)
	if err != nil {
		return types.AssessmentResult{}, err
	}
	if err := schemas.ValidateResumeAnalysis(obj); err != nil {
		return types.AssessmentResult{}, err
	}

	var w analysisWire
	if err := mapstructure.Decode(obj, &w); err != nil {
		return types.AssessmentResult{}, fmt.Errorf("failed to decode analysis: %w", err)
	}

	result := types.AssessmentResult{
		Score: round(w.Score),
		SectionScores: types.SectionScores{
			Contact:    round(w.SectionScores.Contact),
			Summary:    round(w.SectionScores.Summary),
			Experience: round(w.SectionScores.Experience),
			Skills:     round(w.SectionScores.Skills),
			Education:  round(w.SectionScores.Education),
		},
		QuickWins:       w.QuickWins,
		MissingKeywords: w.MissingKeywords,
		FoundKeywords:   w.FoundKeywords,
		KeywordGap:      types.KeywordGap{MissingFromJobDescription: w.KeywordGap.MissingFromJobDescription},
		Example:         types.RewriteExample{Before: w.Example.Before, After: w.Example.After},
		Source:          types.SourceModel,
	}
	return result.Normalize(), nil
}

func (o *Orchestrator) modelFeedback(ctx context.Context, in AnswerInput) (types.FeedbackResult, error) {
	obj, err := o.complete(ctx, feedbackSystemPrompt, buildFeedbackPrompt(in), FeedbackMaxTokens, FeedbackTemperature)
	if err != nil {
		return types.FeedbackResult{}, err
	}
	if err := schemas.ValidateInterviewFeedback(obj); err != nil {
		return types.FeedbackResult{}, err
	}

	var w feedbackWire
	if err := mapstructure.Decode(obj, &w); err != nil {
		return types.FeedbackResult{}, fmt.Errorf("failed to decode feedback: %w", err)
	}

	modelAnswer := strings.TrimSpace(w.ModelAnswer)
	if modelAnswer == "" {
		modelAnswer = scoring.ModelAnswer(in.Type)
	}

	result := types.FeedbackResult{
		Score: round(w.Score),
		Breakdown: types.Breakdown{
			Clarity:           round(w.Breakdown.Clarity),
			TechnicalAccuracy: round(w.Breakdown.TechnicalAccuracy),
			Communication:     round(w.Breakdown.Communication),
			Structure:         round(w.Breakdown.Structure),
		},
		Highlights:   w.Highlights,
		Improvements: w.Improvements,
		ModelAnswer:  modelAnswer,
		Source:       types.SourceModel,
	}
	return result.Normalize(), nil
}

// round converts a model-supplied number to int, saturating far outside any valid range.
func round(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(math.Round(f))
}
