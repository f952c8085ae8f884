package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/jonathan/career-coach/internal/types"
)

// Interview scoring constants
const (
	SubScoreBase = 5

	ClarityWordThreshold       = 60
	ClarityWordBonus           = 1
	ClarityStructureBonus      = 2
	CommunicationWordThreshold = 80
	CommunicationWordBonus     = 1
	CommunicationNoFillerBonus = 1
	TechnicalMetricBonus       = 1
	TechnicalVocabularyBonus   = 2
	StructureWithMarkers       = 8
	StructureWithoutMarkers    = 6
)

var (
	starPattern     = regexp.MustCompile(`(?i)\b(situation|task|action|result)\b`)
	sequencePattern = regexp.MustCompile(`(?i)\b(first|then|finally)\b`)
	metricPattern   = regexp.MustCompile(`(?i)(\d+%|\$\d+|\d+\+|\b\d+\s*(users|requests|ms|seconds|minutes|hours|days)\b)`)
	vocabPattern    = regexp.MustCompile(`(?i)\b(api|rest|sql|index|big[- ]o|complexity|cache|latency|scal(e|ing)|auth|jwt)`)
	fillerPattern   = regexp.MustCompile(`(?i)\b(um|uh|like\s+like)\b`)
)

// Templated feedback strings
const (
	HighlightStructure   = "Good structure in your answer."
	HighlightNoStructure = "Try using a clearer structure (STAR / steps)."
	HighlightMetric      = "Nice use of measurable impact."
	HighlightNoMetric    = "Add a metric or concrete outcome if possible."
	ImproveOwnership     = "Be more specific about your role and what you did personally."
	ImproveImpact        = "End with impact: what changed because of your actions?"
	ImproveFiller        = "Cut filler words so your key points stand out."
	ImproveLength        = "Expand your answer with one concrete example."
)

// ModelAnswers are the reference answers returned with heuristic feedback.
var ModelAnswers = map[types.InterviewType]string{
	types.Behavioral: "Situation: In a group project, we kept missing deadlines. Task: I needed to improve delivery. " +
		"Action: I broke work into 1-week milestones, added a simple Kanban board, and did quick daily check-ins. " +
		"Result: We shipped on time and reduced rework by aligning early.",
	types.Technical: "I would design REST endpoints like POST /tasks, GET /tasks with pagination, PUT /tasks/:id, " +
		"DELETE /tasks/:id. I would validate inputs, store tasks with status and timestamps, add indexes on user_id " +
		"and created_at, and include auth (JWT/session). For pagination I'd use cursor-based or limit/offset " +
		"depending on requirements.",
	types.Case: "I would start by defining the goal metric, mapping the funnel, and identifying the biggest drop-off. " +
		"Then I'd propose 2-3 experiments with clear hypotheses, implement instrumentation, run the tests for a " +
		"fixed period, and roll out the winner.",
}

// ModelAnswer returns the reference answer for an interview type.
func ModelAnswer(t types.InterviewType) string {
	if a, ok := ModelAnswers[t]; ok {
		return a
	}
	return ModelAnswers[types.Case]
}

// Signals are the textual features the interview heuristic keys off.
type Signals struct {
	Words      int
	Structure  bool
	Metrics    bool
	Vocabulary bool
	Filler     bool
}

// DetectSignals extracts scoring signals from an answer.
func DetectSignals(answer string) Signals {
	text := strings.TrimSpace(answer)
	return Signals{
		Words:      len(strings.Fields(text)),
		Structure:  starPattern.MatchString(text) || sequencePattern.MatchString(text),
		Metrics:    metricPattern.MatchString(text),
		Vocabulary: vocabPattern.MatchString(text),
		Filler:     fillerPattern.MatchString(text),
	}
}

// ScoreAnswer scores an interview answer without any external call.
func ScoreAnswer(answer string, interviewType types.InterviewType) types.FeedbackResult {
	s := DetectSignals(answer)

	clarity := SubScoreBase
	if s.Words >= ClarityWordThreshold {
		clarity += ClarityWordBonus
	}
	if s.Structure {
		clarity += ClarityStructureBonus
	}

	technical := SubScoreBase
	if s.Metrics {
		technical += TechnicalMetricBonus
	}
	if interviewType == types.Technical && s.Vocabulary {
		technical += TechnicalVocabularyBonus
	}

	communication := SubScoreBase
	if s.Words >= CommunicationWordThreshold {
		communication += CommunicationWordBonus
	}
	if !s.Filler {
		communication += CommunicationNoFillerBonus
	}

	structure := StructureWithoutMarkers
	if s.Structure {
		structure = StructureWithMarkers
	}

	breakdown := types.Breakdown{
		Clarity:           clarity,
		TechnicalAccuracy: technical,
		Communication:     communication,
		Structure:         structure,
	}.Clamp()

	highlights := []string{HighlightNoStructure, HighlightNoMetric}
	if s.Structure {
		highlights[0] = HighlightStructure
	}
	if s.Metrics {
		highlights[1] = HighlightMetric
	}

	improvements := []string{ImproveOwnership, ImproveImpact}
	if s.Filler {
		improvements = append(improvements, ImproveFiller)
	}
	if s.Words < ClarityWordThreshold {
		improvements = append(improvements, ImproveLength)
	}

	return types.FeedbackResult{
		Score:        MeanScore(breakdown),
		Breakdown:    breakdown,
		Highlights:   highlights,
		Improvements: improvements,
		ModelAnswer:  ModelAnswer(interviewType),
		Source:       types.SourceHeuristic,
	}.Normalize()
}

// MeanScore is the rounded mean of the four sub-scores clamped to [1, 10].
func MeanScore(b types.Breakdown) int {
	sum := b.Clarity + b.TechnicalAccuracy + b.Communication + b.Structure
	return types.ClampInt(int(math.Round(float64(sum)/4)), 1, 10)
}
