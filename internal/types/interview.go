package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InterviewType is the category of a mock interview.
type InterviewType string

// Interview types
const (
	Behavioral InterviewType = "behavioral"
	Technical  InterviewType = "technical"
	Case       InterviewType = "case"
)

// Difficulty is the seniority level of a mock interview.
type Difficulty string

// Difficulty levels
const (
	Entry  Difficulty = "entry"
	Mid    Difficulty = "mid"
	Senior Difficulty = "senior"
)

// ParseInterviewType normalizes s, falling back to Behavioral for unknown values.
func ParseInterviewType(s string) InterviewType {
	switch t := InterviewType(strings.ToLower(strings.TrimSpace(s))); t {
	case Behavioral, Technical, Case:
		return t
	default:
		return Behavioral
	}
}

// ParseDifficulty normalizes s, falling back to Entry for unknown values.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Entry, Mid, Senior:
		return d
	default:
		return Entry
	}
}

// EventKind tags a transcript event.
type EventKind string

// Event kinds
const (
	KindQuestion EventKind = "question"
	KindAnswer   EventKind = "answer"
	KindFeedback EventKind = "feedback"
)

// Event is one entry of an interview transcript.
type Event interface {
	Kind() EventKind
	Time() time.Time
}

// QuestionEvent records a question asked by the interviewer.
type QuestionEvent struct {
	Text string
	At   time.Time
}

// AnswerEvent records the candidate's answer.
type AnswerEvent struct {
	Text string
	At   time.Time
}

// FeedbackEvent records the feedback produced for an answer.
type FeedbackEvent struct {
	Feedback FeedbackResult
	At       time.Time
}

func (e QuestionEvent) Kind() EventKind { return KindQuestion }
func (e QuestionEvent) Time() time.Time { return e.At }
func (e AnswerEvent) Kind() EventKind   { return KindAnswer }
func (e AnswerEvent) Time() time.Time   { return e.At }
func (e FeedbackEvent) Kind() EventKind { return KindFeedback }
func (e FeedbackEvent) Time() time.Time { return e.At }

// Transcript is the append-only, chronological list of session events.
type Transcript []Event

// LatestQuestion returns the text of the most recent question event.
func (t Transcript) LatestQuestion() (string, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if q, ok := t[i].(QuestionEvent); ok {
			return q.Text, true
		}
	}
	return "", false
}

// Count returns the number of events of the given kind.
func (t Transcript) Count(kind EventKind) int {
	n := 0
	for _, e := range t {
		if e.Kind() == kind {
			n++
		}
	}
	return n
}

// Feedbacks returns every feedback result in order.
func (t Transcript) Feedbacks() []FeedbackResult {
	var out []FeedbackResult
	for _, e := range t {
		if f, ok := e.(FeedbackEvent); ok {
			out = append(out, f.Feedback)
		}
	}
	return out
}

// eventEnvelope is the stored form of a transcript event.
type eventEnvelope struct {
	Role         string     `json:"role"`
	Kind         EventKind  `json:"kind"`
	Text         string     `json:"text,omitempty"`
	At           time.Time  `json:"at"`
	Score        *int       `json:"score,omitempty"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
	Highlights   []string   `json:"highlights,omitempty"`
	Improvements []string   `json:"improvements,omitempty"`
	ModelAnswer  string     `json:"modelAnswer,omitempty"`
	Source       string     `json:"source,omitempty"`
}

const (
	roleAssistant = "assistant"
	roleUser      = "user"
)

// MarshalJSON writes the transcript as a list of tagged envelopes.
func (t Transcript) MarshalJSON() ([]byte, error) {
	out := make([]eventEnvelope, 0, len(t))
	for _, e := range t {
		switch ev := e.(type) {
		case QuestionEvent:
			out = append(out, eventEnvelope{Role: roleAssistant, Kind: KindQuestion, Text: ev.Text, At: ev.At})
		case AnswerEvent:
			out = append(out, eventEnvelope{Role: roleUser, Kind: KindAnswer, Text: ev.Text, At: ev.At})
		case FeedbackEvent:
			f := ev.Feedback
			score := f.Score
			breakdown := f.Breakdown
			out = append(out, eventEnvelope{
				Role:         roleAssistant,
				Kind:         KindFeedback,
				At:           ev.At,
				Score:        &score,
				Breakdown:    &breakdown,
				Highlights:   f.Highlights,
				Improvements: f.Improvements,
				ModelAnswer:  f.ModelAnswer,
				Source:       f.Source,
			})
		default:
			return nil, fmt.Errorf("unknown transcript event %T", e)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a list of tagged envelopes.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var raw []eventEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode transcript: %w", err)
	}

	events := make(Transcript, 0, len(raw))
	for i, env := range raw {
		switch env.Kind {
		case KindQuestion:
			events = append(events, QuestionEvent{Text: env.Text, At: env.At})
		case KindAnswer:
			events = append(events, AnswerEvent{Text: env.Text, At: env.At})
		case KindFeedback:
			f := FeedbackResult{
				Highlights:   env.Highlights,
				Improvements: env.Improvements,
				ModelAnswer:  env.ModelAnswer,
				Source:       env.Source,
			}
			if env.Score != nil {
				f.Score = *env.Score
			}
			if env.Breakdown != nil {
				f.Breakdown = *env.Breakdown
			}
			events = append(events, FeedbackEvent{Feedback: f, At: env.At})
		default:
			return fmt.Errorf("transcript event %d has unknown kind %q", i, env.Kind)
		}
	}

	*t = events
	return nil
}

// InterviewSession is a multi-turn mock interview owned by one user.
type InterviewSession struct {
	ID           uuid.UUID     `json:"id"`
	UserID       uuid.UUID     `json:"user_id"`
	Type         InterviewType `json:"interview_type"`
	Difficulty   Difficulty    `json:"difficulty"`
	TargetRole   string        `json:"target_role,omitempty"`
	Transcript   Transcript    `json:"transcript"`
	OverallScore *int          `json:"overall_score"`
	Version      int           `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// SessionListItem is the history view of a session.
type SessionListItem struct {
	ID           uuid.UUID     `json:"id"`
	Type         InterviewType `json:"interview_type"`
	Difficulty   Difficulty    `json:"difficulty"`
	TargetRole   string        `json:"target_role,omitempty"`
	OverallScore *int          `json:"overall_score"`
	CreatedAt    time.Time     `json:"created_at"`
}

// AverageBreakdown is the per-dimension mean across a session's feedback.
type AverageBreakdown struct {
	Clarity           *int `json:"clarity"`
	TechnicalAccuracy *int `json:"technicalAccuracy"`
	Communication     *int `json:"communication"`
	Structure         *int `json:"structure"`
}

// SessionSummary is derived from a transcript without mutating it.
type SessionSummary struct {
	OverallScore   *int             `json:"overall_score"`
	AvgBreakdown   AverageBreakdown `json:"avgBreakdown"`
	Strengths      []string         `json:"strengths"`
	Improvements   []string         `json:"improvements"`
	AnswersCount   int              `json:"answersCount"`
	QuestionsCount int              `json:"questionsCount"`
}
