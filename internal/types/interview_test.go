package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterviewType(t *testing.T) {
	tests := []struct {
		in   string
		want InterviewType
	}{
		{"behavioral", Behavioral},
		{"Technical", Technical},
		{"  case ", Case},
		{"", Behavioral},
		{"system-design", Behavioral},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInterviewType(tt.in))
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, Senior, ParseDifficulty("SENIOR"))
	assert.Equal(t, Mid, ParseDifficulty("mid"))
	assert.Equal(t, Entry, ParseDifficulty("staff"))
	assert.Equal(t, Entry, ParseDifficulty(""))
}

func TestTranscript_JSONEnvelope(t *testing.T) {
	at := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	tr := Transcript{
		QuestionEvent{Text: "Tell me about yourself.", At: at},
		AnswerEvent{Text: "First I studied, then I built things.", At: at},
		FeedbackEvent{Feedback: FeedbackResult{
			Score:        7,
			Breakdown:    Breakdown{Clarity: 7, TechnicalAccuracy: 6, Communication: 7, Structure: 8},
			Highlights:   []string{"Good structure in your answer."},
			Improvements: []string{"End with impact."},
			ModelAnswer:  "Situation: ...",
			Source:       SourceHeuristic,
		}, At: at},
	}

	data, err := json.Marshal(tr)
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 3)
	assert.Equal(t, "assistant", raw[0]["role"])
	assert.Equal(t, "question", raw[0]["kind"])
	assert.Equal(t, "user", raw[1]["role"])
	assert.Equal(t, "feedback", raw[2]["kind"])
	assert.EqualValues(t, 7, raw[2]["score"])

	var decoded Transcript
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tr, decoded)
}

func TestTranscript_UnmarshalUnknownKind(t *testing.T) {
	var tr Transcript
	err := json.Unmarshal([]byte(`[{"role":"assistant","kind":"hint","text":"x"}]`), &tr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestTranscript_Helpers(t *testing.T) {
	tr := Transcript{
		QuestionEvent{Text: "q1"},
		AnswerEvent{Text: "a1"},
		FeedbackEvent{Feedback: FeedbackResult{Score: 6}},
		QuestionEvent{Text: "q2"},
	}

	q, ok := tr.LatestQuestion()
	assert.True(t, ok)
	assert.Equal(t, "q2", q)
	assert.Equal(t, 2, tr.Count(KindQuestion))
	assert.Equal(t, 1, tr.Count(KindAnswer))
	require.Len(t, tr.Feedbacks(), 1)
	assert.Equal(t, 6, tr.Feedbacks()[0].Score)

	_, ok = Transcript{}.LatestQuestion()
	assert.False(t, ok)
}
