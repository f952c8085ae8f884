package prompts

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AssessmentFile, "resume-user")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Analyze this resume")
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(AssessmentFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_ValuesAreNotExpanded(t *testing.T) {
	template := "Q: {{.Question}}\nA: {{.Answer}}"
	data := map[string]string{
		"Question": "What is {{.Answer}}?",
		"Answer":   "42",
	}

	assert.Equal(t, "Q: What is {{.Answer}}?\nA: 42", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	assert.Equal(t, template, Format(template, map[string]string{}))
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List(AssessmentFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"feedback-system", "feedback-user", "resume-system", "resume-user"}, keys)
}

func TestAssessmentPlaceholders(t *testing.T) {
	ClearCache()
	placeholder := regexp.MustCompile(`\{\{\.(\w+)\}\}`)

	tests := []struct {
		key  string
		want []string
	}{
		{"resume-user", []string{"Contact", "Summary", "Experience", "Skills", "Education", "TargetRole", "JobDescription", "ResumeText"}},
		{"feedback-user", []string{"InterviewType", "Difficulty", "TargetRole", "Question", "Answer"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var got []string
			for _, m := range placeholder.FindAllStringSubmatch(MustGet(AssessmentFile, tt.key), -1) {
				got = append(got, m[1])
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
