// Package schemas embeds the JSON Schema documents for structured artifacts.
package schemas

import "embed"

// Schema file names
const (
	ResumeAnalysis    = "resume_analysis.schema.json"
	InterviewFeedback = "interview_feedback.schema.json"
	Roadmap           = "roadmap.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
