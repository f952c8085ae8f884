package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume sources
const (
	ResumeSourceText   = "text"
	ResumeSourceUpload = "upload"
)

// ResumeRecord is one stored resume version and its analysis.
type ResumeRecord struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Source     string           `json:"source"`
	TargetRole string           `json:"target_role,omitempty"`
	RawText    string           `json:"raw_text"`
	ATSScore   int              `json:"ats_score"`
	Analysis   AssessmentResult `json:"analysis_result"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ResumeListItem is the history view of a resume.
type ResumeListItem struct {
	ID         uuid.UUID `json:"id"`
	TargetRole string    `json:"target_role,omitempty"`
	ATSScore   int       `json:"ats_score"`
	CreatedAt  time.Time `json:"created_at"`
}

// DashboardSummary aggregates the latest state of each feature for a user.
type DashboardSummary struct {
	LastResume    *DashboardResume    `json:"lastResume"`
	LastInterview *DashboardInterview `json:"lastInterview"`
	Roadmap       *DashboardRoadmap   `json:"roadmap"`
}

// DashboardResume is the latest resume score.
type DashboardResume struct {
	ATSScore  int       `json:"ats_score"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardInterview is the latest interview score.
type DashboardInterview struct {
	OverallScore *int      `json:"overall_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// DashboardRoadmap is the current roadmap progress.
type DashboardRoadmap struct {
	ProgressPercent int       `json:"progress_percent"`
	TargetRole      string    `json:"target_role"`
	UpdatedAt       time.Time `json:"updated_at"`
}
