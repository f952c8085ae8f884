package types

import (
	"time"

	"github.com/google/uuid"
)

// QuotaKind selects which monthly counter an operation consumes.
type QuotaKind string

// Quota kinds
const (
	QuotaResumeAnalysis QuotaKind = "resume"
	QuotaInterview      QuotaKind = "interview"
)

// QuotaCounter is the usage row for one user in one calendar month.
type QuotaCounter struct {
	UserID             uuid.UUID `json:"user_id"`
	Period             string    `json:"period_ym"`
	ResumeAnalysesUsed int       `json:"resume_analyses_used"`
	InterviewsUsed     int       `json:"interviews_used"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Used returns the counter value for kind.
func (c *QuotaCounter) Used(kind QuotaKind) int {
	if c == nil {
		return 0
	}
	if kind == QuotaInterview {
		return c.InterviewsUsed
	}
	return c.ResumeAnalysesUsed
}

// QuotaSnapshot is the state of one quota kind, attached to gated responses.
type QuotaSnapshot struct {
	Period    string `json:"period_ym"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

// UsageCounts pairs a value for each quota kind.
type UsageCounts struct {
	Resume    int `json:"resume"`
	Interview int `json:"interview"`
}

// UsageStatus reports both quota kinds for the current period.
type UsageStatus struct {
	Period    string      `json:"period_ym"`
	Limits    UsageCounts `json:"limits"`
	Used      UsageCounts `json:"used"`
	Remaining UsageCounts `json:"remaining"`
}
