package types

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a learning link attached to a milestone.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Milestone is a single checklist item.
type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Done        bool       `json:"done"`
	Resources   []Resource `json:"resources"`
}

// Phase groups milestones under a title.
type Phase struct {
	Title      string      `json:"title"`
	Milestones []Milestone `json:"milestones"`
}

// Dynamic holds one-shot flags stored with the roadmap tree.
type Dynamic struct {
	AdvancedPhaseAdded bool `json:"advancedPhaseAdded"`
}

// RoadmapData is the JSON document persisted for a roadmap.
type RoadmapData struct {
	Version    int       `json:"version"`
	TargetRole string    `json:"targetRole"`
	SkillLevel string    `json:"skillLevel,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	Phases     []Phase   `json:"phases"`
	Dynamic    Dynamic   `json:"dynamic"`
}

// Roadmap is the stored roadmap row for a user.
type Roadmap struct {
	ID              uuid.UUID   `json:"id"`
	UserID          uuid.UUID   `json:"user_id"`
	TargetRole      string      `json:"target_role"`
	Data            RoadmapData `json:"roadmap_data"`
	ProgressPercent int         `json:"progress_percent"`
	Version         int         `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Onboarding is the profile a user fills in before generating a roadmap.
type Onboarding struct {
	UserID         uuid.UUID `json:"user_id"`
	Status         string    `json:"status"`
	TargetRole     string    `json:"target_role"`
	SkillLevel     string    `json:"skill_level"`
	GraduationYear *int      `json:"graduation_year,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
