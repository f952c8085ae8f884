package roadmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/career-coach/internal/schemas"
	"github.com/jonathan/career-coach/internal/types"
)

// Defaults applied when neither the request nor the onboarding profile names a value.
const (
	DefaultTargetRole = "Software Engineer"
	DefaultSkillLevel = "beginner"
	DataVersion       = 1
)

// Skill levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

func milestone(id, title, description string, resources ...types.Resource) types.Milestone {
	if resources == nil {
		resources = []types.Resource{}
	}
	return types.Milestone{ID: id, Title: title, Description: description, Resources: resources}
}

func dataPhases() []types.Phase {
	return []types.Phase{
		{
			Title: "Foundations (Week 1-2)",
			Milestones: []types.Milestone{
				milestone("d1", "SQL basics + joins", "Write queries with joins, group by, and window functions.",
					types.Resource{Title: "SQLBolt", URL: "https://sqlbolt.com/"}),
				milestone("d2", "Spreadsheet + charts", "Build a small dashboard with charts and pivots."),
				milestone("d3", "Python for analysis", "Use pandas to clean, merge, and summarize data.",
					types.Resource{Title: "pandas docs", URL: "https://pandas.pydata.org/docs/"}),
			},
		},
		{
			Title: "Projects (Week 3-4)",
			Milestones: []types.Milestone{
				milestone("d4", "Portfolio project #1", "Analyze a public dataset and publish insights."),
				milestone("d5", "Visualization tool", "Create a Tableau/Power BI dashboard and share screenshots."),
			},
		},
		{
			Title: "Interview Readiness (Week 5)",
			Milestones: []types.Milestone{
				milestone("d6", "Story bank (STAR)", "Write 6-8 STAR stories for common questions."),
				milestone("d7", "Mock interviews", "Do 3 mocks and iterate resume + answers."),
			},
		},
	}
}

func productPhases() []types.Phase {
	return []types.Phase{
		{
			Title: "PM Fundamentals (Week 1-2)",
			Milestones: []types.Milestone{
				milestone("p1", "Write a PRD", "Draft a one-page PRD for a feature with success metrics."),
				milestone("p2", "User research plan", "Define interview questions and recruitment plan."),
				milestone("p3", "Metrics + funnel", "Pick a north-star metric and supporting metrics."),
			},
		},
		{
			Title: "Execution (Week 3-4)",
			Milestones: []types.Milestone{
				milestone("p4", "Roadmap + prioritization", "Build a roadmap and prioritize with RICE/MoSCoW."),
				milestone("p5", "Experiment design", "Design 2 experiments with hypotheses and guardrails."),
			},
		},
		{
			Title: "Interview Readiness (Week 5)",
			Milestones: []types.Milestone{
				milestone("p6", "Case practice", "Practice 5 product cases and refine structure."),
				milestone("p7", "Story bank", "Prepare 8 behavioral stories and outcomes."),
			},
		},
	}
}

func softwarePhases(level string) []types.Phase {
	secondProject := "Build a second project focused on your target role."
	if level == LevelAdvanced {
		secondProject = "Add caching/queues/observability to a project."
	}
	return []types.Phase{
		{
			Title: "Core Skills (Week 1-2)",
			Milestones: []types.Milestone{
				milestone("s1", "DSA basics", "Practice arrays, strings, hashmaps, and complexity."),
				milestone("s2", "Backend fundamentals", "Build a small REST API with validation and auth."),
				milestone("s3", "Frontend fundamentals", "Build a small React UI with forms and routing."),
			},
		},
		{
			Title: "Projects (Week 3-4)",
			Milestones: []types.Milestone{
				milestone("s4", "Project #1", "Ship a complete CRUD app with DB + deployment."),
				milestone("s5", "Project #2", secondProject),
			},
		},
		{
			Title: "Interview Readiness (Week 5)",
			Milestones: []types.Milestone{
				milestone("s6", "Resume iteration", "Tailor resume for the target role and quantify impact."),
				milestone("s7", "Mock interviews", "Do 5 mocks and track score improvements."),
			},
		},
	}
}

// Generate builds a fresh roadmap from the template matching targetRole.
// Roles mentioning "data" get the data track, "product manager" the PM track,
// anything else the software track.
func Generate(targetRole, skillLevel string, now time.Time) (types.RoadmapData, error) {
	role := strings.TrimSpace(targetRole)
	if role == "" {
		role = DefaultTargetRole
	}
	level := strings.ToLower(strings.TrimSpace(skillLevel))
	if level == "" {
		level = DefaultSkillLevel
	}

	data := types.RoadmapData{
		Version:    DataVersion,
		TargetRole: role,
		SkillLevel: level,
		CreatedAt:  now.UTC(),
	}

	roleKey := strings.ToLower(role)
	switch {
	case strings.Contains(roleKey, "data"):
		data.Phases = dataPhases()
	case strings.Contains(roleKey, "product manager"):
		data.Phases = productPhases()
	default:
		data.Phases = softwarePhases(level)
	}

	if err := Validate(&data); err != nil {
		return types.RoadmapData{}, err
	}
	return data, nil
}

// Validate checks the document shape and that milestone ids are unique.
func Validate(data *types.RoadmapData) error {
	if err := schemas.ValidateRoadmap(data); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, phase := range data.Phases {
		for _, m := range phase.Milestones {
			if seen[m.ID] {
				return fmt.Errorf("duplicate milestone id %q", m.ID)
			}
			seen[m.ID] = true
		}
	}
	return nil
}
