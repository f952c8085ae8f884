// Package roadmap generates milestone roadmaps and tracks their progress.
package roadmap

import (
	"errors"
	"math"

	"github.com/jonathan/career-coach/internal/types"
)

// UnlockThreshold is the progress percent at which the advanced phase is appended.
const UnlockThreshold = 60

// AdvancedPhaseTitle is the title of the auto-unlocked phase.
const AdvancedPhaseTitle = "Advanced (Auto-unlocked)"

// ErrMilestoneNotFound is returned when no milestone carries the requested id.
var ErrMilestoneNotFound = errors.New("milestone not found")

// Progress counts completed milestones.
type Progress struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Percent int `json:"percent"`
}

// ComputeProgress flattens all phases and returns the rounded percent done.
func ComputeProgress(data *types.RoadmapData) Progress {
	var p Progress
	if data == nil {
		return p
	}
	for _, phase := range data.Phases {
		for _, m := range phase.Milestones {
			p.Total++
			if m.Done {
				p.Done++
			}
		}
	}
	if p.Total > 0 {
		p.Percent = int(math.Round(float64(p.Done) / float64(p.Total) * 100))
	}
	return p
}

// ApplyMilestone sets done on every milestone with the given id. A nil done flips
// each match. Ids are unique in generated roadmaps, but duplicates all update.
func ApplyMilestone(data *types.RoadmapData, id string, done *bool) error {
	found := false
	for i := range data.Phases {
		milestones := data.Phases[i].Milestones
		for j := range milestones {
			if milestones[j].ID != id {
				continue
			}
			if done != nil {
				milestones[j].Done = *done
			} else {
				milestones[j].Done = !milestones[j].Done
			}
			found = true
		}
	}
	if !found {
		return ErrMilestoneNotFound
	}
	return nil
}

// EnsureUnlock appends the advanced phase once progress reaches UnlockThreshold.
// It reports whether the phase was appended by this call.
func EnsureUnlock(data *types.RoadmapData) bool {
	if data.Dynamic.AdvancedPhaseAdded {
		return false
	}
	if ComputeProgress(data).Percent < UnlockThreshold {
		return false
	}
	data.Phases = append(data.Phases, advancedPhase())
	data.Dynamic.AdvancedPhaseAdded = true
	return true
}

func advancedPhase() types.Phase {
	return types.Phase{
		Title: AdvancedPhaseTitle,
		Milestones: []types.Milestone{
			{
				ID:          "x1",
				Title:       "Deepen one specialty",
				Description: "Pick one area (backend, frontend, data) and go deeper with one focused project improvement.",
				Resources:   []types.Resource{},
			},
			{
				ID:          "x2",
				Title:       "Interview sprint",
				Description: "Schedule 5 mock interviews and iterate on weak spots from feedback.",
				Resources:   []types.Resource{},
			},
		},
	}
}
