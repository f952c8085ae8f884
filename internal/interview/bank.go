// Package interview runs multi-turn mock interview sessions.
package interview

import "github.com/jonathan/career-coach/internal/types"

var questionBank = map[types.InterviewType]map[types.Difficulty][]string{
	types.Behavioral: {
		types.Entry: {
			"Tell me about yourself.",
			"Tell me about a time you faced a challenge and how you handled it.",
			"Why do you want this role?",
		},
		types.Mid: {
			"Tell me about a time you led a project or influenced others without authority.",
			"Describe a conflict in a team and how you resolved it.",
			"Tell me about a time you had to learn something quickly.",
		},
		types.Senior: {
			"Tell me about a strategic decision you made with incomplete information.",
			"Describe a time you drove a cross-team initiative and measured impact.",
			"Tell me about a failure and what you changed afterward.",
		},
	},
	types.Technical: {
		types.Entry: {
			"Explain the difference between var, let, and const in JavaScript.",
			"What is a REST API and what does it mean for an API to be stateless?",
			"What is Big-O? Give an example.",
		},
		types.Mid: {
			"Design an API endpoint for creating and listing tasks. What routes and validations would you use?",
			"Explain indexing in databases. When can an index hurt performance?",
			"How would you handle pagination and filtering in an API?",
		},
		types.Senior: {
			"Design a URL shortener. Outline data model, scaling, and failure modes.",
			"Explain eventual consistency and where it is acceptable.",
			"Design a rate limiter for an API.",
		},
	},
	types.Case: {
		types.Entry: {
			"You have 2 weeks to improve user sign-ups. What steps would you take?",
			"How would you prioritize features for a student career app MVP?",
		},
		types.Mid: {
			"A feature increased sign-ups but reduced retention. How do you investigate and decide next steps?",
			"You need to reduce cloud costs by 30% without hurting UX. What do you do?",
		},
		types.Senior: {
			"You suspect your product has PMF in one segment but not others. How do you validate and focus?",
			"Propose an experiment strategy to increase interview practice completion by 2x.",
		},
	},
}

// Questions returns the bank for a type and difficulty, falling back to
// behavioral and entry for unknown values.
func Questions(t types.InterviewType, d types.Difficulty) []string {
	byDiff, ok := questionBank[t]
	if !ok {
		byDiff = questionBank[types.Behavioral]
	}
	list, ok := byDiff[d]
	if !ok {
		list = byDiff[types.Entry]
	}
	return list
}

// PickQuestion returns the question at step, cycling through the bank.
func PickQuestion(t types.InterviewType, d types.Difficulty, step int) string {
	list := Questions(t, d)
	if step < 0 {
		step = 0
	}
	return list[step%len(list)]
}
