package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/assessment"
	"github.com/jonathan/career-coach/internal/interview"
	"github.com/jonathan/career-coach/internal/observability"
	"github.com/jonathan/career-coach/internal/types"
)

func newScoreAnswerCmd(opts *rootOptions) *cobra.Command {
	var (
		question      string
		answer        string
		interviewType string
		difficulty    string
		role          string
		outFile       string
		pretty        bool
	)
	cmd := &cobra.Command{
		Use:   "score-answer",
		Short: "Score one interview answer offline",
		Long:  "Score a single interview answer and print the feedback as JSON. When --question is empty the first bank question for the type and difficulty is used.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(answer) == "" {
				return fmt.Errorf("--answer is required")
			}

			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			in := assessment.AnswerInput{
				Question:   question,
				Answer:     answer,
				Type:       types.ParseInterviewType(interviewType),
				Difficulty: types.ParseDifficulty(difficulty),
				TargetRole: role,
			}
			if strings.TrimSpace(in.Question) == "" {
				in.Question = interview.PickQuestion(in.Type, in.Difficulty, 0)
			}

			assessor, closeModel, err := newAssessor(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeModel()

			feedback := assessor.ScoreAnswer(cmd.Context(), in)
			if pretty {
				observability.NewPrinter(cmd.OutOrStdout()).PrintFeedback(&feedback)
				return nil
			}
			return writeJSON(cmd, outFile, feedback)
		},
	}
	cmd.Flags().StringVarP(&question, "question", "q", "", "Interview question")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "Answer to score")
	cmd.Flags().StringVarP(&interviewType, "type", "t", string(types.Behavioral), "Interview type: behavioral, technical or case")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(types.Entry), "Difficulty: entry, mid or senior")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Target role")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Print a human-readable summary instead of JSON")
	return cmd
}
