package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/observability"
	"github.com/jonathan/career-coach/internal/roadmap"
)

func newRoadmapCmd() *cobra.Command {
	var (
		role    string
		level   string
		outFile string
		pretty  bool
	)
	cmd := &cobra.Command{
		Use:   "roadmap",
		Short: "Preview the roadmap template for a role",
		Long:  "Generate a roadmap from the built-in templates without storing it. Role and level default to Software Engineer and beginner.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := roadmap.Generate(role, level, time.Now())
			if err != nil {
				return err
			}
			if pretty {
				observability.NewPrinter(cmd.OutOrStdout()).PrintRoadmap(&data)
				return nil
			}
			return writeJSON(cmd, outFile, data)
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "Target role")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Skill level: beginner, intermediate or advanced")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Print a checklist instead of JSON")
	return cmd
}
