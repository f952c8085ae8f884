package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-coach/internal/ingestion"
	"github.com/jonathan/career-coach/internal/observability"
)

func newAnalyzeResumeCmd(opts *rootOptions) *cobra.Command {
	var (
		file    string
		role    string
		jdFile  string
		outFile string
		pretty  bool
	)
	cmd := &cobra.Command{
		Use:   "analyze-resume",
		Short: "Score a resume file offline",
		Long:  "Score a text, HTML or PDF resume with the assessment orchestrator and print the analysis as JSON. No quota is consumed and nothing is stored.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			extracted, err := ingestion.IngestFromFile(cmd.Context(), file)
			if err != nil {
				return fmt.Errorf("failed to ingest resume: %w", err)
			}
			if extracted.RequiresManualPaste {
				return fmt.Errorf("resume has too few words to analyze (%d, need %d)", extracted.Metadata.Words, ingestion.MinUploadWords)
			}

			var jobDescription string
			if jdFile != "" {
				raw, err := os.ReadFile(jdFile)
				if err != nil {
					return fmt.Errorf("failed to read job description: %w", err)
				}
				jobDescription = ingestion.CleanText(string(raw))
			}

			assessor, closeModel, err := newAssessor(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeModel()

			result, err := assessor.AnalyzeResume(cmd.Context(), extracted.Text, role, jobDescription)
			if err != nil {
				return err
			}
			if pretty {
				observability.NewPrinter(cmd.OutOrStdout()).PrintResumeAnalysis(&result)
				return nil
			}
			return writeJSON(cmd, outFile, result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the resume (.txt, .md or .html)")
	cmd.Flags().StringVarP(&role, "role", "r", "", "Target role")
	cmd.Flags().StringVar(&jdFile, "jd", "", "Path to a job description to compare against")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Print a human-readable summary instead of JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// writeJSON prints v as indented JSON to path, or to the command output when path is empty.
func writeJSON(cmd *cobra.Command, path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
