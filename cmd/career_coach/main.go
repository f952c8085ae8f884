// Package main provides the career_coach API server and its command-line tools.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/assessment"
	"github.com/jonathan/career-coach/internal/config"
	"github.com/jonathan/career-coach/internal/llm"
	"github.com/jonathan/career-coach/internal/logger"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "career_coach",
		Short:         "Career Coach assessment API server",
		Long:          "Career Coach scores resumes, runs mock interviews and tracks learning roadmaps behind a monthly free-tier quota.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default ./career_coach.yaml if present)")

	cmd.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
		newAnalyzeResumeCmd(opts),
		newScoreAnswerCmd(opts),
		newRoadmapCmd(),
	)
	return cmd
}

// load reads the configuration and builds the logger it describes.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.New(), o.configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// newAssessor builds the orchestrator. Without an API key every assessment
// uses the heuristic scorer. The returned func releases the model client.
func newAssessor(ctx context.Context, cfg *config.Config, log *zap.Logger) (*assessment.Orchestrator, func(), error) {
	if !cfg.ModelEnabled() {
		log.Debug("no model API key configured, using heuristic scoring only")
		return assessment.New(nil, cfg.LLM.Timeout, log), func() {}, nil
	}

	llmCfg := llm.DefaultConfig().WithModel(cfg.LLM.Model).WithTimeout(cfg.LLM.Timeout)
	client, err := llm.NewClient(ctx, llmCfg, cfg.LLM.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}
	log.Debug("model client ready", zap.String(logger.FieldModel, client.Model()))

	return assessment.New(client, cfg.LLM.Timeout, log), func() { _ = client.Close() }, nil
}
