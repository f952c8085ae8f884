package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/config"
	"github.com/jonathan/career-coach/internal/db"
	"github.com/jonathan/career-coach/internal/interview"
	"github.com/jonathan/career-coach/internal/quota"
	"github.com/jonathan/career-coach/internal/resume"
	"github.com/jonathan/career-coach/internal/roadmap"
	"github.com/jonathan/career-coach/internal/server"
	"github.com/jonathan/career-coach/internal/server/ratelimit"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		port    int
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long:  "Start an HTTP server exposing the resume, interview, roadmap, usage and dashboard endpoints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return runServe(cmd.Context(), cfg, log, migrate)
		},
	}
	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides server.port)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply the database schema before serving")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	if err := cfg.RequireDatabase(); err != nil {
		return err
	}
	jwtCfg, err := config.NewJWTConfig(cfg.Auth)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if migrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		log.Info("database schema applied")
	}

	assessor, closeModel, err := newAssessor(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeModel()

	ledger := quota.NewLedger(database, quota.Limits{
		ResumeAnalyses: cfg.Quota.ResumeAnalyses,
		Interviews:     cfg.Quota.Interviews,
	}, log)

	srv, err := server.New(server.Config{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		RateLimit:       ratelimit.NewConfig(cfg.RateLimit),
	}, server.Deps{
		Ledger:     ledger,
		Resumes:    resume.NewService(database, ledger, assessor, log),
		Interviews: interview.NewService(database, ledger, assessor, log),
		Roadmaps:   roadmap.NewService(database, log),
		Dashboard:  database,
		Tokens:     server.NewJWTService(jwtCfg).AsTokenValidator(),
		Pinger:     database,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
