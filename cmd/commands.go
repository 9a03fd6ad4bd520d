package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/cnbpulse/config"
	"github.com/guttosm/cnbpulse/internal/app"
	"github.com/guttosm/cnbpulse/internal/domain/models"
	"github.com/guttosm/cnbpulse/internal/logger"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

// indirections for command tests
var (
	loadConfig    = config.LoadConfig
	runIngestion  = app.RunIngestion
	initializeApp = app.InitializeApp
	serve         = func(ctx context.Context, router http.Handler, port string, cleanup func()) error {
		return gracefulShutdown(ctx, startServer(router, port), cleanup)
	}
)

func newRootCmd() *cobra.Command {
	var (
		cfg      *config.Config
		logLevel string
	)

	root := &cobra.Command{
		Use:           "cnbpulse",
		Short:         "CNB exchange-rate ingestion and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.Log.Level = logLevel
			}
			logger.Init(c.Log.Level, c.Log.Pretty)
			cfg = c
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug|info|warn|error)")

	current := func() *config.Config { return cfg }
	root.AddCommand(
		newIngestCmd(current),
		newAPICmd(current),
		newVersionCmd(),
	)
	return root
}

func newIngestCmd(cfg func() *config.Config) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest the last twelve monthly publications from the CNB feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			today := time.Now()
			if date != "" {
				d, err := time.Parse(models.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", date, err)
				}
				today = d
			}

			logger.L().Info().Msg("running ingestion")
			rep, err := runIngestion(cmd.Context(), cfg(), today)
			if err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if codes := rep.Gate.IncompleteCodes(); len(codes) > 0 {
				fmt.Fprintf(out, "Currencies with incomplete data: %s\n", strings.Join(codes, ", "))
			}
			fmt.Fprintln(out, "Data ingestion completed")
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Reference day YYYY-MM-DD (default: today)")
	return cmd
}

func newAPICmd(cfg func() *config.Config) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cfg()
			if port == "" {
				port = c.Server.Port
			}

			logger.L().Info().Msg("starting API server")
			router, cleanup, err := initializeApp(c)
			if err != nil {
				return fmt.Errorf("app init error: %w", err)
			}
			return serve(cmd.Context(), router, port, cleanup)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port for the API server (default: SERVER_PORT)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// no configuration needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\ncommit: %s\n", version, commit)
		},
	}
}
