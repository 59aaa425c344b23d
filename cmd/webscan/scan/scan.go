package scan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"webscan/internal/notification"
	"webscan/internal/storage"
	"webscan/internal/utils"
	"webscan/pkg/engine"
	"webscan/pkg/hooks"
	"webscan/pkg/logger"
	"webscan/pkg/report"
	"webscan/pkg/scanner"
)

// Config holds the scan command configuration
type Config struct {
	TargetURL   string
	Depth       int
	MaxPages    int
	Exclusions  []string
	Mode        string
	Speed       string
	Verbose     bool
	ProfilePath string
	ProfileName string
	OutputDir   string
	HistoryPath string
	Timeout     time.Duration
}

// App represents the one-shot scan application
type App struct {
	config        *Config
	logger        *logger.Logger
	discordClient *notification.NotificationClient
}

// NewApp creates a new application instance
func NewApp(config *Config) (*App, error) {
	logLevel := logrus.InfoLevel
	if config.Verbose {
		logLevel = logrus.DebugLevel
	}
	appLogger := logger.NewLogger(logLevel)

	// Initialize Discord client if configured
	var discordClient *notification.NotificationClient
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		var err error
		discordClient, err = notification.NewNotificationClient()
		if err != nil {
			appLogger.WithError(err).Warn("Failed to initialize Discord client")
		} else {
			appLogger.Info("Discord notifications enabled")
		}
	} else {
		appLogger.Info("DISCORD_TOKEN not set - Discord notifications disabled")
	}

	return &App{
		config:        config,
		logger:        appLogger,
		discordClient: discordClient,
	}, nil
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.discordClient != nil {
		return a.discordClient.Close()
	}
	return nil
}

// Run executes a single scan end to end: validate, run the backend,
// wait for a terminal state, then write report artifacts and record
// the session in the history store.
func (a *App) Run(ctx context.Context) error {
	cfg, err := engine.Validate(engine.RawConfig{
		TargetURL:  a.config.TargetURL,
		Depth:      a.config.Depth,
		MaxPages:   a.config.MaxPages,
		Exclusions: a.config.Exclusions,
		Mode:       a.config.Mode,
		Speed:      a.config.Speed,
	})
	if err != nil {
		return fmt.Errorf("invalid scan configuration: %w", err)
	}

	profile := scanner.LoadProfileByName(a.config.ProfilePath, a.config.ProfileName)
	backend := scanner.NewSimulator(
		scanner.WithProfile(profile),
		scanner.WithSimLogger(a.logger))

	opts := []engine.OptFunc{engine.WithLogger(a.logger)}
	if a.discordClient != nil {
		opts = append(opts, engine.WithHook(hooks.NewNotifierHook(a.discordClient)))
	}
	orch := engine.NewOrchestrator(backend, opts...)

	scanID, err := orch.StartScan(cfg)
	if err != nil {
		return fmt.Errorf("failed to start scan: %w", err)
	}
	a.logger.WithSession(scanID, cfg.TargetURL).Info("Scan started")

	// Wait for completion or cancellation
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		errChan <- orch.Wait(context.Background(), scanID)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		a.logger.Info("Shutdown requested, cancelling scan...")
		if cancelErr := orch.CancelScan(scanID); cancelErr != nil {
			a.logger.WithError(cancelErr).Warn("Cancel request failed")
		}

		timeout := time.NewTimer(30 * time.Second)
		defer timeout.Stop()

		select {
		case <-errChan:
		case <-timeout.C:
			a.logger.Warn("Scan shutdown timed out")
			return fmt.Errorf("scan shutdown timed out")
		}
	}

	session, err := orch.GetScanResults(scanID)
	if err != nil {
		return fmt.Errorf("failed to collect results: %w", err)
	}

	if err := a.persist(session); err != nil {
		return err
	}

	a.logger.WithFields(logger.Fields{
		"scan_id": session.ID,
		"state":   string(session.State),
	}).Info("Scan finished")
	return nil
}

// persist writes report artifacts and the scan log into a timestamped
// output directory and records the session in the history store.
func (a *App) persist(session *engine.Session) error {
	outputDir, err := utils.CreateScanOutputDirectory(a.config.OutputDir, session.Config.TargetURL)
	if err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	scanLog, err := logger.NewScanLogger(session.ID, outputDir, logrus.InfoLevel)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to open scan log")
	} else {
		defer scanLog.Close()
		if session.State == engine.StateFailed {
			scanLog.LogScanFailure(session.FailureReason, nil)
		} else {
			scanLog.LogScanSuccess(len(session.Findings))
		}
	}

	if session.Summary != nil {
		for _, format := range []report.Format{report.FormatDocument, report.FormatTable, report.FormatPDF} {
			artifact, genErr := report.Generate(session, format)
			if genErr != nil {
				a.logger.WithError(genErr).WithFields(logrus.Fields{
					"format": string(format),
				}).Error("Report generation failed")
				continue
			}
			outPath := filepath.Join(outputDir, artifactFileName(format))
			if writeErr := os.WriteFile(outPath, artifact.Data, 0644); writeErr != nil {
				a.logger.WithError(writeErr).Error("Failed to write report artifact")
				continue
			}
			a.logger.WithFields(logger.Fields{
				"format": string(format),
				"path":   outPath,
			}).Info("Report artifact written")
		}
	}

	store, err := storage.NewStore(a.config.HistoryPath)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to open history store")
		return nil
	}
	defer store.Close()

	if err := store.SaveSession(session); err != nil {
		a.logger.WithError(err).Warn("Failed to record session in history")
	}
	return nil
}

// artifactFileName maps a report format onto its artifact file name.
func artifactFileName(format report.Format) string {
	switch format {
	case report.FormatTable:
		return "report.csv"
	case report.FormatPDF:
		return "report.pdf"
	default:
		return "report.json"
	}
}

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	config := &Config{}

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a one-shot scan against a target URL",
		Long:  `Run a single vulnerability scan against the target URL and write report artifacts to the output directory`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			app, err := NewApp(config)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer func() {
				if closeErr := app.Close(); closeErr != nil {
					app.logger.WithError(closeErr).Error("Error closing application")
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
			defer cancel()

			// Handle signals
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigChan
				app.logger.WithFields(logger.Fields{
					"signal": sig.String(),
				}).Info("Received shutdown signal")
				cancel()
			}()

			return app.Run(ctx)
		},
	}

	scanCmd.Flags().StringVarP(&config.TargetURL, "url", "u", "", "Target URL to scan (required)")
	scanCmd.Flags().IntVar(&config.Depth, "depth", 2, "Crawl depth")
	scanCmd.Flags().IntVar(&config.MaxPages, "max-pages", 50, "Maximum number of pages to visit")
	scanCmd.Flags().StringSliceVar(&config.Exclusions, "exclude", nil, "URL path patterns to skip")
	scanCmd.Flags().StringVar(&config.Mode, "mode", "passive", "Scan mode (passive or active)")
	scanCmd.Flags().StringVar(&config.Speed, "speed", "medium", "Scan speed (slow, medium or fast)")
	scanCmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable verbose logging")
	scanCmd.Flags().StringVar(&config.ProfilePath, "config", "./config", "Check profile directory path")
	scanCmd.Flags().StringVar(&config.ProfileName, "profile", "checks", "Check profile name")
	scanCmd.Flags().StringVar(&config.OutputDir, "output", "./scans", "Base directory for scan output")
	scanCmd.Flags().StringVar(&config.HistoryPath, "history", "./webscan_history.db", "Path to the scan history database")
	scanCmd.Flags().DurationVar(&config.Timeout, "timeout", 30*time.Minute, "Global timeout for the scan")

	scanCmd.MarkFlagRequired("url")

	return scanCmd
}

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var historyPath string

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List previously recorded scans",
		Long:  `List all scans recorded in the local history database with their state and severity totals`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			store, err := storage.NewStore(historyPath)
			if err != nil {
				return fmt.Errorf("failed to open history store %s: %w", historyPath, err)
			}
			defer store.Close()

			sessions, err := store.ListSessions()
			if err != nil {
				return fmt.Errorf("failed to list scan history: %w", err)
			}

			fmt.Println("Scan History:")
			fmt.Println("=============")

			for _, s := range sessions {
				fmt.Printf("\n• %s\n", s.ID)
				fmt.Printf("  Target: %s\n", s.Config.TargetURL)
				fmt.Printf("  State: %s\n", s.State)
				fmt.Printf("  Started: %s\n", s.StartedAt.Format(time.RFC3339))
				if s.Summary != nil {
					fmt.Printf("  Findings: %d (high: %d, medium: %d, low: %d)\n",
						s.Summary.Total, s.Summary.High, s.Summary.Medium, s.Summary.Low)
				}
				if s.FailureReason != "" {
					fmt.Printf("  Failure: %s\n", s.FailureReason)
				}
			}

			if len(sessions) == 0 {
				fmt.Printf("No scans recorded in %s\n", historyPath)
			}

			return nil
		},
	}

	historyCmd.Flags().StringVar(&historyPath, "history", "./webscan_history.db", "Path to the scan history database")

	return historyCmd
}

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	var (
		historyPath string
		format      string
		outputPath  string
	)

	reportCmd := &cobra.Command{
		Use:   "report <scan-id>",
		Short: "Regenerate a report for a recorded scan",
		Long:  `Regenerate a report artifact for a scan recorded in the local history database`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			parsed, err := report.ParseFormat(format)
			if err != nil {
				return fmt.Errorf("unsupported report format %q", format)
			}

			store, err := storage.NewStore(historyPath)
			if err != nil {
				return fmt.Errorf("failed to open history store %s: %w", historyPath, err)
			}
			defer store.Close()

			session, err := store.GetSession(args[0])
			if err != nil {
				return fmt.Errorf("failed to load scan %s: %w", args[0], err)
			}
			if session == nil {
				return fmt.Errorf("no recorded scan with id %s", args[0])
			}

			artifact, err := report.Generate(session, parsed)
			if err != nil {
				return fmt.Errorf("failed to generate report: %w", err)
			}

			if outputPath == "" {
				outputPath = artifactFileName(parsed)
			}
			if err := os.WriteFile(outputPath, artifact.Data, 0644); err != nil {
				return fmt.Errorf("failed to write report to %s: %w", outputPath, err)
			}

			fmt.Printf("Report written to %s\n", outputPath)
			return nil
		},
	}

	reportCmd.Flags().StringVar(&historyPath, "history", "./webscan_history.db", "Path to the scan history database")
	reportCmd.Flags().StringVarP(&format, "format", "f", "document", "Report format (document, table or pdf)")
	reportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path")

	return reportCmd
}

// NewListProfilesCommand creates the list-profiles command
func NewListProfilesCommand() *cobra.Command {
	var profilePath string

	listProfilesCmd := &cobra.Command{
		Use:   "list-profiles",
		Short: "List available check profiles",
		Long:  `List all available check profile files and their descriptions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			files, err := os.ReadDir(profilePath)
			if err != nil {
				return fmt.Errorf("failed to read profile directory %s: %w", profilePath, err)
			}

			fmt.Println("Available Profiles:")
			fmt.Println("===================")

			count := 0
			for _, file := range files {
				if !strings.HasSuffix(file.Name(), ".yaml") && !strings.HasSuffix(file.Name(), ".yml") {
					continue
				}
				count++

				profileFile := filepath.Join(profilePath, file.Name())
				description := scanner.ReadProfileDescription(profileFile)

				fmt.Printf("\n• %s\n", strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
				fmt.Printf("  File: %s\n", file.Name())
				if description != "" {
					fmt.Printf("  Description: %s\n", description)
				}
			}

			if count == 0 {
				fmt.Printf("No profile files found in %s\n", profilePath)
			}

			return nil
		},
	}

	listProfilesCmd.Flags().StringVar(&profilePath, "config", "./config", "Check profile directory path")

	return listProfilesCmd
}
