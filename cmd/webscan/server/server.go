package server

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"webscan/api/routes"
	"webscan/internal/config"
	"webscan/internal/dao"
	"webscan/internal/database"
	"webscan/internal/notification"
	"webscan/internal/services"
	"webscan/pkg/engine"
	"webscan/pkg/hooks"
	"webscan/pkg/logger"
	"webscan/pkg/scanner"
)

type ServerOpts struct {
	Port    int
	Ip      string
	Verbose bool
}

func NewServerCommand() *cobra.Command {
	ServerConfig := &ServerOpts{}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Start the Webscan server",
		Long:  `Start the Webscan server to launch and track scans via the HTTP API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			logLevel := logrus.InfoLevel
			if ServerConfig.Verbose {
				logLevel = logrus.DebugLevel
			}
			srvLogger := logger.NewLogger(logLevel)

			cfg := config.LoadConfig()
			database.InitDB(cfg)

			profile := scanner.LoadProfileByName(cfg.ProfilePath, cfg.ProfileName)
			backend := scanner.NewSimulator(
				scanner.WithProfile(profile),
				scanner.WithSimLogger(srvLogger))

			// Hot-reload the check profile while the server runs.
			watchCtx, cancelWatch := context.WithCancel(context.Background())
			defer cancelWatch()
			go scanner.WatchProfile(watchCtx, backend, cfg.ProfilePath, cfg.ProfileName)

			opts := []engine.OptFunc{
				engine.WithLogger(srvLogger),
				engine.WithMaxConcurrent(cfg.MaxConcurrentScans),
				engine.WithHook(services.NewArchiveHook(dao.NewScanDAO(database.DB))),
			}
			if token := os.Getenv("DISCORD_TOKEN"); token != "" {
				discordClient, err := notification.NewNotificationClient()
				if err != nil {
					srvLogger.WithError(err).Warn("Failed to initialize Discord client")
				} else {
					defer discordClient.Close()
					opts = append(opts, engine.WithHook(hooks.NewNotifierHook(discordClient)))
					srvLogger.Info("Discord notifications enabled")
				}
			}
			orchestrator := engine.NewOrchestrator(backend, opts...)

			router := routes.InitRouter(database.DB, orchestrator, cfg.ProfilePath)
			return router.Run(fmt.Sprintf(":%d", ServerConfig.Port))
		},
	}

	serverCmd.Flags().IntVarP(&ServerConfig.Port, "port", "p", 8080, "Port to run the server on")
	serverCmd.Flags().StringVarP(&ServerConfig.Ip, "ip", "i", "localhost", "IP address to bind the server to")
	serverCmd.Flags().BoolVarP(&ServerConfig.Verbose, "verbose", "v", false, "Enable verbose logging")

	return serverCmd
}
