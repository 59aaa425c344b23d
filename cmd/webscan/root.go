package main

import (
	"context"

	"github.com/spf13/cobra"

	"webscan/cmd/webscan/scan"
	"webscan/cmd/webscan/server"
)

func Execute() error {
	var rootCmd = &cobra.Command{
		Use:   "webscan",
		Short: "A web application vulnerability scan pipeline",
		Long:  `Webscan runs web application vulnerability scans and turns the results into severity-ranked summaries and exportable reports`,
	}

	rootCmd.AddCommand(scan.NewScanCommand())
	rootCmd.AddCommand(scan.NewHistoryCommand())
	rootCmd.AddCommand(scan.NewReportCommand())
	rootCmd.AddCommand(scan.NewListProfilesCommand())
	rootCmd.AddCommand(server.NewServerCommand())
	return rootCmd.ExecuteContext(context.Background())
}
