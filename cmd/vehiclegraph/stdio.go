package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vehiclegraph/vehiclegraph"
	"github.com/vehiclegraph/vehiclegraph/internal/log"
	"github.com/vehiclegraph/vehiclegraph/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

This lets AI assistants look up vehicles with the get_vehicle_by_fin tool.
Configuration is loaded from environment variables and .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(envFile)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")

	return cmd
}

func runStdio(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// stdout carries the protocol.
	logger := log.NewWithWriter(os.Stderr, cfg.LogFormat(), cfg.LogLevel())

	logger.Info("starting MCP server", slog.String("version", version))

	opts := append(vehiclegraph.OptionsFromConfig(cfg), vehiclegraph.WithLogger(logger))
	client, err := vehiclegraph.New(opts...)
	if err != nil {
		return fmt.Errorf("create vehiclegraph client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close vehiclegraph client", slog.Any("error", err))
		}
	}()

	return mcp.NewServer(client.Vehicles, version, logger).ServeStdio()
}
