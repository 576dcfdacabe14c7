package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vehiclegraph/vehiclegraph"
	"github.com/vehiclegraph/vehiclegraph/infrastructure/api"
	apimiddleware "github.com/vehiclegraph/vehiclegraph/infrastructure/api/middleware"
	"github.com/vehiclegraph/vehiclegraph/internal/config"
	"github.com/vehiclegraph/vehiclegraph/internal/log"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the GraphQL server",
		Long: `Start the GraphQL server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  HOST                  Server host to bind to (default: 0.0.0.0)
  PORT                  Server port to listen on (default: 5000)
  GRAPHQL_PATH          Path of the GraphQL endpoint (default: /graphql)
  GRAPHIQL_ENABLED      Serve GraphiQL on GET without a query (default: true)
  LOG_LEVEL             Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT            Log format: pretty, json (default: pretty)
  DB_URL                Enrichment database (default: in-process memory)
                        sqlite:///path, sqlite:///:memory:, postgres://...
  GENERATION_DELAY      Seconds to generate one field (default: 2.0)
  TOKEN_FORMAT          Generated values: uuid, ulid (default: uuid)
  COALESCE_GENERATION   Share concurrent generations of a field (default: false)
  MAX_PARALLELISM       Field resolvers run at once per request (default: 10)
  METRICS_ENABLED       Expose Prometheus metrics at /metrics (default: true)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 5000)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars.
	cfg = applyServeOverrides(cfg, host, port)

	logger := log.Configure(cfg)

	attrs := append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)
	logger.LogAttrs(context.Background(), slog.LevelInfo, "starting vehiclegraph", attrs...)

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

	apiServer := api.NewAPIServer(client, cfg, version)
	router := apiServer.Router()

	// Middleware must be registered before MountRoutes.
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(logger))

	apiServer.MountRoutes()
	apiServer.OnReady(func(addr net.Addr) {
		logger.Info(readyMessage(cfg, addr))
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		sig, ok := <-sigChan
		if !ok {
			return
		}
		logger.Info("shutting down server", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := apiServer.ListenAndServe(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// readyMessage names the URL a browser can open. Wildcard binds are shown
// as localhost.
func readyMessage(cfg config.AppConfig, addr net.Addr) string {
	port := cfg.Port()
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.Port != 0 {
		port = tcp.Port
	}

	host := cfg.Host()
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	url := fmt.Sprintf("http://%s%s", net.JoinHostPort(host, fmt.Sprint(port)), cfg.GraphQLPath())
	if cfg.GraphiQLEnabled() {
		return "GraphiQL available at " + url
	}
	return "GraphQL available at " + url
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
