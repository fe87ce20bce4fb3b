package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tmdb-mcp-server/internal/application"
	"tmdb-mcp-server/internal/domain"
	"tmdb-mcp-server/internal/infrastructure"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	transport  string
	logLevel   string
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options

	cmd := &cobra.Command{
		Use:           "tmdb-mcp-server",
		Short:         "Serve TMDB movie and TV metadata as MCP tools and resources",
		Long:          "tmdb-mcp-server exposes The Movie Database API over the Model Context Protocol.\nThe API key is read from the " + domain.APIKeyEnv + " environment variable.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts, stdin, stdout, stderr)
		},
	}

	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML configuration file")
	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport to serve on (stdio or http)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the configuration and applies command-line overrides
// before validating it.
func loadConfig(opts options) (*domain.Config, error) {
	return domain.LoadConfig(opts.configPath, func(config *domain.Config) {
		if opts.transport != "" {
			config.Transport.Type = opts.transport
		}
		if opts.logLevel != "" {
			config.Logging.Level = opts.logLevel
		}
	})
}

func serve(ctx context.Context, opts options, stdin io.Reader, stdout, stderr io.Writer) error {
	config, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := domain.ParseLogLevel(config.Logging.Level)
	if err != nil {
		return err
	}
	logger := domain.NewStructuredLogger(stderr, level)

	server, err := buildServer(config, stdin, stdout, logger)
	if err != nil {
		return err
	}

	if err := server.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		logger.LogInfo("shutdown requested", nil)
	case <-server.Done():
	}

	if err := server.Close(); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	logger.LogInfo("server shutdown complete", nil)
	return nil
}

// buildServer wires the TMDB client, tool handlers, resources and transport.
func buildServer(config *domain.Config, stdin io.Reader, stdout io.Writer, logger *domain.StructuredLogger) (*application.Server, error) {
	httpClient, err := domain.NewAPIKeyClient(config.TMDB.APIKey, config.TMDB.Timeout)
	if err != nil {
		return nil, err
	}

	client := infrastructure.NewTMDBClient(config.TMDB.BaseURL, httpClient, logger)
	mapper := domain.NewResponseMapper()

	router := application.NewRequestRouter(mapper, logger,
		application.NewMovieHandler(client, config.TMDB.ImageBaseURL),
		application.NewTVHandler(client),
		application.NewPeopleHandler(client),
		application.NewSearchHandler(client),
		application.NewTrendingHandler(client),
		application.NewReferenceHandler(client),
	)
	resources := application.NewResourceHandler(client, config.TMDB.ImageBaseURL)

	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		transport = domain.NewStdioTransportWithIO(stdin, stdout, logger)
	case "http":
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port, logger)
	default:
		return nil, fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	logger.LogInfo("MCP server created", map[string]interface{}{
		"transport_type": config.Transport.Type,
		"base_url":       client.BaseURL(),
	})

	return application.NewServer(transport, router, resources, mapper, logger, config.Transport.Type), nil
}
