// Package main is the entry point for the store catalog API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/config"
	"github.com/sngm3741/storecatalog/api/internal/logger"
	"github.com/sngm3741/storecatalog/api/internal/server"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "catalog-api",
		Short: "Store catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, envFile)
		},
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file (ignored when missing)")

	cmd.AddCommand(serveCmd(&envFile))
	cmd.AddCommand(indexesCmd(&envFile))
	return cmd
}

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is read from the environment, after preloading --env-file.
  CATALOG_STORE_DRIVER   mongo or memory (default: mongo)
  MONGO_URI, MONGO_DB    Document store connection
  AUTH_JWT_SECRET        HS256 secret for bearer tokens (required)
  REDIS_ADDRS            Enables the aggregate view cache when set`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *envFile)
		},
	}
}

func indexesCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*envFile)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			backend, err := server.OpenBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer backend.Close(cmd.Context())

			if err := backend.EnsureIndexes(cmd.Context()); err != nil {
				return fmt.Errorf("ensure indexes: %w", err)
			}
			log.Info("インデックスを作成しました", zap.String("db", cfg.MongoDatabase))
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, envFile string) error {
	cfg, log, err := setup(envFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	backend, err := server.OpenBackend(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if err := backend.EnsureIndexes(cmd.Context()); err != nil {
		backend.Close(cmd.Context())
		return fmt.Errorf("ensure indexes: %w", err)
	}

	return server.New(cfg, backend, log).Run(cmd.Context())
}

func setup(envFile string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}
