// Command seed loads a YAML fixture of users, stores and reviews into the catalog.
package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sngm3741/storecatalog/api/internal/config"
	"github.com/sngm3741/storecatalog/api/internal/logger"
	"github.com/sngm3741/storecatalog/api/internal/server"
)

//go:embed seed.yaml
var defaultFixture []byte

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		envFile string
		file    string
		drop    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load fixture data into the store catalog",
		Long: `Load fixture data into the store catalog.

Users, stores and reviews are created through the application services, so
slugs are generated the same way the API generates them. Without --file the
bundled sample fixture is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.NewLogger(cfg.Env, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			fx, err := readFixture(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			backend, err := server.OpenBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer backend.Close(ctx)

			if drop {
				if err := backend.Drop(ctx); err != nil {
					return fmt.Errorf("コレクション削除に失敗しました: %w", err)
				}
				log.Info("既存コレクションを削除しました")
			}
			if err := backend.EnsureIndexes(ctx); err != nil {
				return fmt.Errorf("インデックス作成に失敗しました: %w", err)
			}

			result, err := seed(ctx, backend.Services(), fx, log)
			if err != nil {
				return err
			}
			log.Info("Seed 完了",
				zap.Int("users", result.Users),
				zap.Int("stores", result.Stores),
				zap.Int("reviews", result.Reviews),
				zap.String("driver", cfg.Driver),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to .env file (ignored when missing)")
	cmd.Flags().StringVar(&file, "file", "", "YAML fixture to load (default: bundled sample)")
	cmd.Flags().BoolVar(&drop, "drop", false, "Drop existing collections before loading")
	return cmd
}
