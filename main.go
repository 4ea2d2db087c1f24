package main

import (
	"aidirectory-backend/config"
	"aidirectory-backend/internal/api"
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/githubapi"
	"aidirectory-backend/internal/services"
	"aidirectory-backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title aidirectory-backend API
// @version 1.0
// @description Directory of AI prompts, agents, MCP servers, tools and guides.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	rootCmd := &cobra.Command{
		Use:          "aidirectory-backend",
		Short:        "AI resource directory backend",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration, starts logging and opens the database.
func bootstrap() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close()

			if err := database.ConnectRedis(cfg); err != nil {
				logger.Log.Warn("Redis unavailable, running without cache, token revocation or contributions", zap.Error(err))
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.ContributionsEnabled() {
				services.SetPullRequestOpener(githubapi.NewContentRepo(cfg))
				go services.StartContributionWorker(ctx)
			}

			srv := &http.Server{
				Addr:              cfg.ServerAddr,
				Handler:           api.NewRouter(cfg),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Log.Info("Server starting", zap.String("addr", cfg.ServerAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("failed to run server: %w", err)
				}
			case <-ctx.Done():
			}

			logger.Log.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close()
			logger.Log.Info("Database migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load markdown content files into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()
			defer database.Close()

			var uploader services.ImageUploader
			if cfg.OSSEnabled() {
				uploader = services.NewSTSClientManager(cfg)
			}

			result, err := services.SeedFromDir(dir, uploader)
			if err != nil {
				return err
			}

			fmt.Printf("Created: %d, updated: %d, failed: %d\n", result.Created, result.Updated, len(result.Failed))
			for _, f := range result.Failed {
				fmt.Printf("  %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "content", "directory holding <type>/*.md files")
	return cmd
}
