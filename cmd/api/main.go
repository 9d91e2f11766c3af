package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/zhouzirui/tractor-swipe/backend/internal/config"
	"github.com/zhouzirui/tractor-swipe/backend/internal/handler"
	"github.com/zhouzirui/tractor-swipe/backend/internal/logging"
	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/session"
	"github.com/zhouzirui/tractor-swipe/backend/internal/service/swipe"
	"github.com/zhouzirui/tractor-swipe/backend/internal/storage/kv"
)

var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tractor-swipe",
	Short: "Swipe-to-match backend for tractor listings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "warning: failed to load .env file: %v\n", err)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		profiles, err := loadProfiles()
		if err != nil {
			return err
		}

		storage, err := openStorage(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer storage.Close()

		profileStore := profile.NewMemoryStore(profiles)
		sessions := session.NewService(session.Options{
			Profiles: profileStore,
			Storage:  storage,
			Logger:   logger,
		})

		router := handler.NewRouter(profileStore, sessions, logger)
		return startServer(ctx, cfg.Server, router)
	},
}

var profilesFormat string

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Print the profile catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := loadProfiles()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch profilesFormat {
		case "yaml":
			enc := yaml.NewEncoder(out)
			defer enc.Close()
			return enc.Encode(map[string]any{"profiles": profiles})
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(profiles)
		default:
			return fmt.Errorf("unknown format %q", profilesFormat)
		}
	},
}

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Print one shuffled deck, as a new session would see it",
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := loadProfiles()
		if err != nil {
			return err
		}

		deck := swipe.BuildDeck(profiles, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		for i, p := range deck.Profiles() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %-20s %s %s\n", i, p.Name, p.Make, p.Model)
		}
		return nil
	},
}

func init() {
	profilesCmd.Flags().StringVar(&profilesFormat, "format", "yaml", "output format: yaml|json")
	rootCmd.AddCommand(serveCmd, profilesCmd, deckCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadProfiles builds the card catalog from CATALOG_PATH or the built-in seed.
func loadProfiles() ([]profile.Profile, error) {
	base := profile.Seed()
	if cfg.Catalog.Path != "" {
		loaded, err := profile.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		base = loaded
		logger.Info("catalog loaded", zap.String("path", cfg.Catalog.Path), zap.Int("profiles", len(loaded)))
	}
	return profile.Catalog(base, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))), nil
}

func openStorage(ctx context.Context, storageCfg config.StorageConfig) (kv.Store, error) {
	switch storageCfg.Backend {
	case config.BackendRedis:
		store, err := kv.NewRedisStore(ctx, kv.RedisOptions{
			Addr:     storageCfg.RedisAddr,
			Password: storageCfg.RedisPassword,
			DB:       storageCfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("match storage: redis", zap.String("addr", storageCfg.RedisAddr), zap.Int("db", storageCfg.RedisDB))
		return store, nil
	case config.BackendSQLite:
		store, err := kv.NewSQLiteStore(storageCfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("match storage: sqlite", zap.String("path", storageCfg.SQLitePath))
		return store, nil
	default:
		logger.Info("match storage: memory")
		return kv.NewMemoryStore(), nil
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("tractor swipe backend listening", zap.String("addr", serverCfg.Addr))
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
