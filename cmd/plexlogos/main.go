package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sydlexius/plexlogos/internal/config"
	"github.com/sydlexius/plexlogos/internal/connection/plex"
	"github.com/sydlexius/plexlogos/internal/logging"
	"github.com/sydlexius/plexlogos/internal/pipeline"
	"github.com/sydlexius/plexlogos/internal/provider"
	"github.com/sydlexius/plexlogos/internal/provider/fanarttv"
	"github.com/sydlexius/plexlogos/internal/version"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("plexlogos %s (%s)\n", version.Version, version.Commit)
			return
		case "check":
			if err := check(); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: plexlogos [check|version]\n")
			os.Exit(2)
		}
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	envFile := os.Getenv("PLEXLOGOS_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(os.Getenv("PLEXLOGOS_CONFIG_PATH"), envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config, startedAt time.Time) (*slog.Logger, io.Closer) {
	logCfg := cfg.Logging
	if cfg.Output.LogDir != "" && logCfg.FilePath == "" {
		logCfg.FilePath = filepath.Join(cfg.Output.LogDir, "run_"+startedAt.Format("20060102_150405")+".log")
	}
	logger, closer := logging.New(logCfg)
	slog.SetDefault(logger)
	return logger, closer
}

// connect verifies the Plex server and resolves the configured music section.
// Either failure is fatal to the run.
func connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*plex.Client, *plex.Section, error) {
	client := plex.New(cfg.Plex.URL, cfg.Plex.Token, logger)

	identity, err := client.TestConnection(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to plex: %w", err)
	}
	logger.Info("connected to plex",
		slog.String("url", cfg.Plex.URL),
		slog.String("server_version", identity.Version))

	section, err := client.FindSection(ctx, cfg.Plex.LibraryName)
	if err != nil {
		return nil, nil, fmt.Errorf("finding library: %w", err)
	}
	logger.Info("using library section",
		slog.String("title", section.Title),
		slog.String("key", section.Key))

	return client, section, nil
}

func check() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer := logging.New(cfg.Logging)
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	redacted := cfg.Redacted()
	logger.Info("configuration loaded",
		slog.String("plex_url", redacted.Plex.URL),
		slog.String("plex_token", redacted.Plex.Token),
		slog.String("fanart_api_key", redacted.Fanart.APIKey),
		slog.String("library", redacted.Plex.LibraryName),
		slog.String("image_format", redacted.Image.Format))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, _, err = connect(ctx, cfg, logger)
	return err
}

func run() error {
	startedAt := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closer := setupLogger(cfg, startedAt)
	if closer != nil {
		defer closer.Close() //nolint:errcheck
	}

	logger.Info("starting plexlogos",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, section, err := connect(ctx, cfg, logger)
	if err != nil {
		return err
	}

	limiter := provider.NewRateLimiterMap()
	catalog := fanarttv.NewWithBaseURL(cfg.Fanart.APIKey, limiter, logger, cfg.Fanart.BaseURL)

	runner := pipeline.NewRunner(client, catalog, client, pipeline.OptionsFromConfig(cfg, section.Key), logger)
	_, err = runner.Run(ctx)
	return err
}
