package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/offermatch/internal/config"
	"github.com/amishk599/offermatch/internal/dictionary"
	"github.com/amishk599/offermatch/internal/model"
	"github.com/amishk599/offermatch/internal/ratelimit"
	"github.com/amishk599/offermatch/internal/retry"
	"github.com/amishk599/offermatch/internal/store"
)

const defaultConfigPath = "offermatch.yaml"

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "offermatch",
	Short: "Candidate / job offer matching engine",
	Long: "offermatch extracts skills from job offers, resolves them against a canonical skill repository " +
		"and scores candidates against offers with an explained 0-100 score.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: OFFERMATCH_CONFIG env var or ./offermatch.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > OFFERMATCH_CONFIG env var > "./offermatch.yaml".
// A missing default file falls back to the built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if path == "" {
		if env := os.Getenv("OFFERMATCH_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = defaultConfigPath
		}
	}
	cfg, err := config.Load(path)
	if err != nil && !explicit && errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// setupLogger logs to stderr so that stdout carries only command output.
func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadDictionary(cfg *config.Config) (*dictionary.Dictionary, error) {
	if cfg.Dictionary.Path == "" {
		return dictionary.Default()
	}
	return dictionary.Load(cfg.Dictionary.Path)
}

// skillStore is what the CLI needs from a repository backend.
type skillStore interface {
	model.SkillStore
	IsEmpty(ctx context.Context) (bool, error)
	Close() error
}

// openStore opens the configured repository backend.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (skillStore, error) {
	switch cfg.Repository.Driver {
	case config.DriverMemory:
		logger.Debug("using in-memory skill repository")
		return store.NewMemoryStore(), nil
	case config.DriverPostgres:
		pg, err := store.NewPostgresStore(ctx, cfg.Repository.DSN, cfg.Repository.MaxConns)
		if err != nil {
			return nil, err
		}
		logger.Debug("using postgres skill repository")
		return pg, nil
	case config.DriverSQLite:
		logger.Debug("using sqlite skill repository", "path", cfg.Repository.DSN)
		return store.NewSQLiteStore(cfg.Repository.DSN)
	default:
		return nil, fmt.Errorf("unsupported repository driver %q", cfg.Repository.Driver)
	}
}

// ensureSeeded fills an empty repository from the dictionary so that a fresh
// database resolves skills out of the box.
func ensureSeeded(ctx context.Context, st skillStore, dict *dictionary.Dictionary, logger *slog.Logger) error {
	empty, err := st.IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	n, err := store.Seed(ctx, st, dict.Descriptors())
	if err != nil {
		return err
	}
	logger.Info("repository empty, seeded from dictionary", "skills", n, "dictionary", dict.Version())
	return nil
}

// lookupRepository decorates the store for resolver lookups: every attempt
// waits on the rate limiter, failed attempts are retried with backoff.
func lookupRepository(st model.SkillRepository, cfg *config.Config, logger *slog.Logger) model.SkillRepository {
	var repo model.SkillRepository = st
	if cfg.Resolver.RateLimit > 0 {
		repo = ratelimit.NewLimitedRepository(repo, ratelimit.NewLimiter(cfg.Resolver.RateLimit, cfg.Resolver.Burst))
	}
	if cfg.Resolver.MaxRetries > 0 {
		repo = retry.NewRetryRepository(repo, cfg.Resolver.MaxRetries, cfg.Resolver.BaseDelay, logger)
	}
	return repo
}

// readText returns the contents of path, or stdin when path is "-".
func readText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading description: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
