// Package cli defines the steeldex command tree: serve, sync, search, and
// catalog inspection.
package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"steeldex/internal/config"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/database/sqlite"
	"steeldex/internal/infrastructure/monitoring/logging"
	prom "steeldex/internal/infrastructure/monitoring/prometheus"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	NoColor    bool
}

// appContext carries the dependencies a subcommand needs, built lazily so
// commands that never touch the catalog (e.g. --help) pay nothing.
type appContext struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *prom.Metrics

	db   *sql.DB
	repo *sqlite.GradeRepository
}

// open loads config, builds the logger, opens the catalog, and migrates.
func (opts *RootOptions) open() (*appContext, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
	})
	if err != nil {
		return nil, err
	}

	var metrics *prom.Metrics
	if cfg.Metrics.Enabled {
		metrics = prom.New(cfg.Metrics.Namespace)
	}

	db, err := sqlite.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Database.MigrateOnStart {
		if err := sqlite.Migrate(db, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &appContext{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		db:      db,
		repo:    sqlite.NewGradeRepository(db, logger),
	}, nil
}

// loadConfig resolves the config source: an explicit path, ./config.yaml
// when present, otherwise environment variables only.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return config.Load("config.yaml")
	}
	return config.LoadFromEnv()
}

func (a *appContext) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

var _ grade.Repository = (*sqlite.GradeRepository)(nil)

// NewRootCommand creates the root command with global flags and all
// subcommands mounted.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "steeldex",
		Short:   "steeldex - metal-alloy grade catalog with identity resolution and similarity search",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./config.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "override log level (debug, info, warn, error)")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newServeCommand(opts),
		newSyncCommand(opts),
		newSearchCommand(opts),
		newGradeCommand(opts),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

func printError(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
}

func printSuccess(format string, args ...interface{}) {
	color.New(color.FgGreen).Printf(format+"\n", args...)
}
