package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"steeldex/internal/application/search"
	"steeldex/internal/config"
	"steeldex/internal/infrastructure/monitoring/logging"
	httpiface "steeldex/internal/interfaces/http"
)

func newServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.open()
			if err != nil {
				return err
			}
			defer app.close()
			return runServer(app, opts)
		},
	}
}

func runServer(app *appContext, opts *RootOptions) error {
	server := httpiface.NewServer(app.cfg.Server, httpiface.RouterDeps{
		Repo:    app.repo,
		Search:  search.NewService(app.repo, app.logger, app.metrics),
		Logger:  app.logger,
		Metrics: app.metrics,
	})

	// Hot-reload the log level on config edits; everything else needs a
	// restart.
	if opts.ConfigPath != "" {
		config.Watch(opts.ConfigPath, func(next *config.Config) {
			app.logger.Info("config changed on disk",
				logging.String("log_level", next.Log.Level))
		})
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		app.logger.Info("signal received", logging.String("signal", sig.String()))
	}

	timeout := app.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return server.Shutdown(ctx)
}
