package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"portfolio-tracker/src/api"
	"portfolio-tracker/src/api/controllers"
	"portfolio-tracker/src/api/handlers"
	"portfolio-tracker/src/auth"
	"portfolio-tracker/src/clients/tiingo"
	"portfolio-tracker/src/config"
	"portfolio-tracker/src/repositories"
	"portfolio-tracker/src/utils"
	aws_handler "portfolio-tracker/src/utils/aws"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

type serveCmd struct {
	settings string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the portfolio API server" }
func (*serveCmd) Usage() string {
	return `serve [-settings <dir>]

  Loads appsettings.yaml from the settings directory, PORTFOLIO_* environment
  variables and an optional .env file, then serves the HTTP API until SIGINT or
  SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.settings, "settings", "./settings", "Directory holding appsettings.yaml.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := loadSettings(c.settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, cleanup, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("could not start")
		return subcommands.ExitFailure
	}
	defer cleanup()

	if err := run(ctx, api.NewHTTPServer(server, cfg.Service), cfg.Service, logger); err != nil {
		logger.WithError(err).Error("server stopped with an error")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// loadSettings reads and validates the configuration and builds the process logger.
func loadSettings(dir string) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return nil, nil, err
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: logging.level: %v", utils.ErrConfiguration, err)
	}
	logger := utils.NewLogger(level, cfg.Logging.ToFile, cfg.Logging.FilePath)

	if cfg.ExternalClients.Tiingo.APIKey == "" && cfg.ExternalClients.Tiingo.APIKeySecretID != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: aws session: %v", utils.ErrConfiguration, err)
		}
		if err := config.ResolveSecrets(cfg, awsHandler.SecretManager); err != nil {
			return nil, nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger.WithField("config", config.Redacted(cfg)).Debug("configuration loaded")
	return cfg, logger, nil
}

// newServer wires the verifier, persistence driver and market client into the router.
func newServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*api.Server, func(), error) {
	verifier, preset, err := auth.NewFromConfig(cfg.Auth, auth.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	repo, cleanup, err := repositories.OpenHoldingRepository(ctx, cfg.Persistence, logger)
	if err != nil {
		return nil, nil, err
	}

	market := tiingo.NewClient(cfg.ExternalClients.Tiingo, nil, logger)
	handler := handlers.NewHandler(controllers.NewController(repo, market), preset.EchoClaims)

	logger.WithFields(logrus.Fields{
		"issuer":   cfg.Auth.Issuer,
		"provider": cfg.Auth.Provider,
		"driver":   cfg.Persistence.Driver,
	}).Info("server configured")
	return api.NewServer(handler, verifier, logger, cfg.CORS), cleanup, nil
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, httpServer *http.Server, cfg config.ServiceConfig, logger *logrus.Logger) error {
	errC := make(chan error, 1)
	go func() {
		logger.WithField("addr", httpServer.Addr).Info("starting server")

		// "ListenAndServe always returns a non-nil error. After Shutdown or Close, the returned error is
		// ErrServerClosed."
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errC
}
