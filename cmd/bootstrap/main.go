package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"

	"go.uber.org/dig"

	"techlogshelf/config"
	"techlogshelf/internal/logging"
	"techlogshelf/internal/postgres"
)

const (
	exitOK       = 0
	exitConnect  = 1
	exitConfig   = 2
	exitInternal = 3
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bootstrap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env-file", config.DefaultEnvFile, "environment file merged before lookup")
	settingsFile := fs.String("config", "", "optional YAML pool settings file")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}

	logger := logging.New(stdout, stderr, *verbose)

	c, err := container(ctx, config.LoadOptions{EnvFile: *envFile, SettingsFile: *settingsFile}, logger)
	if err != nil {
		logger.Errorf("Failed to wire bootstrap: %v", err)
		return exitInternal
	}

	err = c.Invoke(func(pool *postgres.Pool) {
		defer pool.Close()
		logger.WithField("pool_id", pool.ID).Info("Database pool initialized successfully.")
	})
	if err != nil {
		cause := dig.RootCause(err)
		logger.Errorf("Failed to initialize database pool: %v", cause)
		return exitCode(cause)
	}

	return exitOK
}

func exitCode(err error) int {
	var cfgErr *config.Error
	switch {
	case errors.As(err, &cfgErr):
		return exitConfig
	case errors.Is(err, postgres.ErrConnect), errors.Is(err, postgres.ErrEmptyTarget):
		return exitConnect
	default:
		return exitInternal
	}
}
