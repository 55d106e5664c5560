package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"techlogshelf/config"
	"techlogshelf/internal/postgres"
)

// container wires config ahead of the pool, so a configuration error stops
// the graph before any connection attempt.
func container(ctx context.Context, opts config.LoadOptions, logger *logrus.Logger) (c *dig.Container, err error) {
	c = dig.New()

	err = c.Provide(func() logrus.FieldLogger { return logger })
	if err != nil {
		return
	}

	err = c.Provide(func(logger logrus.FieldLogger) (*config.Config, error) {
		return config.Load(opts, logger)
	})
	if err != nil {
		return
	}

	err = c.Provide(func(cfg *config.Config, logger logrus.FieldLogger) (*postgres.Pool, error) {
		return postgres.NewDBPool(ctx, cfg.DatabaseURL, postgres.Options{
			MaxConns:       cfg.Pool.MaxConns,
			ConnectTimeout: cfg.Pool.ConnectTimeout,
		}, logger)
	})
	if err != nil {
		return
	}

	return
}
