package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"temperature-consumer/core/broker"
	"temperature-consumer/core/loader"
	"temperature-consumer/core/logger"
	"temperature-consumer/core/metrics"
	"temperature-consumer/core/middleware/auth"
	"temperature-consumer/core/middleware/rayid"
	"temperature-consumer/feature/export"
	"temperature-consumer/feature/temperature"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start consuming temperature readings",
	Long: `Starts the Kafka consumer, the worker pool and the HTTP API.
The service runs until it receives SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		defer p.logger.Sync()
		logg := p.logger

		reader, err := broker.NewReader(p.cfg.Kafka)
		if err != nil {
			return fmt.Errorf("failed to create kafka reader: %w", err)
		}
		consumer := broker.NewConsumer(reader, p.cfg.Kafka.Topic, p.dispatcher.Submit, logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every later log line can be traced.
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public endpoints.
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok", "sensors": p.store.Len()})
		})
		public := loader.NewManager(logg)
		public.Register(metrics.NewFeature(p.metrics))
		if _, err := public.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load public features: %w", err)
		}

		app.Use(auth.New(auth.Config{ApiKey: p.cfg.Server.ApiKey}))

		mgr := loader.NewManager(logg)
		mgr.Register(temperature.NewFeature(p.store, logg))
		if _, err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		var exp *export.Exporter
		if p.cfg.Export.Enabled {
			if exp, err = p.exporter(); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			return consumer.Run(gctx)
		})

		g.Go(func() error {
			logg.Info("Starting server", zap.String("addr", p.cfg.Server.Addr()))
			if err := app.Listen(p.cfg.Server.Addr()); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logg.Info("Shutting down server...")
			return app.ShutdownWithTimeout(p.cfg.Server.ShutdownTimeout)
		})

		if exp != nil {
			g.Go(func() error {
				return exp.Run(gctx, p.cfg.Export.Interval)
			})
		}

		err = g.Wait()

		// The consumer has returned, so nothing submits anymore.
		final, cancel := context.WithTimeout(context.Background(), p.cfg.Server.ShutdownTimeout)
		defer cancel()
		if derr := p.drain(final, exp); derr != nil {
			err = errors.Join(err, derr)
		}
		logg.Info("Stopped", zap.Int("sensors", p.store.Len()))
		return err
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
