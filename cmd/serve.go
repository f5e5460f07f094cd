/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Pjt727/classboard/board"
	"github.com/Pjt727/classboard/config"
	"github.com/Pjt727/classboard/metrics"
	"github.com/Pjt727/classboard/schedule"
	"github.com/Pjt727/classboard/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the dashboard service",
	Long: `Runs the dashboard service: the html board, the json api, the websocket
feed and the metrics endpoint. The schedule is reread on every refresh`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Address = addr
		}
		logger, ring, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		src, closeSource, err := newSource(ctx, cfg, logger)
		if err != nil {
			logger.Error("Could not open schedule source", "err", err)
			return err
		}
		defer closeSource()

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder, err := metrics.NewRecorder(registry)
		if err != nil {
			return err
		}

		b, err := newBoard(cfg, src, schedule.RealClock{Location: cfg.Location()}, logger, board.WithRecorder(recorder))
		if err != nil {
			return err
		}
		refresher := board.NewRefresher(b, cfg.RefreshInterval)

		logger.Info("starting classboard",
			"source", src.Name(),
			"timezone", cfg.Timezone,
			"refresh", cfg.RefreshInterval,
			"show_ended", cfg.Classifier.ShowEnded,
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return refresher.Run(gctx)
		})
		g.Go(func() error {
			return server.Serve(gctx, server.Deps{
				Config:    cfg,
				Board:     b,
				Refresher: refresher,
				Gatherer:  registry,
				Logs:      ring,
				Logger:    logger,
			})
		})
		if err := g.Wait(); err != nil {
			logger.Error("classboard stopped", "err", err)
			return err
		}
		logger.Info("classboard stopped")
		return nil
	},
}

func init() {
	appCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address, overrides server.address")
}
