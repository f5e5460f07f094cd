package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Pjt727/classboard/board"
	"github.com/Pjt727/classboard/config"
	"github.com/Pjt727/classboard/data"
	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	"github.com/Pjt727/classboard/data/source"
	"github.com/Pjt727/classboard/schedule"
)

// newLogger logs to stdout and keeps the newest lines for the /logs page
func newLogger(cfg *config.Config) (*slog.Logger, *logginghelpers.Ring, error) {
	level, err := logginghelpers.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	ring := logginghelpers.NewRing(cfg.Logging.RingSize)
	handler := logginghelpers.NewMultiHandler(
		logginghelpers.NewHandler(os.Stdout, &logginghelpers.Options{
			AddSource: cfg.Logging.AddSource,
			Level:     level,
			NoColor:   cfg.Logging.NoColor,
		}),
		logginghelpers.NewHandler(ring, &logginghelpers.Options{
			Level: level,
		}),
	)
	return slog.New(handler), ring, nil
}

// newSource opens the configured schedule source, the returned func releases
// whatever the source holds
func newSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (source.Source, func(), error) {
	switch cfg.Source.Kind {
	case config.SourceCSV:
		return source.NewCSVFiles(logger, cfg.Source.Paths...), func() {}, nil
	case config.SourcePostgres:
		pool, err := data.NewPool(ctx, cfg.Source.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to db: %w", err)
		}
		return source.NewPostgres(pool, logger), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
}

func newBoard(cfg *config.Config, src source.Source, clock schedule.Clock, logger *slog.Logger, opts ...board.Option) (*board.Board, error) {
	classifier, err := schedule.NewClassifier(cfg.Classifier)
	if err != nil {
		return nil, err
	}
	opts = append(opts, board.WithLogger(logger))
	return board.New(src, classifier, clock, opts...), nil
}
