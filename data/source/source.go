package source

// sources only turn storage into textual rows, parsing and validating the
// rows belongs to the schedule package so every source reports errors the
// same way

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pjt727/classboard/schedule"
)

var ErrSourceUnavailable = errors.New("source unavailable")

type Source interface {
	Name() string
	Rows(ctx context.Context) ([]schedule.Row, error)
}

func unavailable(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, err)
}
