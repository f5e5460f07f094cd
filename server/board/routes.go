package serverboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Pjt727/classboard/board"
	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	"github.com/Pjt727/classboard/schedule"
)

type BoardQueriesParam int

const (
	ReferenceKey BoardQueriesParam = iota
)

type Options struct {
	Title    string
	Location *time.Location
	Logs     *logginghelpers.Ring
}

func PopulateBoardRoutes(r *chi.Router, b *board.Board, refresher *board.Refresher, opts Options, logger *slog.Logger) {
	h := boardHandler{
		board:     b,
		refresher: refresher,
		title:     opts.Title,
		location:  opts.Location,
		logs:      opts.Logs,
		logger:    logger,
	}
	if h.location == nil {
		h.location = time.UTC
	}

	(*r).With(h.populateReference).Get("/", h.dashboard)
	(*r).Get("/logs", h.recentLogs)
	(*r).Get("/ws", h.feed)
	(*r).Route("/api", func(r chi.Router) {
		r.With(h.populateReference).Get("/today", h.today)
		r.Get("/entries", h.entries)
	})
}

// populateReference puts the instant to classify against in the context,
// "at" may be an RFC3339 timestamp or an HH:MM time on today's date
func (h *boardHandler) populateReference(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := h.board.Now().In(h.location)
		reference := now
		if at := r.URL.Query().Get("at"); at != "" {
			parsed, err := parseReference(at, now)
			if err != nil {
				http.Error(w, fmt.Sprintf("Invalid at param: %s", at), http.StatusBadRequest)
				return
			}
			reference = parsed
		}
		ctx = context.WithValue(ctx, ReferenceKey, reference)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseReference(at string, now time.Time) (time.Time, error) {
	if strings.Contains(at, "T") {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(now.Location()), nil
	}
	tod, err := schedule.ParseTimeOfDay(at)
	if err != nil {
		return time.Time{}, err
	}
	return tod.On(now), nil
}
