package serverboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Pjt727/classboard/board"
	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	"github.com/Pjt727/classboard/schedule"
	"github.com/Pjt727/classboard/server/components"
)

type boardHandler struct {
	board     *board.Board
	refresher *board.Refresher
	title     string
	location  *time.Location
	logs      *logginghelpers.Ring
	logger    *slog.Logger
}

func (h *boardHandler) snapshot(r *http.Request) board.Snapshot {
	ctx := r.Context()
	return h.board.SnapshotAt(ctx, ctx.Value(ReferenceKey).(time.Time))
}

func (h *boardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(r)
	refresh := int(h.refresher.Interval().Seconds())
	// a pinned reference would render the same page forever
	if r.URL.Query().Get("at") != "" {
		refresh = 0
	}
	page := components.Page(h.title, refresh, components.Dashboard(components.DashboardView{
		Title:    h.title,
		Snapshot: snap,
	}))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("Could not render dashboard", "err", err)
	}
}

func (h *boardHandler) today(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.snapshot(r))
}

type entriesResponse struct {
	Entries []schedule.Entry `json:"entries"`
	Errors  []string         `json:"errors"`
}

func (h *boardHandler) entries(w http.ResponseWriter, r *http.Request) {
	entries, rowErrs, err := h.board.Entries(r.Context())
	if err != nil {
		h.logger.Error("Could not load entries", "err", err)
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	response := entriesResponse{
		Entries: entries,
		Errors:  make([]string, len(rowErrs)),
	}
	for i, rowErr := range rowErrs {
		response.Errors[i] = rowErr.Error()
	}
	h.writeJSON(w, response)
}

func (h *boardHandler) recentLogs(w http.ResponseWriter, r *http.Request) {
	var lines [][]byte
	if h.logs != nil {
		lines = h.logs.Lines()
	}
	page := components.Page(h.title+" logs", 0, components.Logs(lines))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(r.Context(), w); err != nil {
		h.logger.Error("Could not render logs", "err", err)
	}
}

func (h *boardHandler) writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Could not marshal response", "err", err)
		http.Error(w, http.StatusText(500), 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}
