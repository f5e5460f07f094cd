package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pjt727/classboard/board"
	"github.com/Pjt727/classboard/config"
	logginghelpers "github.com/Pjt727/classboard/data/logging-helpers"
	serverboard "github.com/Pjt727/classboard/server/board"
)

//go:embed static
var staticFiles embed.FS

type Deps struct {
	Config    *config.Config
	Board     *board.Board
	Refresher *board.Refresher
	Gatherer  prometheus.Gatherer
	Logs      *logginghelpers.Ring
	Logger    *slog.Logger
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	fileServer(r, "/static", http.FS(static))

	r.Group(func(r chi.Router) {
		if deps.Config.Server.RateLimit > 0 {
			r.Use(serverboard.NewRateLimiter(deps.Config.Server.RateLimit, deps.Config.Server.RateBurst).Middleware)
		}
		serverboard.PopulateBoardRoutes(&r, deps.Board, deps.Refresher, serverboard.Options{
			Title:    deps.Config.Title,
			Location: deps.Config.Location(),
			Logs:     deps.Logs,
		}, deps.Logger)
	})
	return r
}

// Serve blocks until ctx is done and then shuts the server down
func Serve(ctx context.Context, deps Deps) error {
	srv := &http.Server{
		Addr:              deps.Config.Server.Address,
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info("Running server on", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// https://github.com/go-chi/chi/blob/master/_examples/fileserver/main.go
func fileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		handler := http.StripPrefix(pathPrefix, http.FileServer(root))
		handler.ServeHTTP(w, r)
	})
}
