package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"
	"github.com/thansetan/holi/config"
	"github.com/thansetan/holi/db"
	"github.com/thansetan/holi/ephemeris"
	"github.com/thansetan/holi/holi"
	"github.com/thansetan/holi/middleware"
	"github.com/thansetan/holi/view"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticDirFS embed.FS

type indexController interface {
	Index(http.ResponseWriter, *http.Request)
	FourOFour(http.ResponseWriter, *http.Request)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     cfg.LogLevel,
	}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var repo holi.Repository
	if cfg.DataSourceName != "" {
		conn, err := db.NewConn(cfg.DataSourceName)
		if err != nil {
			logger.Error("failed to open database", "error", err.Error())
			os.Exit(1)
		}
		defer conn.Close()
		repo = holi.NewRepo(conn)
	}

	tmplFS, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		logger.Error("templates dir doesn't exists!")
		os.Exit(1)
	}
	if cfg.TemplateReload {
		tmplFS = os.DirFS(cfg.TemplateDir)
	}
	tmpl, err := view.New(tmplFS, logger)
	if err != nil {
		logger.Error("failed to parse templates", "error", err.Error())
		os.Exit(1)
	}
	if cfg.TemplateReload {
		go func() {
			if err := tmpl.Watch(ctx, cfg.TemplateDir); err != nil {
				logger.Error("template watcher stopped", "error", err.Error())
			}
		}()
	}

	svc := holi.NewService(holi.NewCalculator(ephemeris.NewMeeus()), repo, cfg.CacheTTL, logger)
	svc.Warm(ctx)
	scheduler, err := svc.ScheduleWarm(cfg.WarmSchedule)
	if err != nil {
		logger.Error("failed to schedule warm-up", "error", err.Error())
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	controller := holi.NewController(svc, tmpl, logger)

	staticFilesFS, err := fs.Sub(staticDirFS, "static")
	if err != nil {
		logger.Error("static dir doesn't exists!")
		os.Exit(1)
	}

	rl := middleware.NewRateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, 5*cfg.RateLimitWindow, middleware.RemoteIP)
	defer rl.Stop()
	r := newRouter(controller, rl, staticFilesFS)

	srv := new(http.Server)
	srv.Handler = middleware.NewLogger(logger).Handle(r)
	srv.Addr = fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	srv.ReadHeaderTimeout = 10 * time.Second

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http error listening", "error", err.Error())
			cancel()
		}
	}()
	logger.Info(fmt.Sprintf("server listening at %s", srv.Addr))
	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		logger.Error("error shutting down server", "error", err.Error())
	}
}

func newRouter(controller indexController, rl *middleware.RateLimit, staticFilesFS fs.FS) *mux.Router {
	r := mux.NewRouter()

	r.NotFoundHandler = http.HandlerFunc(controller.FourOFour)
	r.MethodNotAllowedHandler = http.HandlerFunc(controller.FourOFour)

	r.Path("/").HandlerFunc(rl.Handle(http.HandlerFunc(controller.Index), http.MethodPost)).Methods(http.MethodGet, http.MethodPost)
	r.Path("/healthcheck").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.PathPrefix("/").Handler(http.StripPrefix("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fsHandler := http.FileServer(http.FS(staticFilesFS))
		if _, err := fs.Stat(staticFilesFS, r.URL.Path); err != nil {
			controller.FourOFour(w, r)
			return
		}
		fsHandler.ServeHTTP(w, r)
	}))).Methods(http.MethodGet)

	return r
}
