package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fabric-cost/internal/chat"
	"fabric-cost/internal/config"
	"fabric-cost/internal/metrics"
	"fabric-cost/internal/service/calculation"
	"fabric-cost/internal/service/cloudsync"
	generate_excel "fabric-cost/internal/service/generate-excel"
	generate_pdf "fabric-cost/internal/service/generate-pdf"
	"fabric-cost/internal/service/statistics"
	"fabric-cost/internal/storage/mysql"
	"fabric-cost/internal/storage/sqlite"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type historyStore interface {
	calculation.CalculationStorage
	io.Closer
}

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	store, err := openStore(cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var syncer *cloudsync.Service
	if local, ok := store.(*sqlite.Storage); ok && cfg.Sync.Enabled {
		remote, err := mysql.New(cfg.Remote)
		if err != nil {
			log.Error("failed to open remote storage", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer remote.Close()

		if cfg.Storage.Migrate {
			if err := remote.Migrate(); err != nil {
				// the remote may be unreachable offline; local work goes on
				log.Warn("remote migration failed", slog.String("error", err.Error()))
			}
		}

		syncer = cloudsync.New(log, local, remote, m, cloudsync.Options{
			BatchSize:  cfg.Sync.BatchSize,
			Workers:    cfg.Sync.Workers,
			MaxRetries: cfg.Sync.MaxRetries,
		})
		go syncer.Run(ctx, cfg.Sync.Interval)

		log.Info("sync enabled", slog.Duration("interval", cfg.Sync.Interval))
	}

	calcService := calculation.New(store, cfg.Constants, m)

	deps := dependencies{
		calculations: calcService,
		statistics:   statistics.New(store),
		excel:        generate_excel.NewGenerateService(calcService, m),
		pdf:          generate_pdf.NewGenerateService(calcService, m),
		chat:         chat.New(cfg.Chat.BaseURL, cfg.Chat.APIKey, cfg.Chat.User, cfg.Chat.Timeout, m),
		metrics:      m,
		syncer:       syncer,
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, deps),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.Chat.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("storage", cfg.Storage.Driver))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
		return
	}

	log.Info("server stopped")
}

func openStore(cfg config.Storage) (historyStore, error) {
	switch cfg.Driver {
	case "mysql":
		s, err := mysql.New(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := s.Migrate(); err != nil {
				s.Close()
				return nil, err
			}
		}
		return s, nil
	default:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		if err = h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	// ошибки дублируем в файл
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		slog.Warn("cannot open error log file", slog.String("error", err.Error()))
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
