// Command letterpress serves the letter rendering API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/letterpress/internal/config"
	"github.com/dmitrymomot/letterpress/internal/server"
	"github.com/dmitrymomot/letterpress/pkg/assets"
	"github.com/dmitrymomot/letterpress/pkg/db"
	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/health"
	"github.com/dmitrymomot/letterpress/pkg/letter"
	"github.com/dmitrymomot/letterpress/pkg/letterstore"
	"github.com/dmitrymomot/letterpress/pkg/localize"
	"github.com/dmitrymomot/letterpress/pkg/logger"
	"github.com/dmitrymomot/letterpress/pkg/metrics"
	"github.com/dmitrymomot/letterpress/pkg/notify"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
	"github.com/dmitrymomot/letterpress/pkg/pdf/vector"
	"github.com/dmitrymomot/letterpress/pkg/queue"
	"github.com/dmitrymomot/letterpress/pkg/render"
	"github.com/dmitrymomot/letterpress/pkg/sender/email"
	"github.com/dmitrymomot/letterpress/pkg/storage"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, os.Stdout,
		logger.ContextIDExtractor(),
		logger.ReferenceExtractor(),
	)
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundle := assets.Bundle()
	if cfg.BundleDir != "" {
		bundle = os.DirFS(cfg.BundleDir)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	checker := health.NewChecker(health.WithLogger(log))

	registry, builder, err := newBuilder(bundle, cfg.TimeZone)
	if err != nil {
		return err
	}
	converter, err := pdf.NewConverter(bundle, cfg.PDF, pdf.WithHandler(vector.New(bundle)))
	if err != nil {
		return err
	}

	var (
		pool  *pgxpool.Pool
		store dispatch.Store
	)
	if cfg.DB.Enabled() {
		pool, err = db.Connect(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := db.Migrate(ctx, pool, letterstore.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
				return err
			}
		}
		checker.Add("postgres", db.Healthcheck(pool))
		store = letterstore.NewPostgres(pool)
	} else {
		log.Warn("DATABASE_CONN_URL is not set, letter records are kept in memory")
		store = letterstore.NewMemory()
	}

	sender, err := newSender(cfg, log)
	if err != nil {
		return err
	}

	opts := []dispatch.Option{
		dispatch.WithLogger(log),
		dispatch.WithRecorder(m),
	}
	if cfg.Storage.Enabled() {
		archive, err := storage.New(cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, dispatch.WithArchiver(archive))
	}

	dispatcher, err := dispatch.New(builder, render.New(bundle), converter, store, sender, opts...)
	if err != nil {
		return err
	}

	serverOpts := []server.Option{
		server.WithLogger(log),
		server.WithChecker(checker),
		server.WithMetrics(metrics.Handler(reg)),
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Queue.Enabled {
		q, err := queue.New(pool, dispatcher, queue.WithConfig(cfg.Queue), queue.WithLogger(log))
		if err != nil {
			return err
		}
		if cfg.DB.AutoMigrate {
			if err := q.Migrate(ctx); err != nil {
				return err
			}
		}
		if err := q.Start(ctx); err != nil {
			return err
		}
		checker.Add("queue", queue.Healthcheck(q))
		serverOpts = append(serverOpts, server.WithEnqueuer(q))

		g.Go(func() error {
			<-ctx.Done()
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return q.Stop(stopCtx)
		})
	}

	srv, err := server.New(cfg.HTTP, dispatcher, registry, serverOpts...)
	if err != nil {
		return err
	}
	g.Go(func() error { return srv.Run(ctx) })

	log.Info("letterpress started",
		slog.String("sender", cfg.SenderKind),
		slog.Int("templates", len(registry.Keys())),
		slog.Bool("archive", cfg.Storage.Enabled()),
		slog.Bool("queue", cfg.Queue.Enabled),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("letterpress stopped")
	return nil
}

func newBuilder(bundle fs.FS, tz string) (*template.Registry, *letter.Builder, error) {
	registry, err := template.LoadRegistry(bundle, assets.RegistryFile)
	if err != nil {
		return nil, nil, err
	}
	dict, err := localize.LoadDictionary(bundle, assets.DictionaryFile)
	if err != nil {
		return nil, nil, err
	}
	translator, err := localize.New(localize.WithDictionary(dict))
	if err != nil {
		return nil, nil, err
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, nil, fmt.Errorf("loading time zone %q: %w", tz, err)
	}
	builder, err := letter.NewBuilder(registry,
		letter.WithTranslator(translator),
		letter.WithTimeZone(loc),
	)
	if err != nil {
		return nil, nil, err
	}
	return registry, builder, nil
}

func newSender(cfg config.Config, log *slog.Logger) (dispatch.Sender, error) {
	switch cfg.SenderKind {
	case config.SenderEmail:
		return email.New(cfg.Email)
	default:
		return notify.New(cfg.Notify, notify.WithLogger(log))
	}
}
