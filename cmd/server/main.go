package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"fraudscreen/internal/audit"
	jwttoken "fraudscreen/internal/jwt_token"
	"fraudscreen/internal/platform/config"
	"fraudscreen/internal/platform/httpserver"
	"fraudscreen/internal/platform/logger"
	httpmetrics "fraudscreen/internal/platform/metrics"
	"fraudscreen/internal/platform/redis"
	"fraudscreen/internal/screening"
	"fraudscreen/internal/screening/cache"
	"fraudscreen/internal/screening/handler"
	screeningmetrics "fraudscreen/internal/screening/metrics"
	"fraudscreen/internal/screening/service"
	"fraudscreen/internal/screening/store"
	httptransport "fraudscreen/internal/transport/http"
)

// main wires dependencies, serves HTTP and shuts down cleanly on SIGINT or
// SIGTERM. Detection logic lives in internal/screening.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	rules := screening.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := screening.LoadRules(cfg.RulesFile)
		if err != nil {
			return err
		}
		rules = loaded
		log.Info("loaded detection rules", "path", cfg.RulesFile)
	}
	engine, err := screening.NewEngine(rules)
	if err != nil {
		return err
	}

	reports, closeReports, err := buildReportStore(ctx, cfg.Postgres, log)
	if err != nil {
		return err
	}
	defer closeReports()

	auditStore, closeAudit, err := buildAuditStore(ctx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditor := audit.NewAsyncPublisher(auditStore, 4096, log)

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(screeningmetrics.New(prometheus.DefaultRegisterer)),
		service.WithMaxRecords(cfg.MaxBatchRecords),
		service.WithAuditPublisher(auditor),
	}
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		opts = append(opts, service.WithCache(cache.NewRedisCache(redisClient, cfg.Redis.ResultTTL)))
		log.Info("outcome cache enabled", "ttl", cfg.Redis.ResultTTL.String())
	}
	svc := service.New(engine, reports, opts...)

	routerCfg := httptransport.RouterConfig{
		Screening:      handler.New(svc, log, cfg.MaxBodyBytes),
		Logger:         log,
		HTTPMetrics:    httpmetrics.New(prometheus.DefaultRegisterer),
		MetricsHandler: promhttp.Handler(),
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: 2 * time.Minute,
	}
	if cfg.AuthSigningKey != "" {
		routerCfg.Auth = jwttoken.NewJWTService(cfg.AuthSigningKey, cfg.AuthIssuer)
		log.Info("auditor authentication enabled", "issuer", cfg.AuthIssuer)
	}
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(routerCfg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := auditor.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("starting fraudscreen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.ShutdownGrace)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildReportStore(ctx context.Context, cfg config.PostgresConfig, log *slog.Logger) (service.ReportStore, func(), error) {
	if cfg.DSN == "" {
		log.Info("report archive: in-memory")
		return store.NewInMemoryStore(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	pg := store.NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("report archive: postgres")
	return pg, func() { _ = db.Close() }, nil
}

func buildAuditStore(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger) (audit.Store, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Info("audit sink: log")
		return audit.NewLogStore(log), func() {}, nil
	}
	ks, err := audit.NewKafkaStore(cfg.Brokers, cfg.AuditTopic)
	if err != nil {
		return nil, nil, err
	}
	if err := ks.EnsureTopic(ctx, cfg.Partitions, cfg.Replication); err != nil {
		_ = ks.Close(ctx)
		return nil, nil, err
	}
	log.Info("audit sink: kafka", "topic", cfg.AuditTopic)
	return ks, func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = ks.Close(flushCtx)
	}, nil
}
