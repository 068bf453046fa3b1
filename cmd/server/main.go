// The carelink server provisions senior identities, manages the
// caregiver-senior relation graph, and gates health record access.
//
// Backends are selected from the environment: PostgreSQL, Redis, a remote
// account issuer, and Kafka are all optional, with in-memory fallbacks for
// local development.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	healthhandler "carelink/internal/health/handler"
	healthservice "carelink/internal/health/service"
	healthstore "carelink/internal/health/store"
	"carelink/internal/issuer"
	"carelink/internal/permission"
	"carelink/internal/platform/config"
	"carelink/internal/platform/httpserver"
	"carelink/internal/platform/logger"
	"carelink/internal/platform/metrics"
	"carelink/internal/platform/middleware"
	"carelink/internal/platform/postgres"
	platformredis "carelink/internal/platform/redis"
	profilehandler "carelink/internal/profile/handler"
	profileservice "carelink/internal/profile/service"
	profilestore "carelink/internal/profile/store"
	provisionhandler "carelink/internal/provision/handler"
	provisionmetrics "carelink/internal/provision/metrics"
	provisionservice "carelink/internal/provision/service"
	"carelink/internal/provision/store/loginticket"
	relationhandler "carelink/internal/relation/handler"
	relationservice "carelink/internal/relation/service"
	relationstore "carelink/internal/relation/store"
	transporthttp "carelink/internal/transport/http"
	"carelink/pkg/platform/audit"
)

// Store unions: every service declares the slice it needs; the concrete
// memory and postgres stores satisfy all of them.
type profileStore interface {
	provisionservice.ProfileStore
	profileservice.ProfileStore
	permission.ProfileStore
	relationservice.ProfileStore
}

type relationStore interface {
	relationservice.RelationStore
	provisionservice.RelationStore
	permission.RelationStore
	profileservice.RelationStore
}

type recordStore interface {
	healthservice.RecordStore
	provisionservice.HealthRecordStore
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		profiles  profileStore
		relations relationStore
		records   recordStore
	)
	if cfg.PostgresDSN != "" {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		profiles = profilestore.NewPostgres(db)
		relations = relationstore.NewPostgres(db)
		records = healthstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		profiles = profilestore.NewInMemory()
		relations = relationstore.NewInMemory()
		records = healthstore.NewInMemory()
		log.Warn("no postgres dsn configured, using in-memory stores")
	}

	var tickets provisionservice.TicketStore
	var redeemer provisionhandler.TicketRedeemer
	if cfg.RedisAddr != "" {
		client, err := platformredis.NewClient(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer client.Close()
		store := loginticket.NewRedisStore(client)
		tickets, redeemer = store, store
		log.Info("using redis login tickets")
	} else {
		store := loginticket.NewInMemoryStore()
		tickets, redeemer = store, store
		log.Warn("no redis addr configured, using in-memory login tickets")
	}

	var accountIssuer issuer.AccountIssuer
	if cfg.IssuerBaseURL != "" {
		accountIssuer = issuer.NewHTTPClient(cfg.IssuerBaseURL, cfg.IssuerAPIKey, log)
		log.Info("using remote account issuer", "url", cfg.IssuerBaseURL)
	} else {
		accountIssuer = issuer.NewFake()
		log.Warn("no issuer url configured, using local fake issuer")
	}

	var auditor audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic, log)
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = kafka.Close(closeCtx)
		}()
		auditor = kafka
		log.Info("publishing audit events to kafka", "brokers", cfg.KafkaBrokers)
	} else {
		auditor = audit.NewSlogPublisher(log)
	}

	evaluator := permission.NewEvaluator(relations, profiles)

	coordinator := provisionservice.NewCoordinator(profiles, relations, records, accountIssuer, evaluator,
		provisionservice.WithLogger(log),
		provisionservice.WithMetrics(provisionmetrics.New()),
		provisionservice.WithAuditPublisher(auditor),
		provisionservice.WithTicketStore(tickets, cfg.TicketTTL),
	)
	relationSvc := relationservice.NewService(relations, profiles, evaluator,
		relationservice.WithLogger(log),
		relationservice.WithAuditPublisher(auditor),
	)
	gateway := healthservice.NewGateway(records, evaluator,
		healthservice.WithLogger(log),
		healthservice.WithAuditPublisher(auditor),
	)
	profileSvc := profileservice.NewService(profiles, relations, evaluator, log)

	router := transporthttp.NewRouter(transporthttp.Deps{
		Logger:    log,
		Metrics:   metrics.New(),
		Validator: middleware.NewHS256Validator(cfg.JWTSigningKey),
		Provision: provisionhandler.New(coordinator, redeemer, log),
		Profile:   profilehandler.New(profileSvc, log),
		Relation:  relationhandler.New(relationSvc, log),
		Health:    healthhandler.New(gateway, log),
	})

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("carelink server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
