package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"patentdesk/internal/bulletin"
	bulletinAdapters "patentdesk/internal/bulletin/adapters"
	bulletinHandler "patentdesk/internal/bulletin/handler"
	bulletinMetrics "patentdesk/internal/bulletin/metrics"
	"patentdesk/internal/chatlog"
	chatlogHandler "patentdesk/internal/chatlog/handler"
	contractAdapters "patentdesk/internal/contract/adapters"
	contractHandler "patentdesk/internal/contract/handler"
	"patentdesk/internal/contract/publisher"
	"patentdesk/internal/contract/render"
	contractService "patentdesk/internal/contract/service"
	contractStore "patentdesk/internal/contract/store"
	firmHandler "patentdesk/internal/firm/handler"
	firmService "patentdesk/internal/firm/service"
	firmStore "patentdesk/internal/firm/store"
	"patentdesk/internal/platform/config"
	"patentdesk/internal/platform/metrics"
	"patentdesk/internal/platform/middleware"
	rlMiddleware "patentdesk/internal/ratelimit/middleware"
	rlModels "patentdesk/internal/ratelimit/models"
	rlStore "patentdesk/internal/ratelimit/store"
	"patentdesk/internal/table"
	"patentdesk/pkg/platform/httputil"
	"patentdesk/pkg/platform/middleware/admin"
	"patentdesk/pkg/platform/middleware/metadata"
	"patentdesk/pkg/platform/middleware/requesttime"
	"patentdesk/pkg/secrets"
)

const searchRoute = "bulletin_search"

type app struct {
	router http.Handler
}

func buildApp(cfg config.Config, in *infra, tp trace.TracerProvider, log *slog.Logger) (*app, error) {
	m := metrics.New()

	contractRepo := contractStoreFor(in)
	firms := firmService.New(firmStoreFor(in),
		firmService.WithContractCounter(contractRepo),
		firmService.WithLogger(log),
		firmService.WithMetrics(m),
	)

	aggregator := bulletin.NewAggregator(tableClientFor(in), bulletinConfig(cfg.Bulletin),
		bulletin.WithLogger(log),
		bulletin.WithMetrics(bulletinMetrics.New()),
		bulletin.WithTracer(tp.Tracer("patentdesk/bulletin")),
	)
	bulletinSvc := bulletin.NewService(aggregator, bulletinAdapters.NewFirmAdapter(firms),
		bulletin.WithServiceLogger(log))

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	contracts, err := contractService.New(contractRepo, contractAdapters.NewFirmAdapter(firms),
		publisherFor(cfg, in), renderer,
		contractService.WithLogger(log),
		contractService.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("contract service: %w", err)
	}

	chats := chatlog.NewService(chatStoreFor(in), log)

	verifier, err := adminVerifier(cfg.Server, log)
	if err != nil {
		return nil, err
	}
	limiter := rateLimiterFor(cfg.RateLimit, in, log, m)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"backends": in.Health(r.Context()),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin.RequireAdminToken(verifier, log))
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
		r.Use(middleware.ContentTypeJSON)

		bulletinHandler.New(bulletinSvc, log,
			bulletinHandler.WithSearchMiddleware(limiter.RateLimit(searchRoute)),
		).Register(r)
		firmHandler.New(firms, log).Register(r)
		contractHandler.New(contracts, log).Register(r)
		chatlogHandler.New(chats, log).Register(r)
	})

	return &app{router: r}, nil
}

func bulletinConfig(c config.BulletinConfig) bulletin.Config {
	cfg := bulletin.DefaultConfig()
	cfg.Scan = bulletin.ScanLimits{PageSize: c.ScanPageSize, MaxPages: c.ScanMaxPages}
	cfg.Search = bulletin.SearchLimits{PageSize: c.SearchPageSize, SafetyLimit: c.SearchSafetyLimit}
	return cfg
}

func tableClientFor(in *infra) table.Client {
	if in.db != nil {
		return table.NewSQLClient(in.db, table.DialectPostgres)
	}
	return table.NewMemory()
}

func firmStoreFor(in *infra) firmService.FirmStore {
	if in.db != nil {
		return firmStore.NewPostgres(in.db)
	}
	return firmStore.NewInMemory()
}

type contractRecords interface {
	contractService.ContractStore
	firmService.ContractCounter
}

func contractStoreFor(in *infra) contractRecords {
	if in.db != nil {
		return contractStore.NewPostgres(in.db)
	}
	return contractStore.NewInMemory()
}

func chatStoreFor(in *infra) chatlog.Store {
	if in.db != nil {
		return chatlog.NewPostgresStore(in.db)
	}
	return chatlog.NewInMemoryStore()
}

func publisherFor(cfg config.Config, in *infra) contractService.Publisher {
	if in.kafka != nil {
		return publisher.NewKafka(in.kafka, cfg.Kafka.EmailTopic)
	}
	return publisher.NewInMemory()
}

func rateLimiterFor(cfg config.RateLimitConfig, in *infra, log *slog.Logger, m *metrics.Metrics) *rlMiddleware.Middleware {
	limit := rlModels.Limit{Requests: cfg.SearchLimit, Window: cfg.SearchWindow}
	memory := rlStore.NewInMemory()
	if in.redis != nil {
		return rlMiddleware.New(rlStore.NewRedis(in.redis.Client), limit, log,
			rlMiddleware.WithFallback(memory),
			rlMiddleware.WithMetrics(m),
			rlMiddleware.WithDisabled(cfg.Disabled),
		)
	}
	return rlMiddleware.New(memory, limit, log,
		rlMiddleware.WithMetrics(m),
		rlMiddleware.WithDisabled(cfg.Disabled),
	)
}

// adminVerifier uses the configured bcrypt hash. Without one a token is
// generated for this process and logged once.
func adminVerifier(cfg config.Server, log *slog.Logger) (*admin.Verifier, error) {
	if cfg.AdminTokenHash != "" {
		return admin.NewVerifier(cfg.AdminTokenHash), nil
	}
	token, err := secrets.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate admin token: %w", err)
	}
	hash, err := secrets.Hash(token)
	if err != nil {
		return nil, fmt.Errorf("hash admin token: %w", err)
	}
	log.Warn("ADMIN_TOKEN_HASH not set, generated an ephemeral admin token", "admin_token", token)
	return admin.NewVerifier(hash), nil
}
