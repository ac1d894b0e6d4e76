package main

import (
	"context"
	"log"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/cache"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/config"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/discovery"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/http"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/logging"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/middleware"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/monitor"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/providers"
	"github.com/Qillen1974/ai-marketing-platform-sub000/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewLogger(logging.LogLevel(cfg.LogLevel))

	// DB connection
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	// Redis connection
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal(err)
	}
	redisClient := redis.NewClient(opt)
	defer redisClient.Close()

	sharedCache := cache.NewCache(redisClient)

	// Storage
	opportunityStorage := storage.NewPostgresOpportunityStorage(pool)
	campaignStorage := storage.NewPostgresCampaignStorage(pool)
	backlinkStorage := storage.NewPostgresBacklinkStorage(pool)
	acquiredStorage := storage.NewPostgresAcquiredStorage(pool)

	// Providers
	search := providers.NewSerpClient(cfg.SearchAPIKey, cfg.SearchAPIBase, cfg.ProviderTimeout)
	authority := providers.NewAuthorityClient(cfg.AuthorityAPIKey, cfg.AuthorityAPIBase, cfg.ProviderTimeout)
	snapshot := providers.NewSnapshotClient(cfg.AuthorityAPIKey, cfg.AuthorityAPIBase, cfg.ProviderTimeout)
	estimator := providers.NewEstimator(authority, sharedCache, logger)

	// Services
	aggregator := discovery.NewAggregator(search, authority, estimator, cfg.RequestDelay, logger)
	discoveryService := discovery.NewService(opportunityStorage, campaignStorage, aggregator, pool, logger)
	monitorService := monitor.NewService(backlinkStorage, acquiredStorage, opportunityStorage, snapshot, sharedCache, cfg.ProviderTimeout, logger)

	// OAuth middleware (disabled when no issuer is configured)
	var oauthMiddleware *middleware.OAuthMiddleware
	if cfg.OIDCIssuer != "" {
		oauthMiddleware, err = middleware.NewOAuthMiddleware(middleware.OAuthConfig{
			IssuerURL: cfg.OIDCIssuer,
			Audience:  cfg.OIDCAudience,
		})
		if err != nil {
			log.Fatal("Failed to create OAuth middleware:", err)
		}
	}

	// Handler
	handler := http.NewHandler(discoveryService, monitorService)

	// Router
	r := chi.NewRouter()
	http.SetupRoutes(r, handler, oauthMiddleware)

	// Server
	log.Println("Starting API server on " + cfg.ListenAddr)
	log.Fatal(stdhttp.ListenAndServe(cfg.ListenAddr, r))
}
