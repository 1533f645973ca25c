package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/auth"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/cache"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/config"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/metrics"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/payment/stripe"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
	shareddb "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases,
// handlers and middleware, wired together once at startup.
type Container struct {
	// Core infrastructure
	engine   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	log      logger.Interface
	redis    *redis.Client
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	txManager *shareddb.TransactionManager
	jwtSvc    *auth.JWTService
	gateway   *stripe.Gateway
	verifier  *stripe.WebhookVerifier
	dataWeeks *cache.DataWeekCache

	entitlements *entitlement.ServiceImpl

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimit      *middleware.RateLimit
	features       *middleware.FeatureMiddleware
}

// NewContainer wires every dependency. Redis is optional: when it is disabled
// or unreachable the data week cache and the rate limiter degrade instead of
// failing startup.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, metrics, repositories, provider
	c.initInfrastructure(ctx)

	// Section 2: Billing and entitlements
	c.initBilling()

	// Section 3: Tier-routed dataset reads
	c.initStats()

	// Section 4: Handlers and middlewares
	c.initHandlers()

	return c
}

func (c *Container) initInfrastructure(ctx context.Context) {
	c.redis = initRedis(ctx, c.cfg, c.log)

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = metrics.New(c.registry)

	c.repos = newRepositories(c.db, c.log)
	c.txManager = shareddb.NewTransactionManager(c.db)

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.AccessExpMinutes)
	c.gateway = stripe.NewGateway(c.cfg.Stripe.SecretKey, c.log)
	c.verifier = stripe.NewWebhookVerifier(c.cfg.Stripe.WebhookSecret)

	c.dataWeeks = cache.NewDataWeekCache(c.redis, c.repos.releaseRepo, c.cfg.Redis.DataWeekTTL(), c.log)
}

// initRedis returns nil when Redis is disabled or unreachable.
func initRedis(ctx context.Context, cfg *config.Config, log logger.Interface) *redis.Client {
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warnw("redis unavailable, continuing without cache and rate limiting", "error", err)
		return nil
	}
	if client == nil {
		log.Infow("redis disabled")
		return nil
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())
	return client
}

func (c *Container) initBilling() {
	c.entitlements = entitlement.NewService(
		c.repos.subscriptionRepo,
		c.repos.purchaseRepo,
		c.repos.planRepo,
		c.log,
	)
	c.ucs = newBillingUseCases(c)
}

func (c *Container) initStats() {
	c.ucs.stats = newStatsUseCases(c)
}

func (c *Container) initHandlers() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.repos.userRepo, c.jwtSvc, c.log)
	c.rateLimit = newRateLimit(c)
	c.features = middleware.NewFeatureMiddleware(c.entitlements, c.log)
	c.hdlrs = newHandlers(c)
}

// Engine returns the gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// DataWeeks exposes the release log so the CLI can record new releases.
func (c *Container) DataWeeks() *cache.DataWeekCache {
	return c.dataWeeks
}

// Shutdown releases the Redis connection. The database is owned by the caller.
func (c *Container) Shutdown() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
