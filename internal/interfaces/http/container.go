package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"fastighet/internal/application/notification"
	"fastighet/internal/domain/shared/events"
	"fastighet/internal/infrastructure/auth"
	"fastighet/internal/infrastructure/config"
	"fastighet/internal/infrastructure/database"
	"fastighet/internal/infrastructure/email"
	"fastighet/internal/infrastructure/messaging"
	"fastighet/internal/infrastructure/metrics"
	"fastighet/internal/infrastructure/permission"
	"fastighet/internal/infrastructure/ratelimit"
	"fastighet/internal/infrastructure/scheduler"
	"fastighet/internal/interfaces/http/middleware"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/services/markdown"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and background services of the API server. Shutdown releases
// them in reverse order.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Event transport
	publisher      events.EventPublisher
	closePublisher func()

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	rateLimiter          *middleware.RateLimiter

	jwtSvc   *auth.JWTService
	enforcer *permission.Enforcer

	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires the server. It fails fast when a configured backend
// (Redis, Kafka, the casbin tables) cannot be reached.
func NewContainer(gdb *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:   gin.New(),
		db:       gdb,
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}

	// Section 1: Infrastructure - Redis, metrics, repositories, auth
	if err := c.initInfrastructure(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 2: Events - publisher selected by events.driver
	if err := c.initEvents(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 3: Tickets - use cases and handlers
	c.ucs = newUseCases(c.repos, db.NewTransactionManager(gdb), c.publisher, log)
	c.hdlrs = newHandlers(c.ucs, log)

	// Section 4: Middlewares - casbin gate and rate limiting
	if err := c.initMiddlewares(); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 5: Scheduler - stale ticket escalation
	if err := c.initScheduler(); err != nil {
		c.Shutdown()
		return nil, err
	}

	return c, nil
}

func (c *Container) initInfrastructure() error {
	cfg := c.cfg

	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.metrics = metrics.New(c.registry)

	if cfg.Events.Driver == messaging.DriverRedis || cfg.RateLimit.Enabled {
		client, err := database.OpenRedis(context.Background(), cfg.Redis)
		if err != nil {
			return err
		}
		c.redis = client
		c.log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	}

	c.repos = newRepositories(c.db, c.log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.JWT.AccessExpMinutes)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.repos.userRepo, c.log.Named("auth"))
	return nil
}

func (c *Container) initEvents() error {
	publisher, closeFn, err := messaging.NewTicketEventPublisher(c.cfg.Events, c.cfg.Kafka, c.redis, c.log.Named("events"))
	if err != nil {
		return err
	}
	c.closePublisher = closeFn

	// in-process deployments notify directly from the bus
	if bus, ok := publisher.(*events.InMemoryEventBus); ok {
		notifier := notification.NewTicketNotifier(
			email.NewEmailService(c.cfg.Email, c.log.Named("email")),
			markdown.NewMarkdownService(),
			c.metrics,
			c.log.Named("notifier"),
		)
		if err := bus.Subscribe(events.AllEvents, notifier.AsEventHandler()); err != nil {
			return err
		}
	}

	c.publisher = metrics.NewInstrumentedPublisher(publisher, c.metrics)
	c.log.Infow("ticket event publisher ready", "driver", c.cfg.Events.Driver)
	return nil
}

func (c *Container) initMiddlewares() error {
	enforcer, err := permission.NewEnforcer(c.db, c.log.Named("permission"))
	if err != nil {
		return err
	}
	if err := permission.InitTicketPermissions(enforcer, c.log); err != nil {
		return err
	}
	c.enforcer = enforcer
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, c.log)

	if c.cfg.RateLimit.Enabled {
		c.rateLimiter = middleware.NewRateLimiter(
			ratelimit.NewRedisRateLimiter(c.redis),
			ratelimit.LimitFromConfig(c.cfg.RateLimit),
			c.log.Named("ratelimit"),
		)
	}
	return nil
}

func (c *Container) initScheduler() error {
	if !c.cfg.Escalation.Enabled {
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return err
	}
	job := scheduler.NewEscalationJob(c.ucs.escalateUC, c.cfg.Escalation, c.metrics, c.log.Named("escalation"))
	if err := manager.RegisterEscalationJob(job, c.cfg.Escalation.Interval()); err != nil {
		return err
	}
	c.schedulerManager = manager
	return nil
}

// StartScheduler starts background jobs. It is a no-op when escalation is disabled.
func (c *Container) StartScheduler() {
	if c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops the scheduler and releases the event transport and Redis.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.closePublisher != nil {
		c.closePublisher()
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
