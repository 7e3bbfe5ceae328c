package router

import (
	"time"

	"github.com/Steffany-Martins/botCheckin/internal/config"
	"github.com/Steffany-Martins/botCheckin/internal/handler"
	"github.com/Steffany-Martins/botCheckin/internal/infra"
	"github.com/Steffany-Martins/botCheckin/internal/middleware"
	"github.com/Steffany-Martins/botCheckin/internal/repository"
	"github.com/Steffany-Martins/botCheckin/internal/service"
	"github.com/Steffany-Martins/botCheckin/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// New wires all dependencies and returns the configured Gin engine plus the
// message router, which the caller also hands to the expiry sweep cron.
// Dependency graph: Handler ← RouterService ← Services ← Repositories ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, twilio *infra.TwilioClient) (*gin.Engine, *service.RouterService) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	checkinRepo := repository.NewCheckinRepository(db)
	sessions := repository.NewSessionStore(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)

	authSvc := service.NewAuthService(sessions, cfg)
	registrationSvc := service.NewRegistrationService(userRepo, authSvc, cfg, log.Logger)
	conversationSvc := service.NewConversationService(userRepo, checkinRepo, cfg, log.Logger)
	checkinSvc := service.NewCheckinService(checkinRepo, userRepo, dispatcher, cfg, log.Logger)
	reportSvc := service.NewReportService(checkinRepo, userRepo, cfg, log.Logger)

	routerSvc := service.NewRouterService(
		authSvc, registrationSvc, conversationSvc, checkinSvc, reportSvc, userRepo, log.Logger)

	// ── Routes ───────────────────────────────────────────────────────────────
	webhookH := handler.NewWebhookHandler(routerSvc)

	r.GET("/health", handler.Health(db, rdb, twilio))
	r.POST("/webhook", webhookH.Receive)

	return r, routerSvc
}
