package http

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/campusfest/festreg/internal/cache"
	"github.com/campusfest/festreg/internal/config"
	"github.com/campusfest/festreg/internal/http/handlers"
	"github.com/campusfest/festreg/internal/http/middlewares"
	"github.com/campusfest/festreg/internal/observability"
	"github.com/campusfest/festreg/internal/repo/postgres"
	"github.com/campusfest/festreg/internal/upload"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// request bodies are capped with headroom over the 5MB photo limit
const maxRequestBody = 8 << 20

func NewRouter(log *slog.Logger, cfg config.Config, pool *pgxpool.Pool, c *cache.Cache) *gin.Engine {
	if os.Getenv("APP_ENV") != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	promReg := prometheus.NewRegistry()
	prom := observability.NewProm(promReg)

	// middleware
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(otelgin.Middleware("festreg"))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(prom.GinHandleMiddleware())

	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	// wire up repositories and handlers
	registrationsRepo := postgres.NewRegistrationsRepo(pool, prom)
	uploadStore := upload.NewStore(cfg.UploadDir)

	health := handlers.NewHealthHandler(ping)
	registrationHandler := handlers.NewRegistrationHandler(registrationsRepo, uploadStore, c, prom)
	adminHandler := handlers.NewAdminHandler(registrationsRepo, c)

	r.GET("/api/health", health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))

	r.POST("/api/register", registrationHandler.Register)

	admin := r.Group("/api/admin", middlewares.AdminAuth(cfg.AdminSecret))
	admin.GET("/registrations", adminHandler.ListRegistrations)
	admin.PUT("/attendance/:id", adminHandler.SetAttendance)
	admin.PUT("/payment/:id", adminHandler.SetPayment)
	admin.GET("/events", adminHandler.ListEvents)

	// stored id photos, read-only
	r.Static("/uploads", cfg.UploadDir)

	return r
}
