package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"unihub/internal/auth"
	"unihub/internal/geo"
	"unihub/internal/httpmw"
	"unihub/internal/isced"
	"unihub/internal/logbuf"
	"unihub/internal/logtail"
	"unihub/internal/metrics"
	"unihub/internal/programs"
	"unihub/internal/universities"
	"unihub/pkg/cache"
	"unihub/pkg/logger"
)

type deps struct {
	DB      *sqlx.DB
	Cache   *cache.Cache
	Logs    *logbuf.Buffer
	Hub     *logtail.Hub
	Tokens  auth.TokenService
	Limiter *httpmw.RateLimiter
}

func newRouter(d deps) *gin.Engine {
	router := gin.New()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(
		httpmw.RequestID(),
		logger.GinLogger(),
		logger.GinRecovery(true),
		metrics.GinMiddleware(),
	)
	if d.Limiter != nil {
		router.Use(d.Limiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := d.Hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
			"logs":        d.Logs.Len(),
		}
		if err := d.DB.PingContext(ctx); err != nil {
			body["status"] = "not_ready"
			body["db_error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		body["db"] = "ok"
		if d.Cache != nil {
			body["cache"] = "ok"
			if err := d.Cache.Ping(ctx); err != nil {
				// the catalog still serves from the store
				body["cache"] = err.Error()
			}
		}
		c.JSON(http.StatusOK, body)
	})

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/ws/logs", logtail.WSHandler(d.Hub))

	programRepo := programs.NewRepo(d.DB)
	programSvc := programs.NewService(programRepo, programRepo, d.Logs)
	programs.NewHandler(programSvc).RegisterRoutes(router.Group("/programs"))

	isced.NewHandler(isced.NewRepo(d.DB, d.Cache)).RegisterRoutes(router.Group("/isced"))
	geo.NewHandler(geo.NewRepo(d.DB, d.Cache)).RegisterRoutes(router.Group("/countries"))
	universities.NewHandler(universities.NewRepo(d.DB), d.Logs).RegisterRoutes(router.Group("/universities"))

	authRepo := auth.NewRepo(d.DB)
	auth.NewHandler(authRepo, d.Tokens).RegisterRoutes(router.Group("/auth"))

	logbuf.NewHandler(d.Logs).RegisterRoutes(router.Group("/logs"),
		auth.AuthMiddleware(d.Tokens, authRepo),
		auth.RequireRole(auth.RoleAdmin),
	)

	return router
}
