package router

import (
	"github.com/gin-gonic/gin"

	"chameleon.app/honeypot/internal/http/handler"
	"chameleon.app/honeypot/internal/http/middleware"
	"chameleon.app/honeypot/internal/service"
	"chameleon.app/honeypot/internal/store"
)

type Config struct {
	APIKey string
}

func SetupRoutes(router *gin.Engine, honeypot service.HoneypotService, stats service.StatsService, sessions *store.Sessions, cfg Config) {
	statsHandler := handler.NewStatsHandler(stats, sessions)
	router.GET("/health", statsHandler.Health)

	api := router.Group("/api", middleware.RequireAPIKey(cfg.APIKey))
	{
		honeypotHandler := handler.NewHoneypotHandler(honeypot)
		api.POST("/honeypot", honeypotHandler.Engage)

		api.GET("/stats", statsHandler.Stats)

		schemaHandler := handler.NewSchemaHandler()
		api.GET("/report/schema", schemaHandler.ReportSchema)
	}
}
