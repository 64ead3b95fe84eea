package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vdh-servicedesk/backend/internal/config"
	"github.com/vdh-servicedesk/backend/internal/db"
	"github.com/vdh-servicedesk/backend/internal/http/handlers"
	"github.com/vdh-servicedesk/backend/internal/http/middleware"
	"github.com/vdh-servicedesk/backend/internal/report"
	"github.com/vdh-servicedesk/backend/internal/workflow"

	_ "github.com/vdh-servicedesk/backend/docs"
)

func Router(cfg config.Config, store *db.Store, engine *workflow.Engine, reports *report.Runner, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Password", "X-Admin-Name", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Engine:    engine,
		Reports:   reports,
		Validator: validator.New(),
		Logger:    logger,
	}

	r.GET("/healthz", h.Healthz)

	// Unauthenticated submission surface, selected purely by page token.
	public := r.Group("/public")
	{
		public.GET("/forms", h.PublicForms)
		public.POST("/submit", h.PublicSubmit)
	}

	api := r.Group("/api")
	api.Use(middleware.AdminPassword(cfg.AdminPassword))
	{
		api.GET("/tickets", h.TicketsList)
		api.GET("/tickets/:id", h.TicketDetails)
		api.POST("/tickets/:id/resolve", h.TicketResolve)
		api.POST("/tickets/:id/close", h.TicketClose)

		api.GET("/trips", h.TripsList)
		api.POST("/trips/:id/approve", h.TripApprove)
		api.POST("/trips/:id/deny", h.TripDeny)
		api.POST("/trips/:id/complete", h.TripComplete)

		api.GET("/procurement", h.ProcurementList)
		api.POST("/procurement/:id/approve", h.ProcurementApprove)
		api.POST("/procurement/:id/deny", h.ProcurementDeny)

		api.GET("/vehicles", h.VehiclesList)
		api.POST("/vehicles", h.VehicleCreate)
		api.POST("/vehicles/:id/service-reset", h.VehicleServiceReset)

		api.GET("/notifications", h.NotificationsList)
		api.GET("/users", h.UsersList)

		api.POST("/reports/query", h.ReportsQuery)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
