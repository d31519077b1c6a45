// Package httpapi serves the lesson planner over HTTP with gin.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/lessonroom/internal/logger"
)

type RouterConfig struct {
	Auth           *Authenticator
	Workspaces     *Workspaces
	Tools          ToolServer
	AllowedOrigins []string
	RequestTimeout time.Duration
	Log            *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}
	r.Use(RequestTimeout(cfg.RequestTimeout))

	r.GET("/healthcheck", HealthCheck)

	api := r.Group("/api")
	api.Use(cfg.Auth.RequireAuth())

	plans := NewPlanHandler(cfg.Workspaces)
	{
		api.POST("/plan/load", plans.Load)
		api.GET("/plan", plans.State)
		api.PATCH("/plan/fields", plans.SetField)
		api.PUT("/plan/sections", plans.UpdateSections)
		api.POST("/plan/sections/:phase", plans.AddSection)
		api.PATCH("/plan/sections/:phase/:index", plans.UpdateSection)
		api.DELETE("/plan/sections/:phase/:index", plans.RemoveSection)
		api.POST("/plan/save", plans.Save)
		api.POST("/plan/refresh", plans.Refresh)
		api.PUT("/plan/step", plans.SetStep)
		api.POST("/plan/next", plans.Next)
		api.POST("/plan/previous", plans.Previous)
		api.GET("/plan/export", plans.Export)
	}

	chat := NewChatHandler(cfg.Workspaces)
	{
		api.GET("/chat/fields", chat.Transcript)
		api.POST("/chat/fields", chat.Send)
	}

	suggestions := NewSuggestionHandler(cfg.Workspaces)
	{
		api.POST("/suggestions", suggestions.Request)
		api.POST("/suggestions/accept", suggestions.Accept)
		api.POST("/suggestions/discard", suggestions.Discard)
	}

	if cfg.Tools != nil {
		tools := NewToolHandler(cfg.Tools)
		api.GET("/tools", tools.List)
		api.POST("/tools/:server/:tool", tools.Invoke)
	}

	return r
}
