package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/agenda-backend/internal/http/handlers"
	httpMW "github.com/yungbote/agenda-backend/internal/http/middleware"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// ServiceName enables otelgin spans when set.
	ServiceName string

	PromptHandler   *httpH.PromptHandler
	HistoryHandler  *httpH.HistoryHandler
	ScheduleHandler *httpH.ScheduleHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Dialogue
	if cfg.PromptHandler != nil {
		r.POST("/prompt", cfg.PromptHandler.Prompt)
	}
	if cfg.HistoryHandler != nil {
		r.GET("/history", cfg.HistoryHandler.History)
	}

	// Schedule (read-only)
	if cfg.ScheduleHandler != nil {
		r.GET("/schedule", cfg.ScheduleHandler.GetSchedule)
	}

	return r
}
