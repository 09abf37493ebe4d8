package app

import (
	"time"

	server "github.com/yungbote/agenda-backend/internal/http"
	"github.com/yungbote/agenda-backend/internal/observability"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers, metrics *observability.Metrics) *server.Server {
	log.Info("Wiring router...")
	rc := server.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		CORSOrigins:     cfg.CORSOrigins,
		PromptHandler:   handlerset.Prompt,
		HistoryHandler:  handlerset.History,
		ScheduleHandler: handlerset.Schedule,
		HealthHandler:   handlerset.Health,
	}
	if cfg.OtelEnabled {
		rc.ServiceName = cfg.OtelServiceName
	}
	return server.NewServer(server.ServerOptions{
		Addr:         cfg.Addr(),
		WriteTimeout: cfg.LLMTimeout + 30*time.Second,
	}, rc)
}
