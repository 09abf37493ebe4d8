package app

import (
	httpH "github.com/yungbote/agenda-backend/internal/http/handlers"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

type Handlers struct {
	Prompt   *httpH.PromptHandler
	History  *httpH.HistoryHandler
	Schedule *httpH.ScheduleHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Prompt:   httpH.NewPromptHandler(log, serviceset.Dialogue),
		History:  httpH.NewHistoryHandler(log, serviceset.Dialogue),
		Schedule: httpH.NewScheduleHandler(log, serviceset.Dialogue),
		Health:   httpH.NewHealthHandler(),
	}
}
