package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/agenda-backend/internal/http/response"
	"github.com/yungbote/agenda-backend/internal/platform/apierr"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
	"github.com/yungbote/agenda-backend/internal/services"
)

const MsgScheduleFailed = "Failed to load schedule"

type ScheduleHandler struct {
	log      *logger.Logger
	dialogue services.DialogueService
}

func NewScheduleHandler(log *logger.Logger, dialogue services.DialogueService) *ScheduleHandler {
	return &ScheduleHandler{log: log.With("handler", "ScheduleHandler"), dialogue: dialogue}
}

// GET /schedule
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	sched, err := h.dialogue.CurrentSchedule(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, apierr.New(http.StatusInternalServerError, "schedule_failed", MsgScheduleFailed, err))
		return
	}
	response.RespondOK(c, sched)
}
