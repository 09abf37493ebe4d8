package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/agenda-backend/internal/http/response"
	"github.com/yungbote/agenda-backend/internal/platform/apierr"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
	"github.com/yungbote/agenda-backend/internal/services"
)

const MsgHistoryFailed = "Failed to load conversation history"

type HistoryHandler struct {
	log      *logger.Logger
	dialogue services.DialogueService
}

func NewHistoryHandler(log *logger.Logger, dialogue services.DialogueService) *HistoryHandler {
	return &HistoryHandler{log: log.With("handler", "HistoryHandler"), dialogue: dialogue}
}

type turnView struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GET /history
func (h *HistoryHandler) History(c *gin.Context) {
	turns, err := h.dialogue.History(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, h.log, apierr.New(http.StatusInternalServerError, "history_failed", MsgHistoryFailed, err))
		return
	}
	out := make([]turnView, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnView{Role: t.Role, Content: t.Content})
	}
	response.RespondOK(c, out)
}
