package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/agenda-backend/internal/http/response"
	"github.com/yungbote/agenda-backend/internal/platform/apierr"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
	"github.com/yungbote/agenda-backend/internal/services"
)

const (
	MsgPromptRequired     = "Prompt is required"
	MsgGenerateFailed     = "Failed to generate content from AI"
	MsgScheduleSaveFailed = "Failed to save schedule changes; your schedule is unchanged."
)

type PromptHandler struct {
	log      *logger.Logger
	dialogue services.DialogueService
}

func NewPromptHandler(log *logger.Logger, dialogue services.DialogueService) *PromptHandler {
	return &PromptHandler{log: log.With("handler", "PromptHandler"), dialogue: dialogue}
}

type promptReq struct {
	Prompt string `json:"prompt"`
}

type promptResp struct {
	Response string `json:"response"`
}

// POST /prompt
func (h *PromptHandler) Prompt(c *gin.Context) {
	var req promptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, h.log, apierr.New(http.StatusBadRequest, "invalid_request", MsgPromptRequired, err))
		return
	}
	res, err := h.dialogue.HandlePrompt(c.Request.Context(), req.Prompt)
	if err != nil {
		response.RespondAPIError(c, h.log, promptError(err))
		return
	}
	response.RespondOK(c, promptResp{Response: res.Response})
}

func promptError(err error) *apierr.Error {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return apierr.New(http.StatusBadRequest, "prompt_required", MsgPromptRequired, err)
	case services.IsScheduleWriteFailure(err):
		return apierr.New(http.StatusInternalServerError, "schedule_save_failed", MsgScheduleSaveFailed, err)
	default:
		var ce *services.CompletionError
		code := "storage_failed"
		if errors.As(err, &ce) {
			code = "completion_failed"
		}
		return apierr.New(http.StatusInternalServerError, code, MsgGenerateFailed, err)
	}
}
