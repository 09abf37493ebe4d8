package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/agenda-backend/internal/platform/apierr"
	"github.com/yungbote/agenda-backend/internal/platform/logger"
)

// ErrorEnvelope is the only error body callers ever see.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

func RespondError(c *gin.Context, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, ErrorEnvelope{Error: message})
}

// RespondAPIError logs the full cause and writes only the public message.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.From(err)
	if log != nil {
		fields := []interface{}{"status", ae.Status, "code", ae.Code, "path", c.FullPath()}
		if ae.Err != nil {
			fields = append(fields, "error", ae.Err)
		}
		if ae.Status >= http.StatusInternalServerError {
			log.Error("Request failed", fields...)
		} else {
			log.Warn("Request rejected", fields...)
		}
	}
	c.Set("error_code", ae.Code)
	RespondError(c, ae.Status, ae.Message)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
