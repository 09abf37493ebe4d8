package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const Banner = "AI Server is running"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}
