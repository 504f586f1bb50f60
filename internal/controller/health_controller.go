package controller

import (
	"time"

	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	startedAt time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{startedAt: time.Now()}
}

// HealthCheck godoc
// @Summary Service health
// @Tags health
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"status": "ok",
		"uptime": time.Since(c.startedAt).String(),
	})
}
