package controller

import (
	"edutech_backend/internal/service"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// Enroll godoc
// @Summary Enroll in a course
// @Description Creates an empty progress record for the course. Enrolling again is a no-op that returns the existing progress.
// @Tags progress
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "Course ID"
// @Success 200 {object} util.Response{data=model.CourseProgress}
// @Failure 401 {object} util.Response "No active profile"
// @Failure 404 {object} util.Response "Course not found"
// @Failure 503 {object} util.Response "Snapshot write failed"
// @Router /api/courses/{courseId}/enroll [post]
func (c *ProgressController) Enroll(ctx *gin.Context) {
	progress, err := c.ProgressService.Enroll(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetOverview godoc
// @Summary Get derived progress for a course
// @Description Returns per-module unlock states (locked/current/completed/upcoming) and the derived overall percentage.
// @Tags progress
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseOverview}
// @Failure 401 {object} util.Response "No active profile"
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{courseId}/progress [get]
func (c *ProgressController) GetOverview(ctx *gin.Context) {
	overview, err := c.ProgressService.Overview(ctx.Param("courseId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}
