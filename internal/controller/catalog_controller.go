package controller

import (
	"strconv"

	"edutech_backend/internal/catalog"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Catalog *catalog.Catalog
}

func NewCatalogController(cat *catalog.Catalog) *CatalogController {
	return &CatalogController{Catalog: cat}
}

// CourseSummary is the list-view projection of a course.
type CourseSummary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Icon             string `json:"icon"`
	Color            string `json:"color"`
	EstimatedHours   int    `json:"estimatedHours"`
	ModuleCount      int    `json:"moduleCount"`
}

// ListCourses godoc
// @Summary List the course catalog
// @Tags catalog
// @Produce  json
// @Success 200 {object} util.Response{data=[]CourseSummary}
// @Router /api/courses [get]
func (c *CatalogController) ListCourses(ctx *gin.Context) {
	courses := c.Catalog.Courses()
	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		summaries = append(summaries, CourseSummary{
			ID:               course.ID,
			Title:            course.Title,
			ShortDescription: course.ShortDescription,
			Icon:             course.Icon,
			Color:            course.Color,
			EstimatedHours:   course.EstimatedHours,
			ModuleCount:      len(course.Modules),
		})
	}
	util.Success(ctx, summaries)
}

// GetCourse godoc
// @Summary Get one course with its modules and quizzes
// @Tags catalog
// @Produce  json
// @Param   courseId path string true "Course ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response "Course not found"
// @Router /api/courses/{courseId} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	course, err := c.Catalog.GetCourse(ctx.Param("courseId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// GetModule godoc
// @Summary Get one module by ID or by its position in the course
// @Tags catalog
// @Produce  json
// @Param   courseId path string true "Course ID"
// @Param   moduleId path string true "Module ID, or a zero-based index"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response "Course or module not found"
// @Router /api/courses/{courseId}/modules/{moduleId} [get]
func (c *CatalogController) GetModule(ctx *gin.Context) {
	courseID := ctx.Param("courseId")
	ref := ctx.Param("moduleId")

	// Module IDs never look like bare integers, so a numeric ref is an index.
	if index, err := strconv.Atoi(ref); err == nil {
		module, err := c.Catalog.GetModule(courseID, index)
		if err != nil {
			util.FailFromError(ctx, err)
			return
		}
		util.Success(ctx, module)
		return
	}

	_, module, err := c.Catalog.FindModule(courseID, ref)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, module)
}
