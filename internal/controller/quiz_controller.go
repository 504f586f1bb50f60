package controller

import (
	"edutech_backend/internal/service"
	"edutech_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// StartAttempt godoc
// @Summary Start a quiz attempt for a module
// @Description The module must be unlocked for the enrolled user. Attempt state lives only in memory until finalized.
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   courseId path string true "Course ID"
// @Param   moduleId path string true "Module ID"
// @Success 201 {object} util.Response{data=service.AttemptView}
// @Failure 401 {object} util.Response "No active profile"
// @Failure 404 {object} util.Response "Course or module not found"
// @Failure 409 {object} util.Response "Not enrolled or module locked"
// @Router /api/courses/{courseId}/modules/{moduleId}/quiz/attempts [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	view, err := c.QuizService.StartAttempt(ctx.Param("courseId"), ctx.Param("moduleId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// SelectAnswerRequest records one answer choice.
// swagger:model SelectAnswerRequest
type SelectAnswerRequest struct {
	QuestionIndex int `json:"questionIndex" binding:"min=0"`
	OptionIndex   int `json:"optionIndex" binding:"min=0"`
}

// SelectAnswer godoc
// @Summary Answer a question
// @Description The first answer for a question is final; answering it again returns the original result unchanged.
// @Tags quiz
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "Attempt ID"
// @Param   body body SelectAnswerRequest true "Answer selection"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "Index out of range"
// @Failure 404 {object} util.Response "Attempt not found"
// @Failure 409 {object} util.Response "Attempt already finalized"
// @Router /api/quiz/attempts/{attemptId}/answer [post]
func (c *QuizController) SelectAnswer(ctx *gin.Context) {
	var req SelectAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SelectAnswer(ctx.Param("attemptId"), req.QuestionIndex, req.OptionIndex)
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Advance godoc
// @Summary Move to the next question
// @Description Requires the current question to be answered. On the last question the attempt is marked complete, ready to finalize.
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "Attempt ID"
// @Success 200 {object} util.Response{data=service.AttemptView}
// @Failure 404 {object} util.Response "Attempt not found"
// @Failure 409 {object} util.Response "Current question unanswered"
// @Router /api/quiz/attempts/{attemptId}/advance [post]
func (c *QuizController) Advance(ctx *gin.Context) {
	view, err := c.QuizService.Advance(ctx.Param("attemptId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Finalize godoc
// @Summary Score the attempt
// @Description Computes the percentage score. A score at or above the passing threshold counts as a pass and feeds the progress engine; a fail discards the attempt so a retry starts from scratch.
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "Attempt ID"
// @Success 200 {object} util.Response{data=service.FinalizeResult}
// @Failure 404 {object} util.Response "Attempt not found"
// @Failure 409 {object} util.Response "Attempt has unanswered questions"
// @Failure 503 {object} util.Response "Snapshot write failed"
// @Router /api/quiz/attempts/{attemptId}/finalize [post]
func (c *QuizController) Finalize(ctx *gin.Context) {
	result, err := c.QuizService.Finalize(ctx.Request.Context(), ctx.Param("attemptId"))
	if err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Abandon godoc
// @Summary Abandon an attempt
// @Description Drops the attempt with no persisted side effect.
// @Tags quiz
// @Produce  json
// @Security ApiKeyAuth
// @Param   attemptId path string true "Attempt ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "Attempt not found"
// @Router /api/quiz/attempts/{attemptId} [delete]
func (c *QuizController) Abandon(ctx *gin.Context) {
	if err := c.QuizService.Abandon(ctx.Param("attemptId")); err != nil {
		util.FailFromError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
