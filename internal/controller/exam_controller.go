package controller

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/service"
	"bitbybit_backend/internal/util"
	"bitbybit_backend/pkg/monitoring"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ExamController struct {
	AttemptService *service.AttemptService
	ContentService *service.ContentService
	AccessService  *service.AccessService
}

func NewExamController(attemptService *service.AttemptService, contentService *service.ContentService, accessService *service.AccessService) *ExamController {
	return &ExamController{
		AttemptService: attemptService,
		ContentService: contentService,
		AccessService:  accessService,
	}
}

// GetExam godoc
// @Summary Exam with its questions and options
// @Description Options never include the correct flag.
// @Tags exams
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "exam id"
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 403 {object} util.Response "subscription required"
// @Failure 404 {object} util.Response "exam not found"
// @Router /api/exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	exam, err := c.ContentService.GetExamWithQuestions(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	if !c.authorize(ctx, exam) {
		return
	}

	util.Success(ctx, exam)
}

// StartAttempt godoc
// @Summary Start a timed attempt
// @Tags exams
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "exam id"
// @Success 200 {object} util.Response{data=service.AttemptDescriptor}
// @Failure 404 {object} util.Response "exam not found"
// @Router /api/exams/{id}/start_attempt [post]
func (c *ExamController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	examID := util.MustParseUint(ctx.Param("id"))

	exam, err := c.ContentService.GetExamWithQuestions(examID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	if !c.authorize(ctx, exam) {
		return
	}

	descriptor, err := c.AttemptService.StartAttempt(claims.UserID, examID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, descriptor)
}

// swagger:model SubmitExamRequest
type SubmitExamRequest struct {
	AttemptID uint          `json:"attempt_id" binding:"required"`
	Answers   map[uint]uint `json:"answers"`
}

// SubmitExam godoc
// @Summary Submit an attempt for scoring
// @Description Grades the answers map (question id to option id), persists
// @Description responses and finalizes the attempt. Invalid pairs are skipped
// @Description and reported in the warnings list.
// @Tags exams
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "exam id"
// @Param   body body SubmitExamRequest true "attempt id and answers"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "invalid attempt or already submitted"
// @Router /api/exams/{id}/submit_exam [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	examID := util.MustParseUint(ctx.Param("id"))

	var req SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AttemptService.SubmitExam(claims.UserID, examID, req.AttemptID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidAttempt), errors.Is(err, util.ErrAlreadySubmitted):
			monitoring.ExamSubmissions.WithLabelValues("rejected").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrExamNotFound):
			util.NotFound(ctx)
		default:
			monitoring.ExamSubmissions.WithLabelValues("error").Inc()
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.ExamSubmissions.WithLabelValues("completed").Inc()
	util.Success(ctx, result)
}

// swagger:model CheckAnswerRequest
type CheckAnswerRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	OptionID   uint `json:"option_id" binding:"required"`
}

// CheckAnswer godoc
// @Summary Practice-mode answer feedback
// @Description Stateless check of one option against one question; attempts
// @Description are not involved.
// @Tags exams
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "exam id"
// @Param   body body CheckAnswerRequest true "question and option"
// @Success 200 {object} util.Response{data=service.AnswerFeedback}
// @Failure 404 {object} util.Response "question or option not found"
// @Router /api/exams/{id}/check_answer [post]
func (c *ExamController) CheckAnswer(ctx *gin.Context) {
	var req CheckAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.AttemptService.CheckAnswer(req.QuestionID, req.OptionID)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) || errors.Is(err, util.ErrOptionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, feedback)
}

// History godoc
// @Summary The caller's attempt history, newest first
// @Tags exams
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ExamAttempt}
// @Router /api/history [get]
func (c *ExamController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	attempts, err := c.AttemptService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// AttemptDetail godoc
// @Summary One attempt with its recorded responses
// @Tags exams
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "attempt id"
// @Success 200 {object} util.Response{data=service.AttemptDetail}
// @Failure 404 {object} util.Response "attempt not found"
// @Router /api/history/{id} [get]
func (c *ExamController) AttemptDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	detail, err := c.AttemptService.Detail(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrInvalidAttempt) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// authorize runs the subscription gate for the exam's owning course and
// writes the 403 itself when access is denied.
func (c *ExamController) authorize(ctx *gin.Context, exam *model.Exam) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}

	course, err := c.AccessService.ResolveCourseForExam(exam)
	if err != nil {
		util.LogInternalError(ctx, err)
		return false
	}

	allowed, err := c.AccessService.CanAccess(claims.UserID, claims.Role, course)
	if err != nil {
		util.LogInternalError(ctx, err)
		return false
	}
	if !allowed {
		util.Error(ctx, http.StatusForbidden, "an active subscription is required for this content")
		return false
	}
	return true
}
