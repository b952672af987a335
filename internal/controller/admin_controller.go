package controller

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/service"
	"bitbybit_backend/internal/util"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController hosts the authoring surface: hierarchy and exam CRUD,
// AI question generation, CSV bulk uploads and banner management.
type AdminController struct {
	ContentService   *service.ContentService
	GeneratorService *service.GeneratorService
	ImportService    *service.ImportService
}

func NewAdminController(contentService *service.ContentService, generatorService *service.GeneratorService, importService *service.ImportService) *AdminController {
	return &AdminController{
		ContentService:   contentService,
		GeneratorService: generatorService,
		ImportService:    importService,
	}
}

// CreateCourse godoc
// @Summary Create a course
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   course body model.Course true "course"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var course model.Course
	if err := ctx.ShouldBindJSON(&course); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateCourse(&course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags admin
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response
// @Router /api/admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	if err := c.ContentService.DeleteCourse(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateSubject godoc
// @Summary Create a subject under a course
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects [post]
func (c *AdminController) CreateSubject(ctx *gin.Context) {
	var subject model.Subject
	if err := ctx.ShouldBindJSON(&subject); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateSubject(&subject); err != nil {
		c.writeParentError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// CreateChapter godoc
// @Summary Create a chapter under a subject
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.Chapter}
// @Router /api/admin/chapters [post]
func (c *AdminController) CreateChapter(ctx *gin.Context) {
	var chapter model.Chapter
	if err := ctx.ShouldBindJSON(&chapter); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateChapter(&chapter); err != nil {
		c.writeParentError(ctx, err)
		return
	}
	util.Created(ctx, chapter)
}

// CreateTopic godoc
// @Summary Create a topic under a chapter
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics [post]
func (c *AdminController) CreateTopic(ctx *gin.Context) {
	var topic model.Topic
	if err := ctx.ShouldBindJSON(&topic); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.ContentService.CreateTopic(&topic); err != nil {
		c.writeParentError(ctx, err)
		return
	}
	util.Created(ctx, topic)
}

type topicNotesRequest struct {
	StudyNotes string `json:"studyNotes" binding:"required"`
}

// UpdateTopicNotes godoc
// @Summary Replace a topic's study notes
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "topic id"
// @Success 200 {object} util.Response{data=model.Topic}
// @Router /api/admin/topics/{id}/notes [put]
func (c *AdminController) UpdateTopicNotes(ctx *gin.Context) {
	var req topicNotesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	topic, err := c.ContentService.UpdateTopicNotes(util.MustParseUint(ctx.Param("id")), req.StudyNotes)
	if err != nil {
		c.writeParentError(ctx, err)
		return
	}
	util.Success(ctx, topic)
}

// CreateExam godoc
// @Summary Create an exam attached to a chapter, subject or course
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   exam body service.ExamCreateRequest true "exam"
// @Success 201 {object} util.Response{data=model.Exam}
// @Router /api/admin/exams [post]
func (c *AdminController) CreateExam(ctx *gin.Context) {
	var req service.ExamCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	exam, err := c.ContentService.CreateExam(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, exam)
}

// AddQuestion godoc
// @Summary Add a question with options to an exam
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "exam id"
// @Param   question body service.QuestionCreateRequest true "question"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/admin/exams/{id}/questions [post]
func (c *AdminController) AddQuestion(ctx *gin.Context) {
	var req service.QuestionCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.ContentService.AddQuestion(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		if errors.Is(err, util.ErrExamNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, question)
}

// DeleteQuestion godoc
// @Summary Delete a question and its options
// @Tags admin
// @Security ApiKeyAuth
// @Param   id path int true "question id"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	if err := c.ContentService.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type generateRequest struct {
	TopicID      uint   `json:"topicId" binding:"required"`
	NumQuestions int    `json:"numQuestions"`
	Difficulty   string `json:"difficulty"`
}

// GenerateExam godoc
// @Summary Generate a quiz for a topic from its study notes
// @Description Calls the configured AI provider and persists the generated exam.
// @Tags admin
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body generateRequest true "generation parameters"
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response "topic missing or has no study notes"
// @Router /api/admin/ai-generator/generate [post]
func (c *AdminController) GenerateExam(ctx *gin.Context) {
	var req generateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	exam, err := c.GeneratorService.GenerateExamFromTopic(req.TopicID, req.NumQuestions, req.Difficulty)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, exam)
}

// BulkUploadNotes godoc
// @Summary Bulk import study notes from CSV
// @Description Header: course,subject,chapter,topic,order,study_notes. Missing hierarchy rows are created.
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "csv file"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Router /api/admin/bulk-notes/upload [post]
func (c *AdminController) BulkUploadNotes(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing csv file")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	report, err := c.ImportService.ImportNotes(src)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, report)
}

// BulkUploadQuestions godoc
// @Summary Bulk import questions from CSV
// @Description Header: exam_id,text,marks,explanation,option_a,option_b,option_c,option_d,correct.
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "csv file"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Router /api/admin/bulk-questions/upload [post]
func (c *AdminController) BulkUploadQuestions(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing csv file")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	report, err := c.ImportService.ImportQuestions(src)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, report)
}

// CreateBanner godoc
// @Summary Upload a home-screen banner
// @Tags admin
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   image formData file true "banner image"
// @Param   title formData string true "title"
// @Success 201 {object} util.Response{data=model.AdBanner}
// @Router /api/admin/banners [post]
func (c *AdminController) CreateBanner(ctx *gin.Context) {
	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "missing banner image")
		return
	}
	if !isBannerImage(file.Filename, file.Header.Get("Content-Type")) {
		util.BadRequest(ctx, "banner must be an image file")
		return
	}
	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "missing title")
		return
	}
	order := 0
	if v := ctx.PostForm("order"); v != "" {
		order = int(util.MustParseUint(v))
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	banner, err := c.ContentService.CreateBanner(ctx.Request.Context(), title, ctx.PostForm("targetUrl"), order, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, banner)
}

// DeleteBanner godoc
// @Summary Delete a banner
// @Tags admin
// @Security ApiKeyAuth
// @Param   id path int true "banner id"
// @Success 200 {object} util.Response
// @Router /api/admin/banners/{id} [delete]
func (c *AdminController) DeleteBanner(ctx *gin.Context) {
	if err := c.ContentService.DeleteBanner(util.MustParseUint(ctx.Param("id"))); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// isBannerImage accepts by content-type prefix, falling back to the file
// extension when the client sent no usable type.
func isBannerImage(filename, contentType string) bool {
	if strings.HasPrefix(contentType, util.MimeImage) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range util.AllowedImageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// writeParentError turns a missing-parent lookup into a 400 so authoring
// mistakes do not read as server faults.
func (c *AdminController) writeParentError(ctx *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Error(ctx, http.StatusBadRequest, "referenced parent record does not exist")
		return
	}
	util.LogInternalError(ctx, err)
}
