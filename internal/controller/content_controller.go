package controller

import (
	"bitbybit_backend/internal/model"
	"bitbybit_backend/internal/service"
	"bitbybit_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContentController struct {
	ContentService *service.ContentService
	AccessService  *service.AccessService
}

func NewContentController(contentService *service.ContentService, accessService *service.AccessService) *ContentController {
	return &ContentController{
		ContentService: contentService,
		AccessService:  accessService,
	}
}

// ListCourses godoc
// @Summary All courses (flat)
// @Tags content
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *ContentController) ListCourses(ctx *gin.Context) {
	courses, err := c.ContentService.ListCourses()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourseTree godoc
// @Summary One course with its subject/chapter/topic tree
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *ContentController) GetCourseTree(ctx *gin.Context) {
	course, err := c.ContentService.GetCourseTree(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// GetTopicNotes godoc
// @Summary Study notes of one topic
// @Description Gated by the owning course's subscription rules.
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "topic id"
// @Success 200 {object} util.Response{data=model.Topic}
// @Failure 403 {object} util.Response "subscription required"
// @Failure 404 {object} util.Response
// @Router /api/topics/{id}/notes [get]
func (c *ContentController) GetTopicNotes(ctx *gin.Context) {
	topic, err := c.ContentService.GetTopic(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	claims := util.GetUserFromContext(ctx)
	course, err := c.AccessService.ResolveCourseForTopic(topic)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	allowed, err := c.AccessService.CanAccess(claims.UserID, claims.Role, course)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !allowed {
		util.Error(ctx, http.StatusForbidden, "an active subscription is required for this content")
		return
	}

	util.Success(ctx, topic)
}

// ListExams godoc
// @Summary Exams attached to a content node
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   owner_type query string true "chapter, subject or course"
// @Param   owner_id path int true "owner id"
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /api/exams [get]
func (c *ContentController) ListExams(ctx *gin.Context) {
	ownerType := model.ExamOwnerType(ctx.Query("owner_type"))
	switch ownerType {
	case model.OwnerChapter, model.OwnerSubject, model.OwnerCourse:
	default:
		util.BadRequest(ctx, "owner_type must be chapter, subject or course")
		return
	}

	exams, err := c.ContentService.ListExamsByOwner(ownerType, util.MustParseUint(ctx.Query("owner_id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// ListBanners godoc
// @Summary Active home-screen banners, in display order
// @Tags content
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.AdBanner}
// @Router /api/banners [get]
func (c *ContentController) ListBanners(ctx *gin.Context) {
	banners, err := c.ContentService.ListBanners()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, banners)
}

// Subscribe godoc
// @Summary Subscribe the caller to a course
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "course id"
// @Success 201 {object} util.Response{data=model.UserSubscription}
// @Failure 404 {object} util.Response "course not found"
// @Router /api/courses/{id}/subscribe [post]
func (c *ContentController) Subscribe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	sub, err := c.AccessService.Subscribe(claims.UserID, util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, sub)
}

// ListSubscriptions godoc
// @Summary The caller's subscriptions
// @Tags content
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserSubscription}
// @Router /api/subscriptions [get]
func (c *ContentController) ListSubscriptions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	subs, err := c.AccessService.ListSubscriptions(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
