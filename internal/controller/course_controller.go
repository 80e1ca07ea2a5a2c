package controller

import (
	"errors"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/service"
	"learnsphere_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{
		CourseService: courseService,
	}
}

// ListCourses godoc
// @Summary 获取课程列表
// @Description 学生只能看到已发布课程，教师/管理员可见全部
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	publishedOnly := true
	if claims := util.GetUserFromContext(ctx); claims != nil && claims.Role != model.Student {
		publishedOnly = false
	}

	courses, total, err := c.CourseService.ListCourses(page, limit, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetCourse godoc
// @Summary 获取课程详情
// @Description 返回课程及其章节、视频列表
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	course, err := c.CourseService.GetCourse(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, course)
}

// CourseRequest 创建/更新课程请求
type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	IsPublished bool   `json:"isPublished"`
}

// CreateCourse godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Router /api/teacher/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublished: req.IsPublished,
		CreatorID:   claims.UserID,
	}

	if err := c.CourseService.CreateCourse(course); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body CourseRequest true "课程信息"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	var req CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublished: req.IsPublished,
	}
	course.ID = uint(id)

	if err := c.CourseService.UpdateCourse(course); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// DeleteCourse godoc
// @Summary 删除课程
// @Description 级联删除章节和视频记录
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	if err := c.CourseService.DeleteCourse(uint(id)); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ChapterRequest 章节请求
type ChapterRequest struct {
	CourseID uint   `json:"courseId"`
	Title    string `json:"title" binding:"required"`
	Order    int    `json:"order"`
	TestID   string `json:"testId"`
}

// CreateChapter godoc
// @Summary 创建章节
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ChapterRequest true "章节信息"
// @Success 201 {object} util.Response{data=model.Chapter} "创建成功"
// @Router /api/teacher/chapters [post]
func (c *CourseController) CreateChapter(ctx *gin.Context) {
	var req ChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter := &model.Chapter{
		CourseID: req.CourseID,
		Title:    req.Title,
		Order:    req.Order,
		TestID:   req.TestID,
	}

	if err := c.CourseService.CreateChapter(chapter); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, chapter)
}

// UpdateChapter godoc
// @Summary 更新章节
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Param   body body ChapterRequest true "章节信息"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/chapters/{id} [put]
func (c *CourseController) UpdateChapter(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的章节ID")
		return
	}

	var req ChapterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	chapter := &model.Chapter{
		Title:  req.Title,
		Order:  req.Order,
		TestID: req.TestID,
	}
	chapter.ID = uint(id)

	if err := c.CourseService.UpdateChapter(chapter); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// DeleteChapter godoc
// @Summary 删除章节
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "章节ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/chapters/{id} [delete]
func (c *CourseController) DeleteChapter(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的章节ID")
		return
	}

	if err := c.CourseService.DeleteChapter(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ProgressRequest 观看进度上报
type ProgressRequest struct {
	VideoID     uint    `json:"videoId" binding:"required"`
	PositionSec float64 `json:"positionSec"`
	WatchedSec  float64 `json:"watchedSec"`
}

// ReportProgress godoc
// @Summary 上报视频观看进度
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ProgressRequest true "进度信息"
// @Success 200 {object} util.Response{data=model.VideoProgress} "成功"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/progress [post]
func (c *CourseController) ReportProgress(ctx *gin.Context) {
	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	progress, err := c.CourseService.ReportProgress(claims.UserID, req.VideoID, req.PositionSec, req.WatchedSec)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// GetCourseProgress godoc
// @Summary 获取课程学习进度
// @Description 汇总当前用户在课程内所有视频的观看进度
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgress} "成功"
// @Router /api/courses/{id}/progress [get]
func (c *CourseController) GetCourseProgress(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的课程ID")
		return
	}

	claims := util.GetUserFromContext(ctx)
	progress, err := c.CourseService.GetCourseProgress(claims.UserID, uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
