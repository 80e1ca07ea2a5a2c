package controller

import (
	"errors"
	"learnsphere_backend/internal/service"
	"learnsphere_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{
		ContentService: contentService,
	}
}

// UploadVideo godoc
// @Summary 上传章节视频
// @Description 上传视频文件，自动探测时长并生成封面缩略图
// @Tags 内容管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "视频文件"
// @Param   chapterId formData int true "章节ID"
// @Param   title formData string true "视频标题"
// @Success 201 {object} util.Response{data=model.ChapterVideo} "上传成功"
// @Failure 400 {object} util.Response "文件格式不支持"
// @Router /api/teacher/videos [post]
func (c *ContentController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少视频文件")
		return
	}

	chapterID, err := strconv.ParseUint(ctx.PostForm("chapterId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的章节ID")
		return
	}

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "缺少视频标题")
		return
	}

	video, err := c.ContentService.UploadVideo(ctx, file, uint(chapterID), title)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, video)
}

// UploadVideoChunk godoc
// @Summary 分块上传视频
// @Description 大文件分块上传，全部分块到齐后自动合并处理
// @Tags 内容管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   chunk formData file true "分块文件"
// @Param   chunkNumber formData int true "分块序号，从1开始"
// @Param   totalChunks formData int true "总分块数"
// @Param   identifier formData string true "上传标识"
// @Param   filename formData string true "原始文件名"
// @Param   chapterId formData int true "章节ID"
// @Param   title formData string false "视频标题"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/teacher/videos/chunk [post]
func (c *ContentController) UploadVideoChunk(ctx *gin.Context) {
	chunkFile, err := ctx.FormFile("chunk")
	if err != nil {
		util.BadRequest(ctx, "缺少分块文件")
		return
	}

	chunkNumber, err := strconv.Atoi(ctx.PostForm("chunkNumber"))
	if err != nil || chunkNumber < 1 {
		util.BadRequest(ctx, "无效的分块序号")
		return
	}
	totalChunks, err := strconv.Atoi(ctx.PostForm("totalChunks"))
	if err != nil || totalChunks < 1 {
		util.BadRequest(ctx, "无效的总分块数")
		return
	}

	identifier := ctx.PostForm("identifier")
	filename := ctx.PostForm("filename")
	if identifier == "" || filename == "" {
		util.BadRequest(ctx, "缺少上传标识或文件名")
		return
	}

	chapterID, err := strconv.ParseUint(ctx.PostForm("chapterId"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的章节ID")
		return
	}

	progress, video, err := c.ContentService.UploadVideoChunk(
		ctx, chunkFile, chunkNumber, totalChunks, identifier, filename, uint(chapterID), ctx.PostForm("title"))
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{
		"progress": progress,
		"video":    video,
	})
}

// GetUploadProgress godoc
// @Summary 查询分块上传进度
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   identifier path string true "上传标识"
// @Success 200 {object} util.Response{data=service.UploadProgress} "成功"
// @Failure 404 {object} util.Response "进度不存在"
// @Router /api/teacher/videos/progress/{identifier} [get]
func (c *ContentController) GetUploadProgress(ctx *gin.Context) {
	progress, err := c.ContentService.GetUploadProgress(ctx, ctx.Param("identifier"))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, progress)
}

// UpdateVideoRequest 更新视频请求
type UpdateVideoRequest struct {
	Title string `json:"title"`
	Order *int   `json:"order"`
}

// UpdateVideo godoc
// @Summary 更新视频信息
// @Tags 内容管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "视频ID"
// @Param   body body UpdateVideoRequest true "视频信息"
// @Success 200 {object} util.Response{data=model.ChapterVideo} "成功"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/teacher/videos/{id} [put]
func (c *ContentController) UpdateVideo(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的视频ID")
		return
	}

	var req UpdateVideoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	video, err := c.ContentService.UpdateVideo(uint(id), req.Title, req.Order)
	if err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, video)
}

// DeleteVideo godoc
// @Summary 删除视频
// @Description 删除视频记录并清理存储中的文件
// @Tags 内容管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "视频ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "视频不存在"
// @Router /api/teacher/videos/{id} [delete]
func (c *ContentController) DeleteVideo(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的视频ID")
		return
	}

	if err := c.ContentService.DeleteVideo(ctx, uint(id)); err != nil {
		if errors.Is(err, util.ErrVideoNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
