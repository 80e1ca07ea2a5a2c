package controller

import (
	"errors"
	"learnsphere_backend/internal/service"
	"learnsphere_backend/internal/session"
	"learnsphere_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChapterTestController struct {
	TestService *service.ChapterTestService
}

func NewChapterTestController(testService *service.ChapterTestService) *ChapterTestController {
	return &ChapterTestController{
		TestService: testService,
	}
}

// attemptError 把会话错误映射到对应的HTTP响应
func attemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrTestNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrAttemptCompleted),
		errors.Is(err, session.ErrCompleted):
		util.Conflict(ctx, "答题已完成，不可重复操作")
	case errors.Is(err, util.ErrAnswerSetIncomplete):
		util.Conflict(ctx, "尚有题目未作答")
	case errors.Is(err, util.ErrTestNotPublished):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNoAnswerSelected),
		errors.Is(err, util.ErrQuestionNotInAttempt),
		errors.Is(err, session.ErrAnswerLocked),
		errors.Is(err, session.ErrUnknownQuestion),
		errors.Is(err, session.ErrAtFirstQuestion),
		errors.Is(err, session.ErrAtLastQuestion),
		errors.Is(err, session.ErrIndexOutOfRange):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// StartAttempt godoc
// @Summary 开始答题
// @Description 为当前用户建立新的答题会话，返回不含答案的题目序列
// @Tags 章节测试
// @Produce  json
// @Security BearerAuth
// @Param   testId path string true "试卷ID"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Failure 403 {object} util.Response "试卷未发布"
// @Router /api/tests/{testId}/attempts [post]
func (c *ChapterTestController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, questions, err := c.TestService.StartAttempt(ctx, claims.UserID, ctx.Param("testId"))
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{
		"attempt":   view,
		"questions": questions,
	})
}

// GetAttempt godoc
// @Summary 恢复答题会话
// @Description 页面刷新后取回完整会话状态，已判分题目的反馈一并返回
// @Tags 章节测试
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path string true "答题记录ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "答题记录不存在"
// @Router /api/attempts/{attemptId} [get]
func (c *ChapterTestController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, questions, err := c.TestService.GetAttempt(ctx, claims.UserID, ctx.Param("attemptId"))
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"attempt":   view,
		"questions": questions,
	})
}

// SubmitAnswerRequest 单题提交
type SubmitAnswerRequest struct {
	QuestionID     string `json:"questionId" binding:"required"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// SubmitAnswer godoc
// @Summary 提交单题答案
// @Description 立即判分并返回反馈；已判分题目的重复提交幂等返回原反馈
// @Tags 章节测试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path string true "答题记录ID"
// @Param   body body SubmitAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=session.Feedback} "判分结果"
// @Failure 400 {object} util.Response "未选择答案"
// @Failure 409 {object} util.Response "答题已完成"
// @Router /api/attempts/{attemptId}/answers [post]
func (c *ChapterTestController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	feedback, err := c.TestService.SubmitAnswer(ctx, claims.UserID, ctx.Param("attemptId"), req.QuestionID, req.SelectedAnswer)
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, feedback)
}

// NavigateRequest 题间导航
type NavigateRequest struct {
	Action string `json:"action" binding:"required,oneof=next previous jump"`
	Index  int    `json:"index"`
}

// Navigate godoc
// @Summary 题间导航
// @Description next/previous/jump三种动作；最后一题上的next返回错误而不是交卷
// @Tags 章节测试
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path string true "答题记录ID"
// @Param   body body NavigateRequest true "导航动作"
// @Success 200 {object} util.Response{data=service.AttemptView} "当前会话状态"
// @Failure 400 {object} util.Response "导航越界"
// @Router /api/attempts/{attemptId}/navigate [post]
func (c *ChapterTestController) Navigate(ctx *gin.Context) {
	var req NavigateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	view, err := c.TestService.Navigate(ctx, claims.UserID, ctx.Param("attemptId"), req.Action, req.Index)
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// CompleteAttempt godoc
// @Summary 完成答题
// @Description 所有题目判分完毕后才能交卷；重复交卷返回409，不产生新成绩
// @Tags 章节测试
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path string true "答题记录ID"
// @Success 200 {object} util.Response{data=session.Result} "最终成绩"
// @Failure 409 {object} util.Response "已完成或尚有未作答题目"
// @Router /api/attempts/{attemptId}/complete [post]
func (c *ChapterTestController) CompleteAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, err := c.TestService.CompleteAttempt(ctx, claims.UserID, ctx.Param("attemptId"))
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// RetakeAttempt godoc
// @Summary 重新测试
// @Description 丢弃旧会话，建立全新的答题记录从第一题开始
// @Tags 章节测试
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path string true "原答题记录ID"
// @Success 201 {object} util.Response{data=object} "新会话"
// @Router /api/attempts/{attemptId}/retake [post]
func (c *ChapterTestController) RetakeAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, questions, err := c.TestService.RetakeAttempt(ctx, claims.UserID, ctx.Param("attemptId"))
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{
		"attempt":   view,
		"questions": questions,
	})
}

// ---- 教师端 ----

// CreateTest godoc
// @Summary 创建试卷
// @Tags 章节测试管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.ChapterTestReq true "试卷信息"
// @Success 201 {object} util.Response{data=model.ChapterTest} "创建成功"
// @Router /api/teacher/tests [post]
func (c *ChapterTestController) CreateTest(ctx *gin.Context) {
	var req service.ChapterTestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	test, err := c.TestService.CreateTest(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary 更新试卷
// @Description 支持部分字段更新；题目列表全量对账，缺席的题会被删除
// @Tags 章节测试管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   testId path string true "试卷ID"
// @Param   body body service.ChapterTestReq true "试卷信息"
// @Success 200 {object} util.Response{data=model.ChapterTest} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/tests/{testId} [put]
func (c *ChapterTestController) UpdateTest(ctx *gin.Context) {
	var req service.ChapterTestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.UpdateTest(ctx.Param("testId"), req)
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary 删除试卷
// @Tags 章节测试管理
// @Produce  json
// @Security BearerAuth
// @Param   testId path string true "试卷ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/tests/{testId} [delete]
func (c *ChapterTestController) DeleteTest(ctx *gin.Context) {
	if err := c.TestService.DeleteTest(ctx.Param("testId")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetTest godoc
// @Summary 获取试卷详情（含答案）
// @Tags 章节测试管理
// @Produce  json
// @Security BearerAuth
// @Param   testId path string true "试卷ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "试卷不存在"
// @Router /api/teacher/tests/{testId} [get]
func (c *ChapterTestController) GetTest(ctx *gin.Context) {
	test, questions, err := c.TestService.GetTest(ctx.Param("testId"))
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"test":      test,
		"questions": questions,
	})
}

// ListTests godoc
// @Summary 试卷列表
// @Description 附带题目数和完成人数统计
// @Tags 章节测试管理
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/teacher/tests [get]
func (c *ChapterTestController) ListTests(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	tests, total, err := c.TestService.ListTests(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"tests": tests,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ListAttempts godoc
// @Summary 试卷答题记录列表
// @Description 教师按试卷查看学生答题记录，支持学生姓名搜索
// @Tags 章节测试管理
// @Produce  json
// @Security BearerAuth
// @Param   testId path string true "试卷ID"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   studentName query string false "学生姓名搜索"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/teacher/tests/{testId}/attempts [get]
func (c *ChapterTestController) ListAttempts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, total, err := c.TestService.ListAttempts(ctx.Param("testId"), page, limit, ctx.Query("studentName"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"attempts": attempts,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetAttemptDetail godoc
// @Summary 答题记录详情
// @Description 学生的逐题作答和判分明细
// @Tags 章节测试管理
// @Produce  json
// @Security BearerAuth
// @Param   attemptId path string true "答题记录ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/teacher/attempts/{attemptId} [get]
func (c *ChapterTestController) GetAttemptDetail(ctx *gin.Context) {
	detail, err := c.TestService.GetAttemptDetail(ctx.Param("attemptId"))
	if err != nil {
		attemptError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// ResetAttemptsRequest 批量重置请求
type ResetAttemptsRequest struct {
	AttemptIDs []string `json:"attemptIds" binding:"required,min=1"`
}

// ResetAttempts godoc
// @Summary 批量重置学生答题
// @Description 删除选中的答题记录，允许学生重新测试
// @Tags 章节测试管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ResetAttemptsRequest true "答题记录ID列表"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/attempts/reset [post]
func (c *ChapterTestController) ResetAttempts(ctx *gin.Context) {
	var req ResetAttemptsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.TestService.ResetStudentAttempts(ctx, req.AttemptIDs); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
