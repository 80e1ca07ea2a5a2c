package controller

import (
	"errors"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/service"
	"learnsphere_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PracticeController struct {
	PracticeService *service.PracticeService
}

func NewPracticeController(practiceService *service.PracticeService) *PracticeController {
	return &PracticeController{
		PracticeService: practiceService,
	}
}

// ListProblems godoc
// @Summary 练习题列表
// @Tags 编程练习
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   difficulty query string false "难度筛选"
// @Param   category query string false "分类筛选"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/practice/problems [get]
func (c *PracticeController) ListProblems(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	publishedOnly := true
	if claims := util.GetUserFromContext(ctx); claims != nil && claims.Role != model.Student {
		publishedOnly = false
	}

	problems, total, err := c.PracticeService.ListProblems(page, limit, ctx.Query("difficulty"), ctx.Query("category"), publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"problems": problems,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProblem godoc
// @Summary 练习题详情
// @Tags 编程练习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.PracticeProblem} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/practice/problems/{id} [get]
func (c *PracticeController) GetProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	problem, err := c.PracticeService.GetProblem(uint(id))
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, problem)
}

// SubmitSolutionRequest 练习提交
type SubmitSolutionRequest struct {
	Code   string `json:"code" binding:"required"`
	Output string `json:"output" binding:"required"`
}

// SubmitSolution godoc
// @Summary 提交练习答案
// @Description 提交代码和运行输出，按期望输出比对判定通过与否
// @Tags 编程练习
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body SubmitSolutionRequest true "代码和输出"
// @Success 200 {object} util.Response{data=model.PracticeSubmission} "判定结果"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/practice/problems/{id}/submit [post]
func (c *PracticeController) SubmitSolution(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	var req SubmitSolutionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	submission, err := c.PracticeService.SubmitSolution(claims.UserID, uint(id), req.Code, req.Output)
	if err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submission)
}

// GetSubmissionHistory godoc
// @Summary 提交历史
// @Description 当前用户在某题上的全部提交记录
// @Tags 编程练习
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/practice/problems/{id}/submissions [get]
func (c *PracticeController) GetSubmissionHistory(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	claims := util.GetUserFromContext(ctx)
	submissions, err := c.PracticeService.GetSubmissionHistory(claims.UserID, uint(id))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"submissions": submissions})
}

// ---- 教师端 ----

// ProblemRequest 创建/更新练习题请求
type ProblemRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Difficulty     string `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Category       string `json:"category"`
	StarterCode    string `json:"starterCode"`
	ExpectedOutput string `json:"expectedOutput"`
	Order          int    `json:"order"`
	IsPublished    bool   `json:"isPublished"`
}

// CreateProblem godoc
// @Summary 创建练习题
// @Tags 编程练习管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ProblemRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.PracticeProblem} "创建成功"
// @Router /api/teacher/practice/problems [post]
func (c *PracticeController) CreateProblem(ctx *gin.Context) {
	var req ProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem := &model.PracticeProblem{
		Title:          req.Title,
		Description:    req.Description,
		Difficulty:     req.Difficulty,
		Category:       req.Category,
		StarterCode:    req.StarterCode,
		ExpectedOutput: req.ExpectedOutput,
		Order:          req.Order,
		IsPublished:    req.IsPublished,
	}

	if err := c.PracticeService.CreateProblem(problem); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, problem)
}

// UpdateProblem godoc
// @Summary 更新练习题
// @Tags 编程练习管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body ProblemRequest true "题目信息"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/teacher/practice/problems/{id} [put]
func (c *PracticeController) UpdateProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	var req ProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	problem := &model.PracticeProblem{
		Title:          req.Title,
		Description:    req.Description,
		Difficulty:     req.Difficulty,
		Category:       req.Category,
		StarterCode:    req.StarterCode,
		ExpectedOutput: req.ExpectedOutput,
		Order:          req.Order,
		IsPublished:    req.IsPublished,
	}
	problem.ID = uint(id)

	if err := c.PracticeService.UpdateProblem(problem); err != nil {
		if errors.Is(err, util.ErrProblemNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// DeleteProblem godoc
// @Summary 删除练习题
// @Tags 编程练习管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/practice/problems/{id} [delete]
func (c *PracticeController) DeleteProblem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	if err := c.PracticeService.DeleteProblem(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
