package controller

import (
	"errors"
	"learnsphere_backend/internal/model"
	"learnsphere_backend/internal/service"
	"learnsphere_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type DailyQuizController struct {
	QuizService *service.DailyQuizService
}

func NewDailyQuizController(quizService *service.DailyQuizService) *DailyQuizController {
	return &DailyQuizController{
		QuizService: quizService,
	}
}

// GetTodayQuiz godoc
// @Summary 获取当日练习
// @Description 按难度取当日已发布的每日一练及其题目
// @Tags 每日一练
// @Produce  json
// @Security BearerAuth
// @Param   difficulty query string true "难度" Enums(easy, medium, hard)
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "当日无该难度练习"
// @Router /api/daily-quiz [get]
func (c *DailyQuizController) GetTodayQuiz(ctx *gin.Context) {
	difficulty := model.QuizDifficulty(ctx.Query("difficulty"))
	if difficulty != model.QuizEasy && difficulty != model.QuizMedium && difficulty != model.QuizHard {
		util.BadRequest(ctx, "难度必须是 easy、medium 或 hard")
		return
	}

	quiz, questions, err := c.QuizService.GetTodayQuiz(difficulty)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{
		"quiz":      quiz,
		"questions": questions,
	})
}

// SubmitQuizRequest 整卷提交
type SubmitQuizRequest struct {
	StudentName string            `json:"studentName" binding:"required"`
	Answers     map[string]string `json:"answers" binding:"required"`
}

// SubmitQuiz godoc
// @Summary 提交每日一练
// @Description 整卷提交，每题都要有非空答案，缺一题整卷拒绝
// @Tags 每日一练
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "练习ID"
// @Param   body body SubmitQuizRequest true "姓名和答案"
// @Success 200 {object} util.Response{data=model.DailyQuizSubmission} "提交成功"
// @Failure 409 {object} util.Response "尚有题目未作答"
// @Router /api/daily-quiz/{quizId}/submit [post]
func (c *DailyQuizController) SubmitQuiz(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	submission, err := c.QuizService.SubmitQuiz(claims.UserID, ctx.Param("quizId"), req.StudentName, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAnswerSetIncomplete):
			util.Conflict(ctx, "尚有题目未作答")
		case errors.Is(err, util.ErrQuestionNotInAttempt):
			util.BadRequest(ctx, "答案中包含不属于本练习的题目")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submission)
}

// ---- 教师端 ----

// CreateQuiz godoc
// @Summary 创建每日一练
// @Tags 每日一练管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.DailyQuizReq true "练习信息"
// @Success 201 {object} util.Response{data=model.DailyQuiz} "创建成功"
// @Router /api/teacher/daily-quizzes [post]
func (c *DailyQuizController) CreateQuiz(ctx *gin.Context) {
	var req service.DailyQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.CreateQuiz(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新每日一练
// @Tags 每日一练管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "练习ID"
// @Param   body body service.DailyQuizReq true "练习信息"
// @Success 200 {object} util.Response{data=model.DailyQuiz} "成功"
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/teacher/daily-quizzes/{quizId} [put]
func (c *DailyQuizController) UpdateQuiz(ctx *gin.Context) {
	var req service.DailyQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(ctx.Param("quizId"), req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除每日一练
// @Tags 每日一练管理
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "练习ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/daily-quizzes/{quizId} [delete]
func (c *DailyQuizController) DeleteQuiz(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuiz(ctx.Param("quizId")); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetQuiz godoc
// @Summary 获取练习详情
// @Tags 每日一练管理
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "练习ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/teacher/daily-quizzes/{quizId} [get]
func (c *DailyQuizController) GetQuiz(ctx *gin.Context) {
	quiz, questions, err := c.QuizService.GetQuiz(ctx.Param("quizId"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{
		"quiz":      quiz,
		"questions": questions,
	})
}

// ListQuizzes godoc
// @Summary 练习列表
// @Tags 每日一练管理
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/teacher/daily-quizzes [get]
func (c *DailyQuizController) ListQuizzes(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	quizzes, total, err := c.QuizService.ListQuizzes(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"quizzes": quizzes,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// ListSubmissions godoc
// @Summary 提交列表
// @Description 教师查看学生提交，可按日期过滤
// @Tags 每日一练管理
// @Produce  json
// @Security BearerAuth
// @Param   quizId path string true "练习ID"
// @Param   date query string false "日期过滤 YYYY-MM-DD"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/teacher/daily-quizzes/{quizId}/submissions [get]
func (c *DailyQuizController) ListSubmissions(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	var day *time.Time
	if dateStr := ctx.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			util.BadRequest(ctx, "日期格式须为 YYYY-MM-DD")
			return
		}
		day = &parsed
	}

	submissions, total, err := c.QuizService.ListSubmissions(ctx.Param("quizId"), day, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"submissions": submissions,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// GetSubmissionDetail godoc
// @Summary 提交详情
// @Description 单份提交的题目和答案对照
// @Tags 每日一练管理
// @Produce  json
// @Security BearerAuth
// @Param   submissionId path string true "提交ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "提交不存在"
// @Router /api/teacher/daily-quiz-submissions/{submissionId} [get]
func (c *DailyQuizController) GetSubmissionDetail(ctx *gin.Context) {
	detail, err := c.QuizService.GetSubmissionDetail(ctx.Param("submissionId"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, detail)
}
