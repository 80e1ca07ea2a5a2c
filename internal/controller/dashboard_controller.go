package controller

import (
	"learnsphere_backend/internal/service"
	"learnsphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
	}
}

// GetAdminDashboard godoc
// @Summary 管理后台总览
// @Description 用户、课程、答题等核心指标汇总
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.AdminDashboard} "成功"
// @Router /api/admin/dashboard [get]
func (c *DashboardController) GetAdminDashboard(ctx *gin.Context) {
	dash, err := c.DashboardService.GetAdminDashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}

// GetStudentDashboard godoc
// @Summary 学生学习概览
// @Description 当前学生的完成测试数、平均分和最近答题记录
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentDashboard} "成功"
// @Router /api/dashboard [get]
func (c *DashboardController) GetStudentDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	dash, err := c.DashboardService.GetStudentDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dash)
}
