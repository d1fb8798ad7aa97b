package api

import (
	"moneymanager/middleware"
	"moneymanager/models"
	"moneymanager/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘与筛选
type DashboardHandler struct {
	dashboard    *service.DashboardService
	transactions *service.TransactionService
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(dashboard *service.DashboardService, transactions *service.TransactionService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, transactions: transactions}
}

// FilterRequest 筛选请求，未填写的字段使用默认值
type FilterRequest struct {
	Type      string `json:"type" example:"expense"`         // income / expense，默认 expense
	StartDate string `json:"startDate" example:"2024-01-01"` // 默认不限
	EndDate   string `json:"endDate" example:"2024-12-31"`   // 默认今天
	Keyword   string `json:"keyword" example:"咖啡"`           // 名称包含，大小写不敏感
	SortField string `json:"sortField" example:"date"`       // date / amount / name / created_at / id
	SortOrder string `json:"sortOrder" example:"desc"`       // asc / desc
}

// Summary 仪表盘汇总
// @Summary 仪表盘
// @Description 最近 5 条收入与支出（按创建时间合并倒序）、收支合计与结余
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.Dashboard} "获取成功"
// @Failure 401 {object} Response "未授权"
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	d, err := h.dashboard.Summary(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "获取仪表盘失败")
		return
	}
	Success(c, d)
}

// Filter 按日期区间和关键字筛选收入或支出
// @Summary 筛选收支
// @Tags 统计
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FilterRequest true "筛选条件"
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Failure 400 {object} Response "请求参数错误"
// @Router /filters/filter [post]
func (h *DashboardHandler) Filter(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	kind := models.KindExpense
	if req.Type != "" {
		k, ok := models.ParseKind(req.Type)
		if !ok {
			BadRequest(c, "类型必须为 income 或 expense")
			return
		}
		kind = k
	}

	list, err := h.transactions.Filter(c.Request.Context(), middleware.GetCurrentUserID(c), service.FilterQuery{
		Kind:      kind,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Keyword:   req.Keyword,
		SortField: req.SortField,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondError(c, err, "筛选失败")
		return
	}
	Success(c, list)
}
