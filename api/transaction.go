package api

import (
	"strconv"

	"moneymanager/middleware"
	"moneymanager/models"
	"moneymanager/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 收入/支出共用的处理器，kind 决定操作哪一类记录
type TransactionHandler struct {
	transactions *service.TransactionService
	kind         models.Kind
	idParam      string // 删除时使用的查询参数名
}

// TransactionRequest 新增收入/支出请求
type TransactionRequest struct {
	Name       string          `json:"name" binding:"required,max=100" example:"午餐"`
	Icon       string          `json:"icon" example:"🍜"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"number" example:"25.50"`
	Date       string          `json:"date" binding:"required" example:"2024-01-15"`
	CategoryID uint            `json:"categoryId" binding:"required" example:"1"`
}

// Create 新增一条记录
// @Summary 新增收入/支出
// @Tags 收支
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransactionRequest true "记录信息"
// @Success 200 {object} Response{data=models.Transaction} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "类别不存在"
// @Router /incomes [post]
// @Router /expenses [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	record, err := h.transactions.Add(c.Request.Context(), middleware.GetCurrentUserID(c), h.kind, service.TransactionInput{
		Name:       req.Name,
		Icon:       req.Icon,
		Amount:     req.Amount,
		Date:       req.Date,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		respondError(c, err, "创建"+h.kind.DisplayName()+"失败")
		return
	}
	SuccessWithMessage(c, "创建成功", record)
}

// CurrentMonth 本月记录
// @Summary 本月收入/支出
// @Tags 收支
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Transaction} "获取成功"
// @Router /incomes [get]
// @Router /expenses [get]
func (h *TransactionHandler) CurrentMonth(c *gin.Context) {
	list, err := h.transactions.CurrentMonth(c.Request.Context(), middleware.GetCurrentUserID(c), h.kind)
	if err != nil {
		respondError(c, err, "获取"+h.kind.DisplayName()+"失败")
		return
	}
	Success(c, list)
}

// Delete 删除一条记录
// @Summary 删除收入/支出
// @Tags 收支
// @Produce json
// @Security BearerAuth
// @Param incomeId query int false "收入ID（/incomes）"
// @Param expenseId query int false "支出ID（/expenses）"
// @Success 200 {object} Response{data=models.Transaction} "删除成功"
// @Failure 404 {object} Response "记录不存在"
// @Router /incomes [delete]
// @Router /expenses [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query(h.idParam), 10, 64)
	if err != nil {
		BadRequest(c, "无效的 "+h.idParam)
		return
	}

	record, err := h.transactions.Delete(c.Request.Context(), middleware.GetCurrentUserID(c), h.kind, uint(id))
	if err != nil {
		respondError(c, err, "删除"+h.kind.DisplayName()+"失败")
		return
	}
	SuccessWithMessage(c, h.kind.DisplayName()+"删除成功", record)
}
