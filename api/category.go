package api

import (
	"strconv"

	"moneymanager/middleware"
	"moneymanager/models"
	"moneymanager/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 收支类别
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler 创建类别处理器
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest 创建/更新类别请求
type CategoryRequest struct {
	Name string `json:"name" binding:"required,max=50" example:"餐饮"`
	Type string `json:"type" binding:"required" example:"expense"`
	Icon string `json:"icon" example:"🍔"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{Name: r.Name, Kind: r.Type, Icon: r.Icon}
}

// Create 创建类别
// @Summary 创建类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "类别信息"
// @Success 201 {object} Response{data=models.Category} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "类别已存在"
// @Router /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	category, err := h.categories.Create(c.Request.Context(), middleware.GetCurrentUserID(c), req.input())
	if err != nil {
		respondError(c, err, "创建类别失败")
		return
	}
	Created(c, "创建成功", category)
}

// List 当前用户的全部类别
// @Summary 获取类别列表
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.categories.List(c.Request.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		respondError(c, err, "获取类别失败")
		return
	}
	Success(c, list)
}

// ListByType 按类型获取类别
// @Summary 按类型获取类别
// @Tags 类别
// @Produce json
// @Security BearerAuth
// @Param type path string true "income 或 expense"
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Failure 400 {object} Response "类型错误"
// @Router /categories/{type} [get]
func (h *CategoryHandler) ListByType(c *gin.Context) {
	kind, ok := models.ParseKind(c.Param("type"))
	if !ok {
		BadRequest(c, "类型必须为 income 或 expense")
		return
	}

	list, err := h.categories.ListByKind(c.Request.Context(), middleware.GetCurrentUserID(c), kind)
	if err != nil {
		respondError(c, err, "获取类别失败")
		return
	}
	Success(c, list)
}

// Update 更新类别
// @Summary 更新类别
// @Tags 类别
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "类别ID"
// @Param request body CategoryRequest true "类别信息"
// @Success 200 {object} Response{data=models.Category} "更新成功"
// @Failure 404 {object} Response "类别不存在"
// @Router /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, "无效的类别ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	category, err := h.categories.Update(c.Request.Context(), middleware.GetCurrentUserID(c), uint(id), req.input())
	if err != nil {
		respondError(c, err, "更新类别失败")
		return
	}
	SuccessWithMessage(c, "更新成功", category)
}
