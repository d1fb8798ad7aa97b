package api

import (
	"fmt"
	"html"
	"net/http"
	"net/url"

	"moneymanager/middleware"
	"moneymanager/models"
	"moneymanager/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler Excel 导出（下载或发送到邮箱）
type ExportHandler struct {
	transactions *service.TransactionService
	categories   *service.CategoryService
	profiles     *service.ProfileService
	excel        *service.ExcelService
	mailer       service.Mailer
}

// NewExportHandler 创建导出处理器
func NewExportHandler(transactions *service.TransactionService, categories *service.CategoryService, profiles *service.ProfileService, excel *service.ExcelService, mailer service.Mailer) *ExportHandler {
	return &ExportHandler{
		transactions: transactions,
		categories:   categories,
		profiles:     profiles,
		excel:        excel,
		mailer:       mailer,
	}
}

// buildCurrentMonth 生成当前用户本月记录的工作簿
func (h *ExportHandler) buildCurrentMonth(c *gin.Context, kind models.Kind) ([]byte, error) {
	ctx := c.Request.Context()
	profileID := middleware.GetCurrentUserID(c)

	list, err := h.transactions.CurrentMonth(ctx, profileID, kind)
	if err != nil {
		return nil, err
	}
	names, err := h.categories.NameMap(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return h.excel.Build(kind, list, names)
}

// Download 下载本月收入/支出 Excel
// @Summary 下载本月收支 Excel
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Router /excel/download/income [get]
// @Router /excel/download/expense [get]
func (h *ExportHandler) Download(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := h.buildCurrentMonth(c, kind)
		if err != nil {
			respondError(c, err, "生成 Excel 失败")
			return
		}

		filename := h.excel.Filename(kind)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s; filename*=UTF-8''%s", filename, url.PathEscape(filename)))
		c.Data(http.StatusOK, service.ExcelContentType, data)
	}
}

// Email 把本月收入/支出 Excel 发送到当前用户邮箱
// @Summary 邮件发送本月收支 Excel
// @Tags 导出
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response "发送成功"
// @Failure 503 {object} Response "邮件服务未启用"
// @Router /email/income-excel [get]
// @Router /email/expense-excel [get]
func (h *ExportHandler) Email(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := h.profiles.Get(c.Request.Context(), middleware.GetCurrentUserID(c))
		if err != nil {
			respondError(c, err, "获取用户信息失败")
			return
		}

		data, err := h.buildCurrentMonth(c, kind)
		if err != nil {
			respondError(c, err, "生成 Excel 失败")
			return
		}

		subject := fmt.Sprintf("【MoneyManager】本月%s明细", kind.DisplayName())
		body := fmt.Sprintf("<p>%s，您好：</p><p>附件为您本月的%s明细，请查收。</p>", html.EscapeString(profile.FullName), kind.DisplayName())
		if err := h.mailer.SendWithAttachment(profile.Email, subject, body, h.excel.Filename(kind), data); err != nil {
			respondError(c, err, "发送邮件失败")
			return
		}
		SuccessWithMessage(c, "已发送到 "+profile.Email, nil)
	}
}
