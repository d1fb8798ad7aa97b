package router

import (
	"net/http"
	"time"

	"moneymanager/api"
	"moneymanager/config"
	_ "moneymanager/docs"
	"moneymanager/middleware"
	"moneymanager/models"
	"moneymanager/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// 登录限流：每 IP 每分钟 10 次
const (
	loginMaxAttempts = 10
	loginWindow      = time.Minute
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, mailer service.Mailer) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	transactionService := service.NewTransactionService(db).WithLocation(cfg.Notification.Location())
	categoryService := service.NewCategoryService(db)
	profileService := service.NewProfileService(db, mailer, cfg.Server.BaseURL)
	dashboardService := service.NewDashboardService(transactionService)
	excelService := service.NewExcelService()

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 存活探针
	r.GET("/", api.Status)
	r.GET("/check", api.Check)
	r.GET("/status", api.Status)
	r.GET("/health", api.Status)

	// 用户相关（注册、激活、登录无需认证）
	profileHandler := api.NewProfileHandler(cfg, profileService)
	profile := r.Group("/profile")
	{
		profile.POST("/register", profileHandler.Register)
		profile.GET("/activate", profileHandler.Activate)
		profile.POST("/login", middleware.LoginRateLimit(loginMaxAttempts, loginWindow), profileHandler.Login)
	}

	// 需要 JWT 认证的路由
	authorized := r.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		authorized.GET("/profile/getProfile", profileHandler.GetProfile)

		// 类别
		categoryHandler := api.NewCategoryHandler(categoryService)
		categories := authorized.Group("/categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:type", categoryHandler.ListByType)
			categories.PUT("/:id", categoryHandler.Update)
		}

		// 收入
		incomeHandler := api.NewIncomeHandler(transactionService)
		incomes := authorized.Group("/incomes")
		{
			incomes.POST("", incomeHandler.Create)
			incomes.GET("", incomeHandler.CurrentMonth)
			incomes.DELETE("", incomeHandler.Delete)
		}

		// 支出
		expenseHandler := api.NewExpenseHandler(transactionService)
		expenses := authorized.Group("/expenses")
		{
			expenses.POST("", expenseHandler.Create)
			expenses.GET("", expenseHandler.CurrentMonth)
			expenses.DELETE("", expenseHandler.Delete)
		}

		// 仪表盘与筛选
		dashboardHandler := api.NewDashboardHandler(dashboardService, transactionService)
		authorized.GET("/dashboard", dashboardHandler.Summary)
		authorized.POST("/filters/filter", dashboardHandler.Filter)

		// Excel 导出
		exportHandler := api.NewExportHandler(transactionService, categoryService, profileService, excelService, mailer)
		authorized.GET("/excel/download/income", exportHandler.Download(models.KindIncome))
		authorized.GET("/excel/download/expense", exportHandler.Download(models.KindExpense))
		authorized.GET("/email/income-excel", exportHandler.Email(models.KindIncome))
		authorized.GET("/email/expense-excel", exportHandler.Email(models.KindExpense))
	}

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
