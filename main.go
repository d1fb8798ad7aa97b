package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"moneymanager/config"
	"moneymanager/database"
	"moneymanager/middleware"
	"moneymanager/router"
	"moneymanager/service"

	"github.com/joho/godotenv"
)

// @title MoneyManager 记账 API
// @version 1.0
// @description 个人记账系统 API：注册激活、登录、收支类别、收入支出记录、仪表盘、筛选与 Excel 导出
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("MoneyManager v1.0.0")
		return
	}

	// .env 中的 MONEYMANAGER_* 变量，文件不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("警告: 加载 .env 失败: %v", err)
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	level := slog.LevelDebug
	if cfg.Server.Mode == "release" {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// 打印配置信息
	config.PrintConfig()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	// 初始化 JWT
	middleware.InitJWT(cfg)

	mailer := service.NewEmailService(&cfg.Email)

	// 每日提醒与支出汇总
	notifier := service.NewNotificationService(
		&cfg.Notification,
		service.NewProfileService(database.DB, mailer, cfg.Server.BaseURL),
		service.NewTransactionService(database.DB).WithLocation(cfg.Notification.Location()),
		service.NewCategoryService(database.DB),
		mailer,
	)
	if err := notifier.Start(); err != nil {
		log.Fatalf("定时任务启动失败: %v", err)
	}
	defer notifier.Stop()

	// 设置路由
	r := router.SetupRouter(cfg, database.DB, mailer)

	// 启动服务器
	log.Printf("==========================================")
	log.Printf("  💰 MoneyManager 已启动")
	log.Printf("==========================================")
	log.Printf("  API接口:  %s/", cfg.Server.BaseURL)
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
