package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"moneymanager/config"
	"moneymanager/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接并自动迁移表结构
func Init(cfg *config.Config) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("自动迁移失败: %w", err)
	}

	DB = db
	log.Println("数据库初始化成功")
	return nil
}

// Open 按配置的驱动打开数据库连接
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.Server.Mode)),
		// 将外键、唯一键冲突翻译为 gorm.ErrForeignKeyViolated / gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Database.Path); dir != "." && !strings.HasPrefix(cfg.Database.Path, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建数据目录失败: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(SQLiteDSN(cfg.Database.Path)), gormCfg)
	case "mysql", "":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
			cfg.Database.Username,
			cfg.Database.Password,
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.DBName,
			cfg.Database.Charset,
		)
		db, err = gorm.Open(mysql.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Database.Driver == "sqlite" {
		// sqlite 单写者，限制连接数避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)  // 最大空闲连接数
		sqlDB.SetMaxOpenConns(100) // 最大打开连接数
	}

	return db, nil
}

// SQLiteDSN 为 sqlite 路径附加外键约束参数
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.Category{},
		&models.Transaction{},
	)
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}

func logLevel(mode string) logger.LogLevel {
	if mode == "release" {
		return logger.Warn
	}
	return logger.Info
}
