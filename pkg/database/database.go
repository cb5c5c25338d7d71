package database

import (
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/model"
	applog "access_edu_backend/pkg/logger"
	"net"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// gormWriter 把 gorm 的 SQL 日志转到全局 zap 日志
type gormWriter struct {
	sugar *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// DSN 按驱动格式拼接连接串，驱动解析时以最后一个 @ 分隔账号，密码中可以包含 @
func DSN(cfg *config.DatabaseConfig) string {
	dc := mysqldriver.NewConfig()
	dc.User = cfg.User
	dc.Passwd = cfg.Password
	dc.Net = "tcp"
	dc.Addr = cfg.Host
	if cfg.Port > 0 {
		dc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	}
	dc.DBName = cfg.DBName
	dc.ParseTime = cfg.ParseTime
	dc.Loc = time.Local
	if cfg.Charset != "" {
		dc.Params = map[string]string{"charset": cfg.Charset}
	}
	return dc.FormatDSN()
}

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.New(gormWriter{sugar: applog.Log.Sugar()}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		// 唯一索引冲突统一转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	applog.Log.Info("Database connection established",
		zap.String("addr", cfg.Host),
		zap.String("db", cfg.DBName),
	)
	return db, nil
}

// Migrate 自动迁移全部表结构。唯一索引 (用户, 课程)、(用户, 课时)、(用户, 测验, 次序号)
// 是证书幂等写入和作答次序号的保证，必须随表一起创建
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return err
	}
	applog.Log.Info("Database migration completed", zap.Int("tables", len(model.All())))
	return nil
}
