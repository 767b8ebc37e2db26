package db

import (
	"context"

	"github.com/lionnelpat/svs-backend-sub002/internal/config"
	obslogger "github.com/lionnelpat/svs-backend-sub002/internal/observability/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(Open),
)

func Open(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         obslogger.NewGormLogger(obslogger.DefaultGormLoggerConfig()),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if cfg.DBType != "sqlite" {
		if err := conn.Use(prometheus.New(prometheus.Config{
			DBName:          cfg.DBName,
			RefreshInterval: 15,
		})); err != nil {
			log.Warn("db.metrics_plugin_failed", zap.Error(err))
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConn)
	}
	if cfg.DBMaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConn)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return sqlDB.Close()
		},
	})

	return conn, nil
}
