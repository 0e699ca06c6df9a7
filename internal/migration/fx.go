package migration

import (
	"strings"

	"github.com/smallbiznis/mentorhub/internal/config"
	"github.com/smallbiznis/mentorhub/internal/seed"
	"github.com/smallbiznis/mentorhub/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if strings.EqualFold(db.ConfigFrom(cfg).Type, db.TypePostgres) {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else if err := AutoMigrate(conn); err != nil {
			return err
		}

		if cfg.SeedDemoData {
			if err := seed.EnsureDemoData(conn, cfg.DefaultOrgID); err != nil {
				return err
			}
			log.Info("demo data ensured", zap.Int64("org_id", cfg.DefaultOrgID))
		}
		return nil
	}),
)
